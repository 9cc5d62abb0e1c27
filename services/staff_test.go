package services_test

import (
	"context"
	"errors"
	"testing"

	"civicreport/model"
	"civicreport/repository"
	"civicreport/services"
	"civicreport/testutil"
)

// failingUsers fails every role change.
type failingUsers struct {
	repository.UserRepository
}

func (failingUsers) SetRoleByEmail(context.Context, string, model.Role, ...model.Role) (bool, error) {
	return false, errors.New("connection reset")
}

func TestApplyDeduplicatesByEmail(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	svc := services.NewStaffService(store)
	svc.Now = clock

	first, err := svc.Apply(ctx, &model.Staff{Name: "Sam", Email: "s@x.com", Status: model.StaffApproved})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if first.Status != model.StaffPending || !first.CreatedAt.Equal(fixedNow) {
		t.Errorf("applied staff = %+v", first)
	}

	_, err = svc.Apply(ctx, &model.Staff{Email: "s@x.com"})
	assertKind(t, err, services.ErrConflict)

	_, err = svc.Apply(ctx, &model.Staff{Name: "No email"})
	assertKind(t, err, services.ErrValidation)

	if _, err := svc.Decide(ctx, first.ID, model.StaffRejected, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := svc.Apply(ctx, &model.Staff{Email: "s@x.com"}); err != nil {
		t.Errorf("reapply after rejection: %v", err)
	}
}

func TestDecideApprovesAndUpgradesRole(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	svc := services.NewStaffService(store)

	newUser(t, store, "s@x.com", model.RoleUser)
	staff, err := svc.Apply(ctx, &model.Staff{Name: "Sam", Email: "s@x.com"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	res, err := svc.Decide(ctx, staff.ID, model.StaffApproved, "s@x.com")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !res.RoleUpgraded {
		t.Errorf("RoleUpgraded = false, error %q", res.RoleError)
	}
	got := mustStaff(t, store, staff.ID)
	if got.Status != model.StaffApproved || got.WorkStatus != model.WorkAvailable {
		t.Errorf("staff = %s/%s, want approved/available", got.Status, got.WorkStatus)
	}
	user, err := store.Users.GetByEmail(ctx, "s@x.com")
	if err != nil || user.Role != model.RoleStaff {
		t.Errorf("user role = %v, %v; want staff", user, err)
	}
}

func TestDecideKeepsAdminRole(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	svc := services.NewStaffService(store)

	newUser(t, store, "boss@x.com", model.RoleAdmin)
	staff := newStaff(t, store, "boss@x.com", model.StaffPending, "")
	if _, err := svc.Decide(ctx, staff.ID, model.StaffApproved, "boss@x.com"); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	user, _ := store.Users.GetByEmail(ctx, "boss@x.com")
	if user.Role != model.RoleAdmin {
		t.Errorf("role = %s, want admin", user.Role)
	}
}

func TestDecideRoleFailureIsReported(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	svc := services.NewStaffService(store)
	svc.Users = failingUsers{store.Users}

	staff := newStaff(t, store, "s@x.com", model.StaffPending, "")
	res, err := svc.Decide(ctx, staff.ID, model.StaffApproved, "s@x.com")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if res.RoleUpgraded || res.RoleError == "" {
		t.Errorf("result = %+v, want a reported role failure", res)
	}
	if got := mustStaff(t, store, staff.ID); got.Status != model.StaffApproved {
		t.Errorf("status = %s, want approved", got.Status)
	}
}

func TestDecideValidation(t *testing.T) {
	store := testutil.NewStore(t)
	svc := services.NewStaffService(store)
	staff := newStaff(t, store, "s@x.com", model.StaffPending, "")

	_, err := svc.Decide(context.Background(), staff.ID, model.StaffPending, "")
	assertKind(t, err, services.ErrValidation)
	_, err = svc.Decide(context.Background(), "nope", model.StaffApproved, "")
	assertKind(t, err, services.ErrNotFound)
}

func TestDecideKeepsWorkingStaffWorking(t *testing.T) {
	store := testutil.NewStore(t)
	svc := services.NewStaffService(store)
	staff := newStaff(t, store, "s@x.com", model.StaffApproved, model.WorkWorking)

	if _, err := svc.Decide(context.Background(), staff.ID, model.StaffApproved, ""); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if ws := mustStaff(t, store, staff.ID).WorkStatus; ws != model.WorkWorking {
		t.Errorf("workStatus = %s, want working", ws)
	}
}

func TestReconcileRoles(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	svc := services.NewStaffService(store)

	newUser(t, store, "a@x.com", model.RoleUser)
	newUser(t, store, "b@x.com", model.RoleStaff)
	newUser(t, store, "p@x.com", model.RoleUser)
	newStaff(t, store, "a@x.com", model.StaffApproved, model.WorkAvailable)
	newStaff(t, store, "b@x.com", model.StaffApproved, model.WorkAvailable)
	newStaff(t, store, "ghost@x.com", model.StaffApproved, model.WorkAvailable)
	newStaff(t, store, "p@x.com", model.StaffPending, "")

	changed, err := svc.ReconcileRoles(ctx)
	if err != nil {
		t.Fatalf("ReconcileRoles: %v", err)
	}
	if changed != 1 {
		t.Errorf("changed = %d, want 1", changed)
	}
	if u, _ := store.Users.GetByEmail(ctx, "p@x.com"); u.Role != model.RoleUser {
		t.Errorf("pending applicant promoted to %s", u.Role)
	}
}

func TestReleaseOrphaned(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	staffSvc := services.NewStaffService(store)
	reports := services.NewReportService(store, false)

	busy := newStaff(t, store, "busy@x.com", model.StaffApproved, model.WorkAvailable)
	r := newReport(t, store)
	if _, err := reports.AssignStaff(ctx, r.ID, busy.ID, "", ""); err != nil {
		t.Fatal(err)
	}
	orphan := newStaff(t, store, "orphan@x.com", model.StaffApproved, model.WorkWorking)

	released, err := staffSvc.ReleaseOrphaned(ctx)
	if err != nil {
		t.Fatalf("ReleaseOrphaned: %v", err)
	}
	if released != 1 {
		t.Errorf("released = %d, want 1", released)
	}
	if ws := mustStaff(t, store, orphan.ID).WorkStatus; ws != model.WorkAvailable {
		t.Errorf("orphan workStatus = %s", ws)
	}
	if ws := mustStaff(t, store, busy.ID).WorkStatus; ws != model.WorkWorking {
		t.Errorf("busy workStatus = %s", ws)
	}
}

func TestRemoveStaff(t *testing.T) {
	store := testutil.NewStore(t)
	svc := services.NewStaffService(store)
	staff := newStaff(t, store, "s@x.com", model.StaffPending, "")

	if err := svc.Remove(context.Background(), staff.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	assertKind(t, svc.Remove(context.Background(), staff.ID), services.ErrNotFound)
}
