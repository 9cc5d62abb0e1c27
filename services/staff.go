package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"civicreport/model"
	"civicreport/repository"
)

type StaffService struct {
	Staff   repository.StaffRepository
	Users   repository.UserRepository
	Reports repository.ReportRepository
	Now     func() time.Time
}

func NewStaffService(store *repository.Store) *StaffService {
	return &StaffService{
		Staff:   store.Staff,
		Users:   store.Users,
		Reports: store.Reports,
		Now:     time.Now,
	}
}

// Apply records a pending application. An email with a pending or approved
// application cannot apply again.
func (s *StaffService) Apply(ctx context.Context, staff *model.Staff) (*model.Staff, error) {
	if staff.Email == "" {
		return nil, newError(ErrValidation, "email is required")
	}
	existing, err := s.Staff.List(ctx, repository.StaffFilter{Email: staff.Email})
	if err != nil {
		return nil, storeErr(err, "staff")
	}
	for _, e := range existing {
		if e.Status == model.StaffPending || e.Status == model.StaffApproved {
			return nil, newError(ErrConflict, "an application for %s is already %s", staff.Email, e.Status)
		}
	}

	staff.ID = ""
	staff.Status = model.StaffPending
	staff.WorkStatus = ""
	staff.CreatedAt = s.Now().UTC()
	if err := s.Staff.Create(ctx, staff); err != nil {
		return nil, storeErr(err, "staff")
	}
	return staff, nil
}

func (s *StaffService) List(ctx context.Context, filter repository.StaffFilter) ([]model.Staff, error) {
	staff, err := s.Staff.List(ctx, filter)
	if err != nil {
		return nil, storeErr(err, "staff")
	}
	return staff, nil
}

type Decision struct {
	Staff        *model.Staff `json:"staff"`
	RoleUpgraded bool         `json:"roleUpgraded"`
	RoleError    string       `json:"roleError,omitempty"`
}

// Decide records an admin decision. The staff write is authoritative; the
// role upgrade on approval is best-effort and reported in the result, and
// re-running Decide (or ReconcileRoles) retries it.
func (s *StaffService) Decide(ctx context.Context, staffID string, decision model.StaffStatus, email string) (*Decision, error) {
	if decision != model.StaffApproved && decision != model.StaffRejected {
		return nil, newError(ErrValidation, "decision must be approved or rejected")
	}
	staff, err := s.Staff.Get(ctx, staffID)
	if err != nil {
		return nil, storeErr(err, "staff")
	}

	var workStatus model.WorkStatus
	if decision == model.StaffApproved && staff.WorkStatus != model.WorkWorking {
		workStatus = model.WorkAvailable
	}
	if err := s.Staff.UpdateDecision(ctx, staffID, decision, workStatus); err != nil {
		return nil, storeErr(err, "staff")
	}
	staff.Status = decision
	if workStatus != "" {
		staff.WorkStatus = workStatus
	}

	result := &Decision{Staff: staff}
	if decision != model.StaffApproved || email == "" {
		return result, nil
	}

	if _, err := s.Users.SetRoleByEmail(ctx, email, model.RoleStaff, model.RoleUser); err != nil {
		slog.Warn("staff role upgrade failed", "staff_id", staffID, "email", email, "error", err)
		result.RoleError = "role upgrade failed; re-run the decision"
		if errors.Is(err, repository.ErrNotFound) {
			result.RoleError = "no user with that email"
		}
		return result, nil
	}
	result.RoleUpgraded = true
	return result, nil
}

func (s *StaffService) Remove(ctx context.Context, staffID string) error {
	if err := s.Staff.Delete(ctx, staffID); err != nil {
		return storeErr(err, "staff")
	}
	return nil
}

// ReconcileRoles upgrades the user of every approved staff member still
// holding the plain user role. It returns how many users changed.
func (s *StaffService) ReconcileRoles(ctx context.Context) (int, error) {
	approved, err := s.Staff.List(ctx, repository.StaffFilter{Status: model.StaffApproved})
	if err != nil {
		return 0, storeErr(err, "staff")
	}
	changed := 0
	for _, st := range approved {
		if st.Email == "" {
			continue
		}
		ok, err := s.Users.SetRoleByEmail(ctx, st.Email, model.RoleStaff, model.RoleUser)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return changed, storeErr(err, "user role")
		}
		if ok {
			changed++
		}
	}
	return changed, nil
}

// ReleaseOrphaned frees every working staff member that no In-Progress report
// references. It returns how many were released.
func (s *StaffService) ReleaseOrphaned(ctx context.Context) (int, error) {
	working, err := s.Staff.List(ctx, repository.StaffFilter{WorkStatus: model.WorkWorking})
	if err != nil {
		return 0, storeErr(err, "staff")
	}
	released := 0
	for _, st := range working {
		reports, err := s.Reports.List(ctx, repository.ReportFilter{
			StaffID:      st.ID,
			ReportStatus: model.ReportInProgress,
			Limit:        1,
		})
		if err != nil {
			return released, storeErr(err, "reports")
		}
		if len(reports) > 0 {
			continue
		}
		if err := s.Staff.SetWorkStatus(ctx, st.ID, model.WorkAvailable); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return released, storeErr(err, "staff")
		}
		slog.Info("released orphaned staff", "staff_id", st.ID)
		released++
	}
	return released, nil
}
