package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"civicreport/model"
	"civicreport/repository"
	"civicreport/services"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// MockProvider is a CheckoutProvider driven by function fields.
type MockProvider struct {
	CreateSessionFunc func(ctx context.Context, req services.CheckoutRequest) (*services.CheckoutSession, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*services.CheckoutSession, error)
}

func (m *MockProvider) CreateSession(ctx context.Context, req services.CheckoutRequest) (*services.CheckoutSession, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, req)
	}
	return &services.CheckoutSession{ID: "cs_test", URL: "https://checkout.example/cs_test"}, nil
}

func (m *MockProvider) GetSession(ctx context.Context, sessionID string) (*services.CheckoutSession, error) {
	return m.GetSessionFunc(ctx, sessionID)
}

// paidSessions reports every session as paid for transaction tx and report.
func paidSessions(tx, reportID string) *MockProvider {
	return &MockProvider{
		GetSessionFunc: func(_ context.Context, id string) (*services.CheckoutSession, error) {
			return &services.CheckoutSession{
				ID:            id,
				PaymentStatus: "paid",
				TransactionID: tx,
				ReportID:      reportID,
				Name:          "Broken streetlight",
				Email:         "a@x.com",
				Amount:        100,
				Currency:      "usd",
			}, nil
		},
	}
}

func newReport(t *testing.T, store *repository.Store) *model.Report {
	t.Helper()
	svc := services.NewReportService(store, false)
	svc.Now = clock
	r, err := svc.Create(context.Background(), &model.Report{
		Email:    "a@x.com",
		Issue:    "Broken streetlight",
		Category: "lighting",
		Location: "Main St",
	})
	if err != nil {
		t.Fatalf("create report: %v", err)
	}
	return r
}

func newStaff(t *testing.T, store *repository.Store, email string, status model.StaffStatus, work model.WorkStatus) *model.Staff {
	t.Helper()
	s := &model.Staff{Name: "Sam", Email: email, Status: status, WorkStatus: work, CreatedAt: fixedNow}
	if err := store.Staff.Create(context.Background(), s); err != nil {
		t.Fatalf("create staff: %v", err)
	}
	return s
}

func newUser(t *testing.T, store *repository.Store, email string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Email: email, Role: role, CreatedAt: fixedNow}
	if _, err := store.Users.CreateIfMissing(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func mustReport(t *testing.T, store *repository.Store, id string) *model.Report {
	t.Helper()
	r, err := store.Reports.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get report %s: %v", id, err)
	}
	return r
}

func mustStaff(t *testing.T, store *repository.Store, id string) *model.Staff {
	t.Helper()
	s, err := store.Staff.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get staff %s: %v", id, err)
	}
	return s
}

func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("error = %v, want kind %v", err, kind)
	}
}
