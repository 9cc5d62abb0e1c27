package repository

import (
	"context"
	"errors"
	"strings"

	"civicreport/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// ReportFilter is a conjunction. Empty fields place no constraint.
type ReportFilter struct {
	Email         string
	ReportStatus  model.ReportStatus
	ExcludeStatus model.ReportStatus
	Category      string
	Priority      model.Priority
	StaffID       string
	StaffEmail    string
	// Search is a case-insensitive substring match over issue, category and location.
	Search string
	Limit  int
}

type StaffFilter struct {
	Status     model.StaffStatus
	WorkStatus model.WorkStatus
	Email      string
}

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	Get(ctx context.Context, id string) (*model.Report, error)
	List(ctx context.Context, filter ReportFilter) ([]model.Report, error)
	Delete(ctx context.Context, id string) error

	// AssignStaff moves the report to In-Progress with the given staff and
	// marks that staff working. A different staff previously on the report
	// is released in the same transition.
	AssignStaff(ctx context.Context, reportID string, staff model.StaffRef) error

	// UpdateStatus sets the report status. A status below In-Progress clears
	// the staff refs. When releaseStaffID is not empty that staff goes back to
	// available, unless another In-Progress report still names it.
	UpdateStatus(ctx context.Context, reportID string, status model.ReportStatus, releaseStaffID string) error

	// MarkPaid applies the priority upgrade. Submitted advances to Pending;
	// later statuses are kept. A report that is already paid is left as is,
	// so the upgrade lands once however often it is called.
	MarkPaid(ctx context.Context, reportID, trackingID string) error
}

type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	Get(ctx context.Context, id string) (*model.Staff, error)
	List(ctx context.Context, filter StaffFilter) ([]model.Staff, error)
	UpdateDecision(ctx context.Context, id string, status model.StaffStatus, workStatus model.WorkStatus) error
	SetWorkStatus(ctx context.Context, id string, workStatus model.WorkStatus) error
	Delete(ctx context.Context, id string) error
}

type PaymentRepository interface {
	// CreateIfAbsent inserts the payment unless one with the same
	// TransactionID exists. It returns the stored row and whether this call
	// created it. Concurrent callers on one TransactionID see exactly one
	// created=true.
	CreateIfAbsent(ctx context.Context, payment *model.Payment) (*model.Payment, bool, error)
	ListByEmail(ctx context.Context, email string) ([]model.Payment, error)
}

type UserRepository interface {
	// CreateIfMissing inserts the user keyed by email. created is false when
	// a user with that email already exists.
	CreateIfMissing(ctx context.Context, user *model.User) (bool, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, email, displayName, photoURL string) (*model.User, error)
	SetRole(ctx context.Context, id string, role model.Role) error
	// SetRoleByEmail changes the role only while the current role is one of
	// onlyFrom (any role when empty). It reports whether a row changed.
	SetRoleByEmail(ctx context.Context, email string, role model.Role, onlyFrom ...model.Role) (bool, error)
	Search(ctx context.Context, term string, limit int) ([]model.User, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Reports  ReportRepository
	Staff    StaffRepository
	Payments PaymentRepository
	Users    UserRepository

	close func(ctx context.Context) error
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// matchesSearch reports whether term occurs, ignoring case, in the issue,
// category or location of the report. Used by backends whose query language
// has no substring operator.
func matchesSearch(r *model.Report, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{r.Issue, r.Category, r.Location} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func roleAllowed(current model.Role, onlyFrom []model.Role) bool {
	if len(onlyFrom) == 0 {
		return true
	}
	for _, r := range onlyFrom {
		if r == current {
			return true
		}
	}
	return false
}
