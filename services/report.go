package services

import (
	"context"
	"time"

	"civicreport/model"
	"civicreport/repository"
)

const (
	latestLimit       = 4
	latestSolvedLimit = 8
)

type ReportService struct {
	Reports repository.ReportRepository
	Staff   repository.StaffRepository
	Now     func() time.Time
	// AllowRegression permits moving a report back along the lifecycle.
	AllowRegression bool
}

func NewReportService(store *repository.Store, allowRegression bool) *ReportService {
	return &ReportService{
		Reports:         store.Reports,
		Staff:           store.Staff,
		Now:             time.Now,
		AllowRegression: allowRegression,
	}
}

// Create stores a new submission. Lifecycle fields are always reset, whatever
// the caller sent.
func (s *ReportService) Create(ctx context.Context, report *model.Report) (*model.Report, error) {
	if report.Email == "" {
		return nil, newError(ErrValidation, "email is required")
	}
	report.ID = ""
	report.ReportStatus = model.ReportSubmitted
	report.PaymentStatus = model.PaymentUnpaid
	report.Priority = model.PriorityNormal
	report.StaffID, report.StaffName, report.StaffEmail = nil, nil, nil
	report.TrackingID = nil
	report.CreatedAt = s.Now().UTC()

	if err := s.Reports.Create(ctx, report); err != nil {
		return nil, storeErr(err, "report")
	}
	return report, nil
}

func (s *ReportService) List(ctx context.Context, filter repository.ReportFilter) ([]model.Report, error) {
	reports, err := s.Reports.List(ctx, filter)
	if err != nil {
		return nil, storeErr(err, "reports")
	}
	return reports, nil
}

func (s *ReportService) Get(ctx context.Context, id string) (*model.Report, error) {
	report, err := s.Reports.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "report")
	}
	return report, nil
}

func (s *ReportService) Delete(ctx context.Context, id string) error {
	if err := s.Reports.Delete(ctx, id); err != nil {
		return storeErr(err, "report")
	}
	return nil
}

// AssignStaff puts an approved, free staff member on the report.
func (s *ReportService) AssignStaff(ctx context.Context, reportID, staffID, staffName, staffEmail string) (*model.Report, error) {
	if staffID == "" {
		return nil, newError(ErrValidation, "staffId is required")
	}
	report, err := s.Reports.Get(ctx, reportID)
	if err != nil {
		return nil, storeErr(err, "report")
	}
	staff, err := s.Staff.Get(ctx, staffID)
	if err != nil {
		return nil, storeErr(err, "staff")
	}

	if staff.Status != model.StaffApproved {
		return nil, newError(ErrConflict, "staff %s is not approved", staffID)
	}
	onThisReport := report.StaffID != nil && *report.StaffID == staffID
	if staff.WorkStatus == model.WorkWorking && !onThisReport {
		return nil, newError(ErrConflict, "staff %s is already working on another report", staffID)
	}
	if report.ReportStatus == model.ReportSolved && !s.AllowRegression {
		return nil, &Error{Kind: ErrInvalidTransition, Msg: "report is already solved"}
	}

	if staffName == "" {
		staffName = staff.Name
	}
	if staffEmail == "" {
		staffEmail = staff.Email
	}
	ref := model.StaffRef{ID: staffID, Name: staffName, Email: staffEmail}
	if err := s.Reports.AssignStaff(ctx, reportID, ref); err != nil {
		return nil, storeErr(err, "report assignment")
	}
	return s.Get(ctx, reportID)
}

// SetStatus moves the report to status. Entering Solved, or falling back
// below In-Progress, releases the staff recorded on the report; staffID, when
// given, must name that staff. Repeating the current status changes nothing.
func (s *ReportService) SetStatus(ctx context.Context, reportID string, status model.ReportStatus, staffID string) (*model.Report, error) {
	if !status.Valid() {
		return nil, newError(ErrValidation, "unknown report status %q", status)
	}
	report, err := s.Reports.Get(ctx, reportID)
	if err != nil {
		return nil, storeErr(err, "report")
	}
	if staffID != "" && (report.StaffID == nil || *report.StaffID != staffID) {
		return nil, newError(ErrValidation, "staff %s is not assigned to report %s", staffID, reportID)
	}
	if status == report.ReportStatus {
		return report, nil
	}

	if status.Rank() < report.ReportStatus.Rank() && !s.AllowRegression {
		return nil, &Error{
			Kind: ErrInvalidTransition,
			Msg:  "cannot move report from " + string(report.ReportStatus) + " back to " + string(status),
		}
	}
	if status.HoldsStaff() && report.StaffID == nil {
		return nil, &Error{Kind: ErrInvalidTransition, Msg: "report has no assigned staff"}
	}
	if status == model.ReportInProgress && report.ReportStatus == model.ReportSolved {
		return nil, &Error{Kind: ErrInvalidTransition, Msg: "reopen a solved report by assigning staff"}
	}

	release := ""
	if report.StaffID != nil && (status == model.ReportSolved || !status.HoldsStaff()) {
		release = *report.StaffID
	}
	if err := s.Reports.UpdateStatus(ctx, reportID, status, release); err != nil {
		return nil, storeErr(err, "report status")
	}
	return s.Get(ctx, reportID)
}

// StaffTasks lists a staff member's reports: only Solved ones when status is
// Solved, otherwise every report that is not Solved yet.
func (s *ReportService) StaffTasks(ctx context.Context, staffEmail string, status model.ReportStatus) ([]model.Report, error) {
	filter := repository.ReportFilter{StaffEmail: staffEmail}
	if status == model.ReportSolved {
		filter.ReportStatus = model.ReportSolved
	} else {
		filter.ExcludeStatus = model.ReportSolved
	}
	return s.List(ctx, filter)
}

func (s *ReportService) Latest(ctx context.Context) ([]model.Report, error) {
	return s.List(ctx, repository.ReportFilter{Limit: latestLimit})
}

func (s *ReportService) LatestSolved(ctx context.Context) ([]model.Report, error) {
	return s.List(ctx, repository.ReportFilter{ReportStatus: model.ReportSolved, Limit: latestSolvedLimit})
}
