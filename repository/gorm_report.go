package repository

import (
	"context"

	"civicreport/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormReportRepository struct {
	DB *gorm.DB
}

func (r *GormReportRepository) Create(ctx context.Context, report *model.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Create(report).Error
}

func (r *GormReportRepository) Get(ctx context.Context, id string) (*model.Report, error) {
	var report model.Report
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&report).Error; err != nil {
		return nil, gormErr(err)
	}
	return &report, nil
}

func (r *GormReportRepository) List(ctx context.Context, f ReportFilter) ([]model.Report, error) {
	q := r.DB.WithContext(ctx).Model(&model.Report{})
	if f.Email != "" {
		q = q.Where("email = ?", f.Email)
	}
	if f.ReportStatus != "" {
		q = q.Where("report_status = ?", f.ReportStatus)
	}
	if f.ExcludeStatus != "" {
		q = q.Where("report_status <> ?", f.ExcludeStatus)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.StaffID != "" {
		q = q.Where("staff_id = ?", f.StaffID)
	}
	if f.StaffEmail != "" {
		q = q.Where("staff_email = ?", f.StaffEmail)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("(LOWER(issue) LIKE ? ESCAPE '!' OR LOWER(category) LIKE ? ESCAPE '!' OR LOWER(location) LIKE ? ESCAPE '!')", p, p, p)
	}
	q = q.Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	reports := []model.Report{}
	if err := q.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *GormReportRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Report{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormReportRepository) AssignStaff(ctx context.Context, reportID string, staff model.StaffRef) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report model.Report
		if err := tx.Where("id = ?", reportID).First(&report).Error; err != nil {
			return gormErr(err)
		}
		var member model.Staff
		if err := tx.Where("id = ?", staff.ID).First(&member).Error; err != nil {
			return gormErr(err)
		}

		if err := tx.Model(&model.Report{}).Where("id = ?", reportID).Updates(map[string]any{
			"report_status": model.ReportInProgress,
			"staff_id":      staff.ID,
			"staff_name":    staff.Name,
			"staff_email":   staff.Email,
		}).Error; err != nil {
			return err
		}

		if report.StaffID != nil && *report.StaffID != "" && *report.StaffID != staff.ID {
			if err := releaseIfIdle(tx, *report.StaffID, reportID); err != nil {
				return err
			}
		}
		return tx.Model(&model.Staff{}).Where("id = ?", staff.ID).
			Update("work_status", model.WorkWorking).Error
	})
}

func (r *GormReportRepository) UpdateStatus(ctx context.Context, reportID string, status model.ReportStatus, releaseStaffID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report model.Report
		if err := tx.Select("id").Where("id = ?", reportID).First(&report).Error; err != nil {
			return gormErr(err)
		}
		updates := map[string]any{"report_status": status}
		if !status.HoldsStaff() {
			updates["staff_id"] = nil
			updates["staff_name"] = nil
			updates["staff_email"] = nil
		}
		if err := tx.Model(&model.Report{}).Where("id = ?", reportID).Updates(updates).Error; err != nil {
			return err
		}
		if releaseStaffID == "" {
			return nil
		}
		return releaseIfIdle(tx, releaseStaffID, reportID)
	})
}

// releaseIfIdle sets staffID available unless an In-Progress report other
// than reportID still names it. A removed staff leaves nothing to release.
func releaseIfIdle(tx *gorm.DB, staffID, reportID string) error {
	var busy int64
	if err := tx.Model(&model.Report{}).
		Where("staff_id = ? AND report_status = ? AND id <> ?", staffID, model.ReportInProgress, reportID).
		Count(&busy).Error; err != nil {
		return err
	}
	if busy > 0 {
		return nil
	}
	return tx.Model(&model.Staff{}).Where("id = ?", staffID).
		Update("work_status", model.WorkAvailable).Error
}

func (r *GormReportRepository) MarkPaid(ctx context.Context, reportID, trackingID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report model.Report
		if err := tx.Where("id = ?", reportID).First(&report).Error; err != nil {
			return gormErr(err)
		}
		if report.PaymentStatus == model.PaymentPaid {
			return nil
		}
		updates := map[string]any{
			"payment_status": model.PaymentPaid,
			"priority":       model.PriorityHigh,
			"tracking_id":    trackingID,
		}
		if report.ReportStatus == model.ReportSubmitted {
			updates["report_status"] = model.ReportPending
		}
		return tx.Model(&model.Report{}).Where("id = ?", reportID).Updates(updates).Error
	})
}
