package repository

import (
	"context"

	"civicreport/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormStaffRepository struct {
	DB *gorm.DB
}

func (r *GormStaffRepository) Create(ctx context.Context, staff *model.Staff) error {
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Create(staff).Error
}

func (r *GormStaffRepository) Get(ctx context.Context, id string) (*model.Staff, error) {
	var staff model.Staff
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&staff).Error; err != nil {
		return nil, gormErr(err)
	}
	return &staff, nil
}

func (r *GormStaffRepository) List(ctx context.Context, f StaffFilter) ([]model.Staff, error) {
	q := r.DB.WithContext(ctx).Model(&model.Staff{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.WorkStatus != "" {
		q = q.Where("work_status = ?", f.WorkStatus)
	}
	if f.Email != "" {
		q = q.Where("email = ?", f.Email)
	}

	staff := []model.Staff{}
	if err := q.Order("created_at DESC").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *GormStaffRepository) UpdateDecision(ctx context.Context, id string, status model.StaffStatus, workStatus model.WorkStatus) error {
	updates := map[string]any{"status": status}
	if workStatus != "" {
		updates["work_status"] = workStatus
	}
	return r.update(ctx, id, updates)
}

func (r *GormStaffRepository) SetWorkStatus(ctx context.Context, id string, workStatus model.WorkStatus) error {
	return r.update(ctx, id, map[string]any{"work_status": workStatus})
}

// update checks existence first: MySQL reports zero affected rows for a
// write that changes nothing.
func (r *GormStaffRepository) update(ctx context.Context, id string, updates map[string]any) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var staff model.Staff
		if err := tx.Select("id").Where("id = ?", id).First(&staff).Error; err != nil {
			return gormErr(err)
		}
		return tx.Model(&model.Staff{}).Where("id = ?", id).Updates(updates).Error
	})
}

func (r *GormStaffRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Staff{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
