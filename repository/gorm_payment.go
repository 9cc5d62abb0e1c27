package repository

import (
	"context"

	"civicreport/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormPaymentRepository struct {
	DB *gorm.DB
}

// CreateIfAbsent relies on the unique index on transaction_id: the insert is
// a no-op on conflict, so exactly one concurrent caller affects a row.
func (r *GormPaymentRepository) CreateIfAbsent(ctx context.Context, payment *model.Payment) (*model.Payment, bool, error) {
	candidate := *payment
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}

	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).
		Create(&candidate)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return &candidate, true, nil
	}

	var existing model.Payment
	if err := r.DB.WithContext(ctx).Where("transaction_id = ?", payment.TransactionID).First(&existing).Error; err != nil {
		return nil, false, gormErr(err)
	}
	return &existing, false, nil
}

func (r *GormPaymentRepository) ListByEmail(ctx context.Context, email string) ([]model.Payment, error) {
	payments := []model.Payment{}
	err := r.DB.WithContext(ctx).
		Where("email = ?", email).
		Order("paid_at DESC").
		Find(&payments).Error
	return payments, err
}
