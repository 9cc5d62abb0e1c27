package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"civicreport/model"

	"gorm.io/gorm"
)

// NewGormStore migrates the schema and returns repositories backed by db.
func NewGormStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&model.User{}, &model.Staff{}, &model.Report{}, &model.Payment{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{
		Reports:  &GormReportRepository{DB: db},
		Staff:    &GormStaffRepository{DB: db},
		Payments: &GormPaymentRepository{DB: db},
		Users:    &GormUserRepository{DB: db},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}, nil
}

func gormErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern builds a lower-cased contains pattern for use with ESCAPE '!'.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
