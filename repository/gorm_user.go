package repository

import (
	"context"

	"civicreport/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormUserRepository struct {
	DB *gorm.DB
}

func (r *GormUserRepository) CreateIfMissing(ctx context.Context, user *model.User) (bool, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(user)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, gormErr(err)
	}
	return &user, nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, gormErr(err)
	}
	return &user, nil
}

func (r *GormUserRepository) UpdateProfile(ctx context.Context, email, displayName, photoURL string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			return gormErr(err)
		}
		user.DisplayName = displayName
		user.PhotoURL = photoURL
		return tx.Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]any{
			"display_name": displayName,
			"photo_url":    photoURL,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) SetRole(ctx context.Context, id string, role model.Role) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Select("id").Where("id = ?", id).First(&user).Error; err != nil {
			return gormErr(err)
		}
		return tx.Model(&model.User{}).Where("id = ?", id).Update("role", role).Error
	})
}

func (r *GormUserRepository) SetRoleByEmail(ctx context.Context, email string, role model.Role, onlyFrom ...model.Role) (bool, error) {
	changed := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			return gormErr(err)
		}
		if user.Role == role || !roleAllowed(user.Role, onlyFrom) {
			return nil
		}
		if err := tx.Model(&model.User{}).Where("id = ?", user.ID).Update("role", role).Error; err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

func (r *GormUserRepository) Search(ctx context.Context, term string, limit int) ([]model.User, error) {
	q := r.DB.WithContext(ctx).Model(&model.User{})
	if term != "" {
		p := likePattern(term)
		q = q.Where("(LOWER(display_name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!')", p, p)
	}
	q = q.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	users := []model.User{}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
