package services

import (
	"context"
	"errors"
	"time"

	"civicreport/model"
	"civicreport/repository"
)

const userSearchLimit = 5

type UserService struct {
	Users repository.UserRepository
	Now   func() time.Time
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{Users: store.Users, Now: time.Now}
}

// CreateIfMissing inserts a plain user for the email unless one exists. It
// reports whether the user was created.
func (s *UserService) CreateIfMissing(ctx context.Context, user *model.User) (bool, error) {
	if user.Email == "" {
		return false, newError(ErrValidation, "email is required")
	}
	user.ID = ""
	user.Role = model.RoleUser
	user.CreatedAt = s.Now().UTC()
	created, err := s.Users.CreateIfMissing(ctx, user)
	if err != nil {
		return false, storeErr(err, "user")
	}
	return created, nil
}

func (s *UserService) Me(ctx context.Context, email string) (*model.User, error) {
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return user, nil
}

// UpdateMe changes the caller's profile. The email is the identity key and
// is not editable.
func (s *UserService) UpdateMe(ctx context.Context, email, displayName, photoURL string) (*model.User, error) {
	user, err := s.Users.UpdateProfile(ctx, email, displayName, photoURL)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return user, nil
}

func (s *UserService) SetRole(ctx context.Context, id string, role model.Role) error {
	if !role.Valid() {
		return newError(ErrValidation, "unknown role %q", role)
	}
	if err := s.Users.SetRole(ctx, id, role); err != nil {
		return storeErr(err, "user")
	}
	return nil
}

// RoleOf returns the user's role, or RoleUser for an unknown email.
func (s *UserService) RoleOf(ctx context.Context, email string) (model.Role, error) {
	user, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return model.RoleUser, nil
	}
	if err != nil {
		return "", storeErr(err, "user")
	}
	return user.Role, nil
}

// IsAdmin fails closed: an unknown email is not an admin.
func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storeErr(err, "user")
	}
	return user.Role == model.RoleAdmin, nil
}

func (s *UserService) Search(ctx context.Context, term string) ([]model.User, error) {
	users, err := s.Users.Search(ctx, term, userSearchLimit)
	if err != nil {
		return nil, storeErr(err, "users")
	}
	return users, nil
}
