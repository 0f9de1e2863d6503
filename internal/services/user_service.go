package services

import (
	"context"
	"fmt"
	"time"

	"github.com/localnerve/campus-market/internal/models"
	"github.com/localnerve/campus-market/internal/store"
	"github.com/localnerve/campus-market/internal/types"
)

// UserService manages user records
type UserService struct {
	store store.UserStore
	now   func() time.Time
}

// NewUserService creates a user service over s
func NewUserService(s store.UserStore) *UserService {
	return &UserService{store: s, now: time.Now}
}

// Register stores u unless its email is taken. created reports whether a
// record was written.
func (s *UserService) Register(ctx context.Context, u *models.User) (id string, created bool, err error) {
	if err := u.Validate(); err != nil {
		return "", false, err
	}
	if u.Status == "" {
		u.Status = models.StatusOffline
	}
	u.CreatedAt = stamp(s.now())
	return s.store.InsertUser(ctx, u)
}

// Get returns the full record for email, or nil
func (s *UserService) Get(ctx context.Context, email string) (*models.User, error) {
	return s.store.FindUser(ctx, email)
}

// Profile returns the public projection for email, or nil
func (s *UserService) Profile(ctx context.Context, email string) (*models.PublicProfile, error) {
	u, err := s.store.FindUser(ctx, email)
	if err != nil || u == nil {
		return nil, err
	}
	profile := u.Public()
	return &profile, nil
}

func authorizeSelf(principal, email string) error {
	if principal == "" {
		return types.ErrUnauthorized
	}
	if principal != email {
		return fmt.Errorf("%w: cannot modify another user", types.ErrForbidden)
	}
	return nil
}

// Update creates or edits the profile of email. The status defaults to offline.
func (s *UserService) Update(ctx context.Context, principal, email string, update *models.UserUpdate) (int64, error) {
	if err := authorizeSelf(principal, email); err != nil {
		return 0, err
	}
	update.Normalize()
	return s.store.UpsertUser(ctx, email, update)
}

// Delete removes the user record. Listings of the user are kept.
func (s *UserService) Delete(ctx context.Context, principal, email string) (int64, error) {
	if err := authorizeSelf(principal, email); err != nil {
		return 0, err
	}
	return s.store.DeleteUser(ctx, email)
}
