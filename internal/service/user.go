package service

import (
	"context"
	"errors"

	"github.com/inkwell/inkwell/internal/model"
	"github.com/inkwell/inkwell/internal/repository"
)

// UserStore is the persistence surface for user profile reads.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	CountGenerations(ctx context.Context, userID string) (int64, error)
}

// UserService handles account reads.
type UserService struct {
	store UserStore
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// Profile returns the user's account together with their lifetime
// generation count.
func (s *UserService) Profile(ctx context.Context, userID string) (*model.User, int64, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}

	count, err := s.store.CountGenerations(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return user, count, nil
}
