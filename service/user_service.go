package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/CakePasha/HordaBot/models"
)

// userService implements the UserService interface
type userService struct {
	userRepo UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user @%s: %w", username, ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUserStats returns the user found by display name together with the
// users they invited.
func (s *userService) GetUserStats(ctx context.Context, username string) (*models.User, []*models.User, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	referrals, err := s.userRepo.GetReferrals(ctx, user.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get referrals: %w", err)
	}

	return user, referrals, nil
}

// DeleteUser hard-deletes a user record. Users referred by the deleted user
// keep their dangling referrer_id; it simply no longer resolves.
func (s *userService) DeleteUser(ctx context.Context, userID int64) error {
	deleted, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}

	log.WithField("userID", userID).Info("Deleted user")
	return nil
}
