package service

import (
	"context"

	"github.com/CakePasha/HordaBot/events"
	"github.com/CakePasha/HordaBot/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user record. Returns false without error when
	// the user ID is already present (idempotent create).
	Create(ctx context.Context, userID int64, username string, referrerID *int64) (bool, error)

	// GetByID retrieves a user by Telegram ID, nil when absent
	GetByID(ctx context.Context, userID int64) (*models.User, error)

	// GetByUsername retrieves a user by display name, nil when absent.
	// Non-deterministic under duplicate usernames.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetAll returns all users
	GetAll(ctx context.Context) ([]*models.User, error)

	// GetReferrals returns users whose referrer_id equals the given ID
	GetReferrals(ctx context.Context, referrerID int64) ([]*models.User, error)

	// IncrementReferralCount atomically bumps the counter and returns the
	// new value
	IncrementReferralCount(ctx context.Context, userID int64) (int64, error)

	// UpdateDiscount sets a user's discount percentage
	UpdateDiscount(ctx context.Context, userID int64, discount float64) error

	// Delete hard-deletes a user record, false when absent
	Delete(ctx context.Context, userID int64) (bool, error)
}

// EventPublisher defines the interface for publishing notification events
type EventPublisher interface {
	Emit(ctx context.Context, event events.Event)
}

// RegistrationResult describes the outcome of a registration attempt
type RegistrationResult struct {
	User *models.User

	// AlreadyRegistered is set when the user ID was present before the
	// call. Informational, not an error.
	AlreadyRegistered bool

	// ReferrerDropped is set when a referrer ID was supplied but no such
	// user exists; the record was created without a referral link.
	ReferrerDropped bool
}

// ReferralService defines the interface for the registration ledger
type ReferralService interface {
	// Register creates a user record on first arrival and credits the
	// referrer, if any. Idempotent per user ID.
	Register(ctx context.Context, userID int64, username string, referrerID *int64) (*RegistrationResult, error)
}

// UserService defines the interface for user lookups and administration
type UserService interface {
	// GetUser returns a user by Telegram ID
	GetUser(ctx context.Context, userID int64) (*models.User, error)

	// GetUserByUsername returns a user by display name
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// ListUsers returns all registered users
	ListUsers(ctx context.Context) ([]*models.User, error)

	// GetUserStats returns a user found by display name together with the
	// users they referred
	GetUserStats(ctx context.Context, username string) (*models.User, []*models.User, error)

	// DeleteUser hard-deletes a user by Telegram ID
	DeleteUser(ctx context.Context, userID int64) error
}

// DiscountService defines the interface for administrator-driven discount
// mutations
type DiscountService interface {
	// Grant adds amount to the named user's discount, uncapped
	Grant(ctx context.Context, username string, amount float64) (*models.User, error)

	// Revoke subtracts amount from the named user's discount, floored at
	// zero
	Revoke(ctx context.Context, username string, amount float64) (*models.User, error)

	// RegisterPurchase credits the purchase bonus to the named user's
	// referrer, if the referrer still exists. Returns the purchaser and
	// the referrer after the bonus (nil when no bonus was applied).
	RegisterPurchase(ctx context.Context, username string, amount float64) (*models.User, *models.User, error)
}
