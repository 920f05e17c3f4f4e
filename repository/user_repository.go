package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/CakePasha/HordaBot/database"
	"github.com/CakePasha/HordaBot/models"
)

// queryable abstracts the pgx pool so repositories do not care where the
// connection comes from.
type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UserRepository provides access to the users table
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

const userColumns = `user_id, username, referrer_id, referrals_count, discount, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.UserID,
		&user.Username,
		&user.ReferrerID,
		&user.ReferralsCount,
		&user.Discount,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user record. It returns false without error when a
// record with the same user ID already exists, making registration
// idempotent at the store level.
func (r *UserRepository) Create(ctx context.Context, userID int64, username string, referrerID *int64) (bool, error) {
	query := `
		INSERT INTO users (user_id, username, referrer_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`

	result, err := r.q.Exec(ctx, query, userID, username, referrerID)
	if err != nil {
		return false, fmt.Errorf("failed to create user %d: %w", userID, err)
	}

	return result.RowsAffected() > 0, nil
}

// GetByID retrieves a user by their Telegram ID. Returns nil without error
// when no such user exists.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID %d: %w", userID, err)
	}

	return user, nil
}

// GetByUsername retrieves a user by display name. Usernames are not unique;
// under duplicates the returned record is the oldest match, which makes
// username-keyed admin operations ambiguous (known limitation).
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 ORDER BY created_at LIMIT 1`

	user, err := scanUser(r.q.QueryRow(ctx, query, username))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username %q: %w", username, err)
	}

	return user, nil
}

// GetAll returns all users, newest first
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// GetReferrals returns all users whose referrer_id equals the given user ID
func (r *UserRepository) GetReferrals(ctx context.Context, referrerID int64) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE referrer_id = $1 ORDER BY created_at`

	rows, err := r.q.Query(ctx, query, referrerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get referrals of user %d: %w", referrerID, err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]*models.User, error) {
	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// IncrementReferralCount bumps a user's referral counter by one in a single
// statement and returns the new count. Concurrent increments for the same
// referrer serialize inside the database, so no update is ever lost.
func (r *UserRepository) IncrementReferralCount(ctx context.Context, userID int64) (int64, error) {
	query := `
		UPDATE users
		SET referrals_count = referrals_count + 1, updated_at = NOW()
		WHERE user_id = $1
		RETURNING referrals_count
	`

	var newCount int64
	err := r.q.QueryRow(ctx, query, userID).Scan(&newCount)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("user %d not found", userID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment referral count for user %d: %w", userID, err)
	}

	return newCount, nil
}

// UpdateDiscount sets a user's discount percentage
func (r *UserRepository) UpdateDiscount(ctx context.Context, userID int64, discount float64) error {
	query := `
		UPDATE users
		SET discount = $1, updated_at = NOW()
		WHERE user_id = $2
	`

	result, err := r.q.Exec(ctx, query, discount, userID)
	if err != nil {
		return fmt.Errorf("failed to update discount for user %d: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", userID)
	}

	return nil
}

// Delete removes a user record. Returns false when no such user existed.
// Children of the deleted user keep their referrer_id; the dangling
// reference resolves to "referrer no longer exists" when displayed.
func (r *UserRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete user %d: %w", userID, err)
	}

	return result.RowsAffected() > 0, nil
}
