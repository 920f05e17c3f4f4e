package models

import (
	"time"
)

// User represents a Telegram user in the loyalty ledger
type User struct {
	UserID         int64     `db:"user_id"`
	Username       string    `db:"username"`
	ReferrerID     *int64    `db:"referrer_id"`
	ReferralsCount int64     `db:"referrals_count"`
	Discount       float64   `db:"discount"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// HasReferrer reports whether the user was registered through a referral
// link. The referrer record itself may have been deleted since, so callers
// that need the referrer must still look it up.
func (u *User) HasReferrer() bool {
	return u.ReferrerID != nil
}
