package otp

import "time"

// OneTimeCode is a short-lived 6-digit code bound to an email address.
// At most one live code exists per email: requesting a new one deletes
// any predecessor first.
type OneTimeCode struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Code      string    `json:"-" db:"code"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"` // UTC
	Attempts  int       `json:"attempts" db:"attempts"`
	Verified  bool      `json:"verified" db:"verified"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

func (c OneTimeCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
