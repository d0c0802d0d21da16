package domain

import "time"

// OTPCode is a single-use numeric verification code issued to a user at
// registration (or resend). The code is generated at creation and never
// mutated; only the most recently created row for a user is verifiable,
// and a row is deleted when it is consumed.
type OTPCode struct {
	ID        string
	UserID    string
	Code      string
	CreatedAt time.Time
}

// ExpiredAt reports whether the code is past its validity window at the
// provided instant. The boundary is exclusive: a code is still valid at
// exactly created_at+ttl.
func (o OTPCode) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(o.CreatedAt) > ttl
}
