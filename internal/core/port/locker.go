package port

import (
	"context"
	"time"
)

// UserLocker serializes mutating flows for a single user: at most one OTP
// verification and at most one webhook reconciliation may run per user at
// a time. Unrelated users are never blocked by each other.
type UserLocker interface {
	// Acquire returns a release func, or false when the lock is held.
	Acquire(ctx context.Context, scope, userID string, ttl time.Duration) (release func(), ok bool, err error)
}
