package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/enuda-labs/summit-BE/internal/core/port"
)

// releaseScript deletes the lock key only when it still holds our token,
// so an expired lock reacquired by another caller is never released here.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// UserLockRepository implements port.UserLocker with SET NX per-user keys.
// Holding the lock serializes a mutating flow (OTP verification, webhook
// reconciliation) for one user without blocking any other user.
type UserLockRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewUserLockRepository constructs a locker with the given key prefix.
func NewUserLockRepository(client *redis.Client, keyPrefix string) *UserLockRepository {
	return &UserLockRepository{client: client, keyPrefix: keyPrefix}
}

// Acquire attempts to take the lock for (scope, userID). When the lock is
// already held the second return value is false and release is nil. The
// TTL bounds the hold time if the owner crashes before releasing.
func (r *UserLockRepository) Acquire(ctx context.Context, scope, userID string, ttl time.Duration) (func(), bool, error) {
	key := r.key(scope, userID)
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, r.client, []string{key}, token).Err()
	}

	return release, true, nil
}

func (r *UserLockRepository) key(scope, userID string) string {
	if r.keyPrefix == "" {
		return fmt.Sprintf("%s:%s", scope, userID)
	}
	return fmt.Sprintf("%s:%s:%s", r.keyPrefix, scope, userID)
}

var _ port.UserLocker = (*UserLockRepository)(nil)
