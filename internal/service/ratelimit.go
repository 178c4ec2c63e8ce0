package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/linkfeed/backend/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

// RateLimitError carries the cooldown remaining so handlers can set Retry-After.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string { return e.Message }

func (e *RateLimitError) Unwrap() error { return apperror.ErrRateLimited }

// CheckAndSetRateLimit acquires a per-user cooldown lock via SetNX.
// A nil redis client disables rate limiting entirely.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	if rdb == nil || limit <= 0 {
		return true, nil
	}

	key := rateLimitKey(userID, action)
	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, rateLimitKey(userID, action)).Result()
}

// retryAfter normalizes the cooldown remaining for client consumption.
// Redis reports a missing or persistent key as a negative TTL; fall back to
// the configured limit rather than telling the client to wait a negative time.
func retryAfter(ttl time.Duration, err error, limit time.Duration) time.Duration {
	if err != nil || ttl <= 0 {
		return limit
	}
	return ttl
}

func ClearRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.Del(ctx, rateLimitKey(userID, action)).Result()
	return err
}

func rateLimitKey(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
}
