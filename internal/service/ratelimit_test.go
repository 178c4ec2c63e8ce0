package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryAfterClampsMissingTTL(t *testing.T) {
	limit := 5 * time.Second

	// go-redis passes through redis's -1 (no expiry) and -2 (missing key)
	// sentinels as negative durations.
	assert.Equal(t, limit, retryAfter(time.Duration(-1), nil, limit))
	assert.Equal(t, limit, retryAfter(time.Duration(-2), nil, limit))
	assert.Equal(t, limit, retryAfter(0, nil, limit))
	assert.Equal(t, limit, retryAfter(3*time.Second, errors.New("redis down"), limit))
	assert.Equal(t, 3*time.Second, retryAfter(3*time.Second, nil, limit))
}

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	allowed, err := CheckAndSetRateLimit(context.Background(), nil, uuid.New(), "post", time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)

	ttl, err := GetRateLimitTTL(context.Background(), nil, uuid.New(), "post")
	require.NoError(t, err)
	assert.Zero(t, ttl)

	require.NoError(t, ClearRateLimit(context.Background(), nil, uuid.New(), "post"))
}
