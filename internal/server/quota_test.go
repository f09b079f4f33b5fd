package server

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuota(t *testing.T) {
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	q := NewQuota(3)
	q.now = func() time.Time { return clock }
	user := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Allow(user))
	}

	err := q.Allow(user)
	var quotaErr *ErrQuotaExceeded
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, 3, quotaErr.Limit)
	assert.InDelta(t, 20*time.Minute, quotaErr.RetryAfter, float64(time.Second))

	assert.NoError(t, q.Allow(uuid.New()), "quotas are per user")

	clock = clock.Add(20 * time.Minute)
	assert.NoError(t, q.Allow(user))
}

func TestQuota_Unlimited(t *testing.T) {
	for _, q := range []*Quota{nil, NewQuota(0)} {
		for i := 0; i < 100; i++ {
			assert.NoError(t, q.Allow(uuid.New()))
		}
	}
}
