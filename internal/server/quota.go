package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Quota enforces a per-user hourly request allowance on model-backed endpoints.
// Anonymous callers are limited by the per-IP rate limiter instead.
type Quota struct {
	perHour int
	now     func() time.Time

	mu    sync.Mutex
	users map[uuid.UUID]*rate.Limiter
}

// NewQuota allows perHour requests per user. perHour <= 0 means unlimited.
func NewQuota(perHour int) *Quota {
	return &Quota{
		perHour: perHour,
		now:     time.Now,
		users:   make(map[uuid.UUID]*rate.Limiter),
	}
}

// Allow consumes one request from userID's allowance. When the allowance is
// spent it returns an *ErrQuotaExceeded naming how long until the next slot.
func (q *Quota) Allow(userID uuid.UUID) error {
	if q == nil || q.perHour <= 0 {
		return nil
	}

	q.mu.Lock()
	lim, ok := q.users[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Hour/time.Duration(q.perHour)), q.perHour)
		q.users[userID] = lim
	}
	q.mu.Unlock()

	now := q.now()
	if lim.AllowN(now, 1) {
		return nil
	}
	wait := time.Duration((1 - lim.TokensAt(now)) / float64(lim.Limit()) * float64(time.Second))
	return &ErrQuotaExceeded{Limit: q.perHour, RetryAfter: wait}
}
