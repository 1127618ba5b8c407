package ratelimit

import (
	"context"
	"time"

	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Memory is a fixed window limiter kept in process memory. It backs the
// middleware when no Redis is configured.
type Memory struct {
	Store limiter.Store
}

// NewMemory returns a Memory limiter with its own store.
func NewMemory() Memory {
	return Memory{Store: memory.NewStore()}
}

// Allow counts an event for key within the window.
func (m Memory) Allow(ctx context.Context, key string, window time.Duration, limit int) (Decision, error) {
	if m.Store == nil || limit <= 0 || window <= 0 {
		return Decision{Allowed: true, Remaining: limit, ResetAt: time.Now().Add(window)}, nil
	}
	res, err := m.Store.Get(ctx, key, limiter.Rate{Period: window, Limit: int64(limit)})
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Allowed:   !res.Reached,
		Remaining: int(res.Remaining),
		ResetAt:   time.Unix(res.Reset, 0),
	}, nil
}
