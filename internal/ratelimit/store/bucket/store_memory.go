package bucket

import (
	"context"
	"math"
	"sync"
	"time"

	"finai/internal/ratelimit/models"
)

// sweepEvery is how many calls pass between sweeps of idle client windows.
const sweepEvery = 1024

// InMemoryBucketStore is a sliding-window limiter held in process memory. It
// is per replica; RedisBucketStore shares budgets across replicas.
type InMemoryBucketStore struct {
	mu      sync.Mutex
	windows map[string]*window
	calls   int
	now     func() time.Time
}

// window holds the admission times inside one key's sliding window, oldest
// first.
type window struct {
	hits   []time.Time
	length time.Duration
}

func NewInMemoryBucketStore() *InMemoryBucketStore {
	return &InMemoryBucketStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (s *InMemoryBucketStore) Allow(ctx context.Context, key string, limit int, length time.Duration) (*models.RateLimitResult, error) {
	return s.AllowN(ctx, key, 1, limit, length)
}

// AllowN admits cost requests at once, or none of them.
func (s *InMemoryBucketStore) AllowN(_ context.Context, key string, cost, limit int, length time.Duration) (*models.RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.maybeSweep(now)

	w := s.windows[key]
	if w == nil {
		w = &window{length: length}
		s.windows[key] = w
	}
	w.expire(now)

	if len(w.hits)+cost > limit {
		resetAt := now.Add(length)
		if len(w.hits) > 0 {
			resetAt = w.hits[0].Add(length)
		}
		return &models.RateLimitResult{
			Allowed:    false,
			Limit:      limit,
			ResetAt:    resetAt,
			RetryAfter: max(1, int(math.Ceil(resetAt.Sub(now).Seconds()))),
		}, nil
	}

	for range cost {
		w.hits = append(w.hits, now)
	}
	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(w.hits),
		ResetAt:   w.hits[0].Add(length),
	}, nil
}

// Len reports how many keys currently hold a window.
func (s *InMemoryBucketStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// maybeSweep drops windows with no live hits so one-off client IPs do not
// accumulate. Caller holds s.mu.
func (s *InMemoryBucketStore) maybeSweep(now time.Time) {
	s.calls++
	if s.calls < sweepEvery {
		return
	}
	s.calls = 0
	for key, w := range s.windows {
		w.expire(now)
		if len(w.hits) == 0 {
			delete(s.windows, key)
		}
	}
}

func (w *window) expire(now time.Time) {
	cutoff := now.Add(-w.length)
	i := 0
	for i < len(w.hits) && !w.hits[i].After(cutoff) {
		i++
	}
	w.hits = w.hits[i:]
}
