package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"finai/internal/ratelimit/models"
)

// slidingWindowScript keeps one sorted set per key, scored by request time in
// milliseconds. It trims, counts and inserts atomically.
// Returns {allowed, remaining, oldest_ms}.
var slidingWindowScript = redis.NewScript(`
local key    = KEYS[1]
local now    = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit  = tonumber(ARGV[3])
local cost   = tonumber(ARGV[4])
local member = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count + cost <= limit then
	for i = 1, cost do
		redis.call('ZADD', key, now, member .. ':' .. i)
	end
	redis.call('PEXPIRE', key, window)
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	return {1, limit - count - cost, tonumber(oldest[2])}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local first = now
if oldest[2] then
	first = tonumber(oldest[2])
end
return {0, 0, first}
`)

// RedisBucketStore is a sliding-window limiter shared by all replicas.
type RedisBucketStore struct {
	client redis.Scripter
	now    func() time.Time
}

func NewRedis(client redis.Scripter) *RedisBucketStore {
	return &RedisBucketStore{client: client, now: time.Now}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	return s.AllowN(ctx, key, 1, limit, window)
}

func (s *RedisBucketStore) AllowN(ctx context.Context, key string, cost int, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := s.now()
	res, err := slidingWindowScript.Run(ctx, s.client, []string{key},
		now.UnixMilli(),
		window.Milliseconds(),
		limit,
		cost,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("rate limit script: unexpected reply length %d", len(res))
	}

	resetAt := time.UnixMilli(res[2]).Add(window)
	result := &models.RateLimitResult{
		Allowed:   res[0] == 1,
		Limit:     limit,
		Remaining: int(res[1]),
		ResetAt:   resetAt,
	}
	if !result.Allowed {
		result.RetryAfter = retryAfterSeconds(resetAt.Sub(now))
	}
	return result, nil
}
