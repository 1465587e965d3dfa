package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LimitConfig bounds the number of requests per sliding window.
type LimitConfig struct {
	RequestsPerWindow int
	WindowSize        time.Duration
}

// LimitResult is the outcome of a single Allow call.
type LimitResult struct {
	Allowed    bool
	Remaining  int
	Limit      int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// slidingWindowScript trims entries older than the window, then admits the
// request if the set is below the limit. Returns {allowed, remaining,
// retry_after_ms}.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local counter_key = KEYS[2]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local count = redis.call('ZCARD', key)

	if count < limit then
		local seq = redis.call('INCR', counter_key)
		redis.call('ZADD', key, now, now .. ':' .. seq)
		redis.call('PEXPIRE', key, window_ms)
		redis.call('PEXPIRE', counter_key, window_ms)
		return {1, limit - count - 1, 0}
	end

	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local retry_after = 0
	if #oldest >= 2 then
		retry_after = oldest[2] + window_ms - now
	end
	return {0, 0, retry_after}
`)

// SlidingWindowLimiter is a Redis sorted-set rate limiter.
type SlidingWindowLimiter struct {
	client *redis.Client
	config LimitConfig
	prefix string
}

// NewSlidingWindowLimiter creates a limiter storing its keys under prefix.
func NewSlidingWindowLimiter(client *redis.Client, config LimitConfig, prefix string) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		client: client,
		config: config,
		prefix: prefix,
	}
}

// Allow records a request for key and reports whether it fits the window.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (*LimitResult, error) {
	now := time.Now()
	redisKey := l.prefix + key

	result, err := slidingWindowScript.Run(ctx, l.client, []string{redisKey, redisKey + ":seq"},
		now.UnixMilli(),
		now.Add(-l.config.WindowSize).UnixMilli(),
		l.config.RequestsPerWindow,
		l.config.WindowSize.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	if len(result) < 3 {
		return nil, fmt.Errorf("unexpected result length: %d", len(result))
	}

	res := &LimitResult{
		Allowed:   result[0] == 1,
		Remaining: int(result[1]),
		Limit:     l.config.RequestsPerWindow,
		ResetAt:   now.Add(l.config.WindowSize),
	}
	if !res.Allowed && result[2] > 0 {
		res.RetryAfter = time.Duration(result[2]) * time.Millisecond
	}
	return res, nil
}
