// Package ratelimit limits requests per key with a Redis sliding window.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config is one limit: at most Requests per Window.
type Config struct {
	Requests int
	Window   time.Duration
}

// DefaultAuthConfig limits credential endpoints to 10 requests per minute.
func DefaultAuthConfig() Config {
	return Config{Requests: 10, Window: time.Minute}
}

// Result describes one rate limit decision.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// slidingWindowScript trims the window, counts it and records the request if
// there is room. It returns {allowed, remaining, retry_after_ms}.
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
		retry_after = tonumber(oldest[2]) + window_ms - now
	end
	return {0, 0, retry_after}
`)

// SlidingWindow is a Limiter backed by a Redis sorted set per key.
type SlidingWindow struct {
	client redis.Scripter
	config Config
	prefix string
	now    func() time.Time
}

var _ Limiter = (*SlidingWindow)(nil)

// NewSlidingWindow creates a limiter whose keys start with prefix.
func NewSlidingWindow(client redis.Scripter, config Config, prefix string) *SlidingWindow {
	return &SlidingWindow{
		client: client,
		config: config,
		prefix: prefix,
		now:    time.Now,
	}
}

// Allow records a request for key if the window has room.
func (l *SlidingWindow) Allow(ctx context.Context, key string) (*Result, error) {
	now := l.now()
	redisKey := l.prefix + key

	values, err := slidingWindowScript.Run(ctx, l.client,
		[]string{redisKey, redisKey + ":seq"},
		now.UnixMilli(),
		now.Add(-l.config.Window).UnixMilli(),
		l.config.Requests,
		l.config.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	if len(values) != 3 {
		return nil, fmt.Errorf("unexpected rate limit result length: %d", len(values))
	}

	res := &Result{
		Allowed:   values[0] == 1,
		Limit:     l.config.Requests,
		Remaining: int(values[1]),
		ResetAt:   now.Add(l.config.Window),
	}
	if !res.Allowed && values[2] > 0 {
		res.RetryAfter = time.Duration(values[2]) * time.Millisecond
		res.ResetAt = now.Add(res.RetryAfter)
	}
	return res, nil
}
