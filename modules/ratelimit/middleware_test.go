package ratelimit

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLimiter allows the first n calls per key.
type countingLimiter struct {
	n     int
	seen  map[string]int
	err   error
	calls []string
}

func (l *countingLimiter) Allow(_ context.Context, key string) (*Result, error) {
	l.calls = append(l.calls, key)
	if l.err != nil {
		return nil, l.err
	}
	if l.seen == nil {
		l.seen = make(map[string]int)
	}
	l.seen[key]++
	if l.seen[key] > l.n {
		return &Result{Allowed: false, Limit: l.n, RetryAfter: 1500 * time.Millisecond, ResetAt: time.Now()}, nil
	}
	return &Result{Allowed: true, Limit: l.n, Remaining: l.n - l.seen[key], ResetAt: time.Now()}, nil
}

func newTestApp(limiter Limiter) *fiber.App {
	app := fiber.New(fiber.Config{ProxyHeader: fiber.HeaderXForwardedFor})
	app.Post("/login", ByIP(limiter, "login"), func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	return app
}

func post(t *testing.T, app *fiber.App, ip string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/login", nil)
	req.Header.Set("X-Forwarded-For", ip)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestByIP_LimitsPerIP(t *testing.T) {
	limiter := &countingLimiter{n: 2}
	app := newTestApp(limiter)

	assert.Equal(t, fiber.StatusOK, post(t, app, "10.0.0.1"))
	assert.Equal(t, fiber.StatusOK, post(t, app, "10.0.0.1"))
	assert.Equal(t, fiber.StatusTooManyRequests, post(t, app, "10.0.0.1"))
	assert.Equal(t, fiber.StatusOK, post(t, app, "10.0.0.2"))

	assert.Equal(t, "login:10.0.0.1", limiter.calls[0])
}

func TestByIP_Headers(t *testing.T) {
	app := newTestApp(&countingLimiter{n: 1})

	req := httptest.NewRequest("POST", "/login", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.3")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "1", resp.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))

	req = httptest.NewRequest("POST", "/login", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.3")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestByIP_FailsOpen(t *testing.T) {
	app := newTestApp(&countingLimiter{err: errors.New("connection refused")})

	for i := 0; i < 5; i++ {
		assert.Equal(t, fiber.StatusOK, post(t, app, "10.0.0.4"))
	}
}
