package ratelimit

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ByIP returns Fiber middleware that limits requests per client IP. Keys are
// namespaced by scope so separate routes keep separate windows. When the
// configured proxy header is absent the socket address is used. Limiter
// failures let the request through.
func ByIP(limiter Limiter, scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if ip == "" {
			ip = c.Context().RemoteIP().String()
		}
		if ip == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "Forbidden",
				"message": "Unable to determine client IP address",
			})
		}

		result, err := limiter.Allow(c.UserContext(), scope+":"+ip)
		if err != nil {
			log.Printf("[ratelimit] Warning: limiter unavailable for %s: %v", scope, err)
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set("Retry-After", strconv.Itoa(retryAfter))

			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too Many Requests",
				"message":     fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds.", retryAfter),
				"retry_after": retryAfter,
			})
		}

		return c.Next()
	}
}
