package api

import (
	"strings"

	userdomain "github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"
)

// AuthMiddleware creates a middleware that validates bearer access tokens and
// stores the verified claims under UserContextKey.
func AuthMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Not authorized, no token")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "Invalid authorization header format. Use: Bearer <token>")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return unauthorized(c, "Not authorized, no token")
		}

		claims, err := authPort.ValidateToken(c.UserContext(), token)
		if err != nil {
			return unauthorized(c, "Not authorized, token failed")
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}

// RequireAdmin rejects requests whose claims do not carry the admin role.
// It must run after AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return unauthorized(c, "User not authenticated")
		}
		if !claims.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Error:   "forbidden",
				Message: "Admin access required",
			})
		}
		return c.Next()
	}
}

// claimsFrom returns the claims stored by AuthMiddleware.
func claimsFrom(c *fiber.Ctx) (*userdomain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*userdomain.Claims)
	return claims, ok && claims != nil
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}
