package api

import (
	"strings"

	"github.com/example/task-board/domain/user"
	"github.com/example/task-board/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// PrincipalContextKey is the key used to store the caller in the Fiber context.
	PrincipalContextKey = "principal"
)

// AuthMiddleware creates a middleware that validates bearer tokens and
// stores the resulting principal in the context.
func AuthMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "Invalid authorization header format. Use: Bearer <token>")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return unauthorized(c, "Token is required")
		}

		principal, err := authAdapter.ValidateToken(c.UserContext(), token)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(PrincipalContextKey, *principal)
		return c.Next()
	}
}

// principalFrom returns the caller stored by AuthMiddleware.
func principalFrom(c *fiber.Ctx) (user.Principal, bool) {
	p, ok := c.Locals(PrincipalContextKey).(user.Principal)
	return p, ok
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "Unauthorized",
		Message: message,
	})
}
