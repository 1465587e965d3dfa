package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/example/task-board/modules/cache"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// Limiter admits or rejects a request for a key.
type Limiter interface {
	Allow(ctx context.Context, key string) (*cache.LimitResult, error)
}

// RateLimit returns middleware that limits requests per client IP. Limiter
// failures let the request through.
func RateLimit(limiter Limiter, logger types.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if ip == "" {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Error:   "Forbidden",
				Message: "Unable to determine client IP address",
			})
		}

		result, err := limiter.Allow(c.UserContext(), c.Path()+":"+ip)
		if err != nil {
			logger.Warn("Rate limiter unavailable", "ip", ip, "error", err)
			return c.Next()
		}

		setRateLimitHeaders(c, result)
		if !result.Allowed {
			return sendRateLimitExceeded(c, result)
		}
		return c.Next()
	}
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(c *fiber.Ctx, result *cache.LimitResult) {
	c.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

// sendRateLimitExceeded sends a 429 Too Many Requests response.
func sendRateLimitExceeded(c *fiber.Ctx, result *cache.LimitResult) error {
	retryAfter := int(result.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	c.Set("Retry-After", strconv.Itoa(retryAfter))
	return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
		Error:   "TooManyRequests",
		Message: fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds.", retryAfter),
	})
}
