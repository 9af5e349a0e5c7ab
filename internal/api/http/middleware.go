package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// requestContext gives each request its own cancelable context so outbound
// lookups stop when the handler returns or the deadline passes.
func requestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			ctx    context.Context
			cancel context.CancelFunc
		)
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(c.UserContext(), timeout)
		} else {
			ctx, cancel = context.WithCancel(c.UserContext())
		}
		defer cancel()

		c.SetUserContext(ctx)
		return c.Next()
	}
}
