package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sundevs/user-access-api/internal/pkg/metrics"
)

// Guard is a named allow/deny check run before a handler. Check returns nil
// to allow; any error denies the request and is handed to the HTTP error
// handler unchanged.
type Guard struct {
	Name  string
	Check func(c echo.Context) error
}

// Chain evaluates guards in order and stops at the first denial. The handler
// runs only when every guard allows.
func Chain(guards ...Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, g := range guards {
				if err := g.Check(c); err != nil {
					metrics.GuardDenialsTotal.WithLabelValues(g.Name).Inc()
					return err
				}
			}
			return next(c)
		}
	}
}
