package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-auth-ui/internal/pkg/metrics"
)

// Metrics records request counts and latency per route template. Handler
// errors are rendered here so the recorded status matches the response.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			// The status is only final once the error handler has written it.
			if err != nil && !c.Response().Committed {
				c.Error(err)
			}
			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
