package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-auth-ui/internal/core/session"
	"github.com/99minutos/user-auth-ui/internal/pkg/metrics"
)

const sessionKey = "session"

// Session resolves the browser's Session Context once per request and makes
// it available through SessionFrom. It must run after Browser.
func Session(m *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, outcome := m.Open(c.Request().Context(), BrowserID(c))
			metrics.SessionResolutionsTotal.WithLabelValues(string(outcome)).Inc()
			c.Set(sessionKey, sess)
			return next(c)
		}
	}
}

// SessionFrom returns the request's Session Context, or nil when the
// Session middleware did not run.
func SessionFrom(c echo.Context) *session.Context {
	sess, _ := c.Get(sessionKey).(*session.Context)
	return sess
}

// WithSession injects sess directly. Used by tests and by handlers that
// build a Context outside the middleware chain.
func WithSession(c echo.Context, sess *session.Context) {
	c.Set(sessionKey, sess)
}
