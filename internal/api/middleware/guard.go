package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
	"github.com/99minutos/user-auth-ui/internal/pkg/metrics"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// RequireAuth sends visitors without a credential to the login view.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if sess == nil || !sess.IsAuthenticated() {
				return redirect(c, "auth", LoginPath)
			}
			return next(c)
		}
	}
}

// RequireRole lets only holders of role through. Unauthenticated visitors go
// to the login view, authenticated ones without the role to the dashboard.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if sess == nil || !sess.IsAuthenticated() {
				return redirect(c, string(role), LoginPath)
			}
			if !sess.HasRole(role) {
				return redirect(c, string(role), DashboardPath)
			}
			return next(c)
		}
	}
}

// RequireAdmin is RequireRole(domain.RoleAdmin).
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}

func redirect(c echo.Context, guard, target string) error {
	metrics.GuardRedirectsTotal.WithLabelValues(guard, target).Inc()
	return c.Redirect(http.StatusSeeOther, target)
}
