package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-auth-ui/internal/api/view"
	"github.com/99minutos/user-auth-ui/internal/core/domain"
)

// DashboardHandler greets the signed-in user.
type DashboardHandler struct {
	now func() time.Time
}

// NewDashboardHandler uses now for the greeting; nil means time.Now.
func NewDashboardHandler(now func() time.Time) *DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &DashboardHandler{now: now}
}

// Show renders the dashboard. While no identity is loaded only a loading
// notice is shown.
func (h *DashboardHandler) Show(c echo.Context) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}

	page := view.DashboardPage{Page: basePage(c, "Dashboard")}
	identity := sess.Identity()
	if identity == nil {
		page.Loading = true
		page.LoadingText = domain.MsgLoadingIdentity
		return c.Render(http.StatusOK, view.PageDashboard, page)
	}

	page.Greeting = Greeting(h.now().Hour())
	page.Identity = identity
	page.IsAdmin = sess.IsAdmin()
	page.IsEditor = sess.IsEditor()
	page.IsViewer = sess.IsViewer()
	return c.Render(http.StatusOK, view.PageDashboard, page)
}

// Greeting picks the salutation for a local hour of the day.
func Greeting(hour int) string {
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
