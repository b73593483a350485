package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-auth-ui/internal/api/middleware"
	"github.com/99minutos/user-auth-ui/internal/api/view"
	"github.com/99minutos/user-auth-ui/internal/core/domain"
	"github.com/99minutos/user-auth-ui/internal/core/service"
)

// AdminHandler serves the user-role management screen.
type AdminHandler struct {
	tables *service.UserTables
}

func NewAdminHandler(tables *service.UserTables) *AdminHandler {
	return &AdminHandler{tables: tables}
}

type roleForm struct {
	Role string `form:"role" validate:"required"`
}

// ListUsers fetches the user list, as opening the screen always does, and
// renders it.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}

	page := h.page(c)
	table := h.tables.For(middleware.BrowserID(c))
	if err := table.Load(c.Request().Context(), sess.Credential()); err != nil {
		page.Error = domain.MsgLoadUsersFailed
	}
	page.Rows = table.Rows()
	return c.Render(http.StatusOK, view.PageAdminUsers, page)
}

// ChangeRole updates one user's role and re-renders the current table with
// that row patched. The list is not fetched again.
func (h *AdminHandler) ChangeRole(c echo.Context) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	page := h.page(c)
	table := h.tables.For(middleware.BrowserID(c))
	if !table.Loaded() {
		if err := table.Load(ctx, sess.Credential()); err != nil {
			page.Error = domain.MsgLoadUsersFailed
		}
	}

	// echo matches on the raw path when the request escapes a reserved
	// character, leaving the param escaped.
	username := c.Param("username")
	if u, err := url.PathUnescape(username); err == nil {
		username = u
	}
	var form roleForm
	if err := c.Bind(&form); err != nil || c.Validate(&form) != nil {
		page.Error = domain.MsgUpdateRoleFailed
		page.Rows = table.Rows()
		return c.Render(http.StatusUnprocessableEntity, view.PageAdminUsers, page)
	}

	status := http.StatusOK
	if err := table.ChangeRole(ctx, sess.Credential(), username, domain.Role(form.Role)); err != nil {
		page.Error = service.RoleChangeFailureMessage(err)
		status = http.StatusUnprocessableEntity
	} else {
		page.Notice = service.RoleChangeSuccessMessage(username)
	}
	page.Rows = table.Rows()
	return c.Render(status, view.PageAdminUsers, page)
}

func (h *AdminHandler) page(c echo.Context) view.AdminUsersPage {
	return view.AdminUsersPage{
		Page:  basePage(c, "User Management"),
		Roles: domain.Roles,
	}
}
