package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-auth-ui/internal/api/middleware"
	"github.com/99minutos/user-auth-ui/internal/api/view"
	"github.com/99minutos/user-auth-ui/internal/core/domain"
	"github.com/99minutos/user-auth-ui/internal/core/ports"
	"github.com/99minutos/user-auth-ui/internal/core/service"
)

// AuthHandler serves the public account forms and logout.
type AuthHandler struct {
	accounts ports.AccountService
	tables   *service.UserTables
	log      zerolog.Logger
}

func NewAuthHandler(accounts ports.AccountService, tables *service.UserTables, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, tables: tables, log: log}
}

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type registerForm struct {
	Username string `form:"username" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	FullName string `form:"full_name"`
}

func (f registerForm) registration() domain.Registration {
	return domain.Registration{
		Username: f.Username,
		Email:    f.Email,
		Password: f.Password,
		FullName: f.FullName,
	}
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageLogin, view.LoginPage{Page: basePage(c, "Login")})
}

// Login exchanges the submitted credentials for a token, stores it in the
// browser's session and continues to the dashboard. Any failure shows the
// same generic message.
func (h *AuthHandler) Login(c echo.Context) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}

	var form loginForm
	page := view.LoginPage{Page: basePage(c, "Login")}
	if err := c.Bind(&form); err != nil {
		page.Error = domain.MsgLoginFailed
		return c.Render(http.StatusBadRequest, view.PageLogin, page)
	}
	page.Username = form.Username
	if err := c.Validate(&form); err != nil {
		page.Error = err.Error()
		return c.Render(http.StatusUnprocessableEntity, view.PageLogin, page)
	}

	ctx := c.Request().Context()
	token, user, err := h.accounts.Login(ctx, domain.Credentials{Username: form.Username, Password: form.Password})
	if err != nil {
		page.Error = service.LoginFailureMessage(err)
		return c.Render(http.StatusUnauthorized, view.PageLogin, page)
	}
	if err := sess.Login(ctx, token, user); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, middleware.DashboardPath)
}

// ShowRegister renders the signup form.
func (h *AuthHandler) ShowRegister(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageRegister, registerPage(c, false))
}

// Register creates a viewer account and sends the visitor to log in.
func (h *AuthHandler) Register(c echo.Context) error {
	return h.submitRegistration(c, false)
}

// ShowAdminRegister renders the first-admin signup form.
func (h *AuthHandler) ShowAdminRegister(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageRegister, registerPage(c, true))
}

// AdminRegister creates the very first admin account.
func (h *AuthHandler) AdminRegister(c echo.Context) error {
	return h.submitRegistration(c, true)
}

func (h *AuthHandler) submitRegistration(c echo.Context, firstAdmin bool) error {
	page := registerPage(c, firstAdmin)

	var form registerForm
	if err := c.Bind(&form); err != nil {
		page.Error = domain.MsgRegisterFailed
		return c.Render(http.StatusBadRequest, view.PageRegister, page)
	}
	page.Username, page.Email, page.FullName = form.Username, form.Email, form.FullName
	if err := c.Validate(&form); err != nil {
		page.Error = err.Error()
		return c.Render(http.StatusUnprocessableEntity, view.PageRegister, page)
	}

	ctx := c.Request().Context()
	if firstAdmin {
		if err := h.accounts.RegisterFirstAdmin(ctx, form.registration()); err != nil {
			page.Error = service.FirstAdminFailureMessage(err)
			return c.Render(http.StatusUnprocessableEntity, view.PageRegister, page)
		}
		setFlash(c, domain.MsgAdminCreated)
	} else {
		if err := h.accounts.Register(ctx, form.registration()); err != nil {
			page.Error = service.RegisterFailureMessage(err)
			return c.Render(http.StatusUnprocessableEntity, view.PageRegister, page)
		}
		setFlash(c, domain.MsgRegisterSucceeded)
	}
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

// Logout clears the browser's credential and any cached admin state.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}
	if err := sess.Logout(c.Request().Context()); err != nil {
		h.log.Warn().Err(err).Msg("logout left a stored credential behind")
	}
	h.tables.Forget(middleware.BrowserID(c))
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func registerPage(c echo.Context, firstAdmin bool) view.RegisterPage {
	if firstAdmin {
		return view.RegisterPage{
			Page:       basePage(c, "Admin Registration"),
			FirstAdmin: true,
			Action:     "/admin-register",
			Heading:    "Create Admin Account",
			Submit:     "Create Admin",
		}
	}
	return view.RegisterPage{
		Page:    basePage(c, "Register"),
		Action:  "/register",
		Heading: "Register",
		Submit:  "Register",
	}
}
