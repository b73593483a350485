// Package view renders the HTML pages through echo.Renderer.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
	"github.com/99minutos/user-auth-ui/internal/core/service"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page names accepted by Renderer.Render.
const (
	PageLogin      = "login"
	PageRegister   = "register"
	PageDashboard  = "dashboard"
	PageAdminUsers = "admin_users"
	PageError      = "error"
)

// Nav drives the navigation bar. Links depend only on authentication and the
// admin role.
type Nav struct {
	Authenticated bool
	Admin         bool
	Username      string
}

// Page is embedded by every page model.
type Page struct {
	Title  string
	Nav    Nav
	CSRF   string
	Notice string
	Error  string
}

type LoginPage struct {
	Page
	Username string
}

type RegisterPage struct {
	Page
	FirstAdmin bool
	Action     string
	Heading    string
	Submit     string
	Username   string
	Email      string
	FullName   string
}

type DashboardPage struct {
	Page
	Loading     bool
	LoadingText string
	Greeting    string
	Identity    *domain.Identity
	IsAdmin     bool
	IsEditor    bool
	IsViewer    bool
}

type AdminUsersPage struct {
	Page
	Rows  []service.UserRow
	Roles []domain.Role
}

type ErrorPage struct {
	Page
	Status  int
	Message string
}

// Renderer holds one parsed template set per page, each sharing the layout.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"roleLabel":  func(r domain.Role) string { return r.Label() },
	"roleAction": RoleAction,
}

// RoleAction is the form target that changes username's role.
func RoleAction(username string) string {
	return "/admin/users/" + url.PathEscape(username) + "/role"
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(f), ".html")
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render satisfies echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
