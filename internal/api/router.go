package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/99minutos/user-auth-ui/docs"
	"github.com/99minutos/user-auth-ui/internal/api/handler"
	"github.com/99minutos/user-auth-ui/internal/api/middleware"
	"github.com/99minutos/user-auth-ui/internal/api/view"
	"github.com/99minutos/user-auth-ui/internal/core/domain"
	"github.com/99minutos/user-auth-ui/internal/core/ports"
	"github.com/99minutos/user-auth-ui/internal/core/service"
	"github.com/99minutos/user-auth-ui/internal/core/session"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log      zerolog.Logger
	Sessions *session.Manager
	Accounts ports.AccountService
	Tables   *service.UserTables
	// Readiness maps dependency names to the checks run by /health/ready.
	Readiness map[string]handler.Pinger

	SessionSecret      []byte
	CookieSecure       bool
	RateLimitPerMinute int
	// Now is the dashboard clock; nil means time.Now.
	Now func() time.Time
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.Secure())
	e.Use(middleware.Metrics())

	// --- Page middleware: browser identity, CSRF, session resolution ---
	pageMW := []echo.MiddlewareFunc{
		middleware.Browser(middleware.BrowserConfig{Secret: d.SessionSecret, Secure: d.CookieSecure}),
		echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
			TokenLookup:    "form:_csrf",
			ContextKey:     handler.CSRFContextKey,
			CookieName:     "_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   d.CookieSecure,
			CookieSameSite: http.SameSiteLaxMode,
			ErrorHandler: func(error, echo.Context) error {
				return echo.NewHTTPError(http.StatusForbidden, domain.MsgInvalidFormRequest)
			},
		}),
		middleware.Session(d.Sessions),
	}
	page := func(extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
		return append(append([]echo.MiddlewareFunc{}, pageMW...), extra...)
	}
	limit := formRateLimiter(d.RateLimitPerMinute)

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Accounts, d.Tables, d.Log.With().Str("component", "auth_handler").Logger())
	dashboardHandler := handler.NewDashboardHandler(d.Now)
	adminHandler := handler.NewAdminHandler(d.Tables)
	sessionHandler := handler.NewSessionHandler()

	// --- Public pages ---
	e.GET("/login", authHandler.ShowLogin, page()...)
	e.POST("/login", authHandler.Login, page(limit)...)
	e.GET("/register", authHandler.ShowRegister, page()...)
	e.POST("/register", authHandler.Register, page(limit)...)
	e.GET("/admin-register", authHandler.ShowAdminRegister, page()...)
	e.POST("/admin-register", authHandler.AdminRegister, page(limit)...)
	e.POST("/logout", authHandler.Logout, page()...)

	// --- Guarded pages ---
	e.GET("/dashboard", dashboardHandler.Show, page(middleware.RequireAuth())...)
	e.GET("/admin/users", adminHandler.ListUsers, page(middleware.RequireAdmin())...)
	e.POST("/admin/users/:username/role", adminHandler.ChangeRole, page(middleware.RequireAdmin())...)

	// --- Session state for scripts ---
	e.GET("/api/session", sessionHandler.Current, page()...)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes and metrics (no session) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Readiness)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Everything else lands on the login view ---
	toLogin := func(c echo.Context) error {
		return c.Redirect(http.StatusFound, middleware.LoginPath)
	}
	e.GET("/", toLogin)
	e.GET("/*", toLogin)

	return e, nil
}

// formRateLimiter throttles credential-bearing form posts per client IP.
// perMinute == 0 disables it; config rejects negatives.
func formRateLimiter(perMinute int) echo.MiddlewareFunc {
	if perMinute <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(perMinute) / 60),
			Burst:     perMinute,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(echo.Context, error) error {
			return echo.NewHTTPError(http.StatusForbidden, domain.MsgUnexpectedFailure)
		},
		DenyHandler: func(echo.Context, string, error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, domain.MsgTooManyAttempts)
		},
	})
}
