// Package authapitest runs an in-process stand-in for the remote auth API so
// the client, the session lifecycle and the handlers can be tested end to end.
package authapitest

import (
	"net/http"
	"net/url"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
)

type account struct {
	identity     domain.Identity
	passwordHash []byte
}

type failure struct {
	status int
	detail string
}

// Server is a running fake auth API. It is safe for concurrent use.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]*account
	order    []string
	secret   []byte
	failures map[string]failure
	calls    map[string]int
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type roleRequest struct {
	Username string `json:"username"`
	NewRole  string `json:"new_role"`
}

type detail struct {
	Detail string `json:"detail"`
}

// New starts a fake API with no users.
func New() *Server {
	s := &Server{
		users:    make(map[string]*account),
		secret:   []byte("authapitest-secret"),
		failures: make(map[string]failure),
		calls:    make(map[string]int),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(s.track)

	e.POST("/register", s.register)
	e.POST("/register/first-admin", s.registerFirstAdmin)
	e.POST("/login", s.login)
	e.GET("/users/me", s.me, s.bearer)
	e.GET("/users", s.listUsers, s.bearer, s.adminOnly)
	e.PUT("/users/:username/role", s.updateRole, s.bearer, s.adminOnly)

	s.Server = httptest.NewServer(e)
	return s
}

// Seed adds a user directly, bypassing the registration rules.
func (s *Server) Seed(username, password string, role domain.Role) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(&account{
		identity:     domain.Identity{Username: username, Email: username + "@example.com", Role: role},
		passwordHash: hash,
	})
}

// Token mints a valid bearer token for username without a login call.
func (s *Server) Token(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := s.sign(username)
	if err != nil {
		panic(err)
	}
	return tok
}

// Fail makes every request to route (e.g. "PUT /users/:username/role")
// answer status with detail until Recover is called.
func (s *Server) Fail(route string, status int, detail string) {
	s.mu.Lock()
	s.failures[route] = failure{status: status, detail: detail}
	s.mu.Unlock()
}

// Recover clears a failure installed by Fail.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	delete(s.failures, route)
	s.mu.Unlock()
}

// RevokeAll invalidates every token issued so far.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	s.secret = append(s.secret, 'x')
	s.mu.Unlock()
}

// Calls reports how many requests reached route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Role returns the stored role of username.
func (s *Server) Role(username string) domain.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.users[username]; ok {
		return a.identity.Role
	}
	return ""
}

func (s *Server) put(a *account) {
	if _, exists := s.users[a.identity.Username]; !exists {
		s.order = append(s.order, a.identity.Username)
	}
	s.users[a.identity.Username] = a
}

func (s *Server) sign(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) track(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		route := c.Request().Method + " " + c.Path()
		s.mu.Lock()
		s.calls[route]++
		f, failing := s.failures[route]
		s.mu.Unlock()
		if failing {
			if f.detail == "" {
				return c.NoContent(f.status)
			}
			return c.JSON(f.status, detail{Detail: f.detail})
		}
		return next(c)
	}
}

func (s *Server) bearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return c.JSON(http.StatusUnauthorized, detail{Detail: "Not authenticated"})
		}

		s.mu.Lock()
		secret := append([]byte(nil), s.secret...)
		s.mu.Unlock()

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !tkn.Valid {
			return c.JSON(http.StatusUnauthorized, detail{Detail: "Could not validate credentials"})
		}
		sub, _ := claims.GetSubject()

		s.mu.Lock()
		a, exists := s.users[sub]
		s.mu.Unlock()
		if !exists {
			return c.JSON(http.StatusUnauthorized, detail{Detail: "Could not validate credentials"})
		}
		c.Set("username", sub)
		c.Set("role", a.identity.Role)
		return next(c)
	}
}

func (s *Server) adminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if role, _ := c.Get("role").(domain.Role); role != domain.RoleAdmin {
			return c.JSON(http.StatusForbidden, detail{Detail: "Not enough permissions"})
		}
		return next(c)
	}
}

func (s *Server) create(c echo.Context, role domain.Role) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" || req.Email == "" {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "field required"}},
		})
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Username]; exists {
		return c.JSON(http.StatusBadRequest, detail{Detail: "Username already registered"})
	}
	a := &account{
		identity: domain.Identity{
			Username: req.Username,
			Email:    req.Email,
			FullName: req.FullName,
			Role:     role,
		},
		passwordHash: hash,
	}
	s.put(a)
	return c.JSON(http.StatusOK, a.identity)
}

func (s *Server) register(c echo.Context) error {
	return s.create(c, domain.RoleViewer)
}

func (s *Server) registerFirstAdmin(c echo.Context) error {
	s.mu.Lock()
	for _, a := range s.users {
		if a.identity.Role == domain.RoleAdmin {
			s.mu.Unlock()
			return c.JSON(http.StatusForbidden, detail{Detail: "Admin user already exists"})
		}
	}
	s.mu.Unlock()
	return s.create(c, domain.RoleAdmin)
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, detail{Detail: "invalid payload"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[req.Username]
	if !ok || bcrypt.CompareHashAndPassword(a.passwordHash, []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, detail{Detail: "Incorrect username or password"})
	}
	tok, err := s.sign(req.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"token": tok, "user": a.identity})
}

func (s *Server) me(c echo.Context) error {
	username, _ := c.Get("username").(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.users[username].identity)
}

func (s *Server) listUsers(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Identity, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.users[name].identity)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) updateRole(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, detail{Detail: "invalid payload"})
	}
	role := domain.Role(req.NewRole)
	if !role.Valid() {
		return c.JSON(http.StatusBadRequest, detail{Detail: "Invalid role"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	name := c.Param("username")
	if u, err := url.PathUnescape(name); err == nil {
		name = u
	}
	a, ok := s.users[name]
	if !ok {
		return c.JSON(http.StatusNotFound, detail{Detail: "User not found"})
	}
	a.identity.Role = role
	return c.JSON(http.StatusOK, a.identity)
}
