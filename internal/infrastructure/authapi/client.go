// Package authapi is the HTTP client for the remote authentication API.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
	"github.com/99minutos/user-auth-ui/internal/pkg/metrics"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultLoginPath = "/login"
	maxBodyBytes     = 1 << 20
)

// Config captures the settings for reaching the auth API.
type Config struct {
	BaseURL   string
	LoginPath string
	Timeout   time.Duration
}

// Client implements ports.AuthAPI over JSON/HTTP.
type Client struct {
	http      *http.Client
	baseURL   string
	loginPath string
	log       zerolog.Logger
}

// New validates cfg and returns a Client. A nil httpClient gets a default
// one with cfg.Timeout applied.
func New(cfg Config, httpClient *http.Client, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("authapi: invalid base url %q", cfg.BaseURL)
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = defaultLoginPath
	}
	if !strings.HasPrefix(loginPath, "/") {
		loginPath = "/" + loginPath
	}
	return &Client{
		http:      httpClient,
		baseURL:   strings.TrimRight(u.String(), "/"),
		loginPath: loginPath,
		log:       log,
	}, nil
}

type loginResponse struct {
	Token       string           `json:"token"`
	AccessToken string           `json:"access_token"`
	User        *domain.Identity `json:"user"`
}

type updateRoleRequest struct {
	Username string      `json:"username"`
	NewRole  domain.Role `json:"new_role"`
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	return c.do(ctx, "register", http.MethodPost, "/register", "", reg, nil)
}

func (c *Client) RegisterFirstAdmin(ctx context.Context, reg domain.Registration) error {
	return c.do(ctx, "register_first_admin", http.MethodPost, "/register/first-admin", "", reg, nil)
}

// Login accepts both {"token": ...} and OAuth2-style {"access_token": ...}
// answers.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (string, *domain.Identity, error) {
	var resp loginResponse
	if err := c.do(ctx, "login", http.MethodPost, c.loginPath, "", creds, &resp); err != nil {
		return "", nil, err
	}
	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return "", nil, errors.New("authapi: login response carried no token")
	}
	return token, resp.User, nil
}

func (c *Client) Me(ctx context.Context, token string) (*domain.Identity, error) {
	var id domain.Identity
	if err := c.do(ctx, "me", http.MethodGet, "/users/me", token, nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.Identity, error) {
	users := []domain.Identity{}
	if err := c.do(ctx, "list_users", http.MethodGet, "/users", token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateRole returns the record echoed by the API, or nil when the answer
// had no body.
func (c *Client) UpdateRole(ctx context.Context, token, username string, role domain.Role) (*domain.Identity, error) {
	var id *domain.Identity
	path := "/users/" + url.PathEscape(username) + "/role"
	body := updateRoleRequest{Username: username, NewRole: role}
	if err := c.do(ctx, "update_role", http.MethodPut, path, token, body, &id); err != nil {
		return nil, err
	}
	return id, nil
}

// do performs one JSON round trip. out is left untouched when the answer
// body is empty.
func (c *Client) do(ctx context.Context, call, method, path, token string, in, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.APIRequestsTotal.WithLabelValues(call, outcome).Inc()
		metrics.APIRequestDuration.WithLabelValues(call).Observe(time.Since(start).Seconds())
	}()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", call, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", call, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "transport"
		c.log.Error().Err(err).Str("call", call).Msg("auth api request failed")
		return fmt.Errorf("%s: %w: %w", call, domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		outcome = "transport"
		return fmt.Errorf("%s: read body: %w: %w", call, domain.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode >= 500 {
			outcome = "http_5xx"
		} else {
			outcome = "http_4xx"
		}
		apiErr := &domain.APIError{Status: resp.StatusCode, Detail: parseDetail(raw)}
		c.log.Debug().
			Str("call", call).
			Int("status", resp.StatusCode).
			Str("detail", apiErr.Detail).
			Msg("auth api returned error status")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", call, err)
	}
	return nil
}

// parseDetail extracts a string "detail" field. Structured details such as
// validation error lists are not shown to users and yield "".
func parseDetail(raw []byte) string {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(eb.Detail, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
