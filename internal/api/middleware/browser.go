package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	browserCookieName = "bid"
	browserIDKey      = "browser_id"
	cookieSecureKey   = "cookie_secure"
	defaultBrowserAge = 30 * 24 * time.Hour
)

// BrowserConfig controls the signed browser identity cookie.
type BrowserConfig struct {
	Secret []byte
	Secure bool
	MaxAge time.Duration
}

// Browser gives every client a stable, signed browser id. The id namespaces
// the credential in durable storage, so a forged cookie must never name
// another browser's slot: the value is an HS256 token over the id.
func Browser(cfg BrowserConfig) echo.MiddlewareFunc {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = defaultBrowserAge
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(browserCookieName); err == nil {
				id = parseBrowserToken(ck.Value, cfg.Secret)
			}

			if id == "" {
				id = uuid.NewString()
				signed, err := signBrowserToken(id, cfg.Secret, maxAge)
				if err != nil {
					return err
				}
				c.SetCookie(&http.Cookie{
					Name:     browserCookieName,
					Value:    signed,
					Path:     "/",
					MaxAge:   int(maxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(browserIDKey, id)
			c.Set(cookieSecureKey, cfg.Secure)
			return next(c)
		}
	}
}

// BrowserID returns the id assigned by Browser, or "" outside of it.
func BrowserID(c echo.Context) string {
	id, _ := c.Get(browserIDKey).(string)
	return id
}

// SecureCookies reports whether cookies set on this request should carry the
// Secure attribute, as configured on Browser.
func SecureCookies(c echo.Context) bool {
	secure, _ := c.Get(cookieSecureKey).(bool)
	return secure
}

func signBrowserToken(id string, secret []byte, maxAge time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(maxAge)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseBrowserToken(raw string, secret []byte) string {
	if raw == "" {
		return ""
	}
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return ""
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return ""
	}
	return claims.Subject
}
