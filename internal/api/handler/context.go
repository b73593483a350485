package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-auth-ui/internal/api/middleware"
	"github.com/99minutos/user-auth-ui/internal/api/view"
	"github.com/99minutos/user-auth-ui/internal/core/session"
)

// CSRFContextKey is where the CSRF middleware leaves the form token.
const CSRFContextKey = "csrf"

const flashCookieName = "flash"

// sessionOf returns the request's Session Context. Routes are always mounted
// behind the Session middleware, so a missing one is a wiring bug.
func sessionOf(c echo.Context) (*session.Context, error) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session not resolved")
	}
	return sess, nil
}

// basePage fills the fields every page shares and consumes a pending flash.
func basePage(c echo.Context, title string) view.Page {
	p := view.Page{Title: title, Notice: takeFlash(c)}
	p.CSRF, _ = c.Get(CSRFContextKey).(string)
	if sess := middleware.SessionFrom(c); sess != nil {
		p.Nav.Authenticated = sess.IsAuthenticated()
		p.Nav.Admin = sess.IsAdmin()
		if id := sess.Identity(); id != nil {
			p.Nav.Username = id.Username
		}
	}
	return p
}

// setFlash stores a one-time notice shown on the next rendered page.
func setFlash(c echo.Context, msg string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(msg)),
		Path:     "/",
		HttpOnly: true,
		Secure:   middleware.SecureCookies(c),
		SameSite: http.SameSiteLaxMode,
	})
}

func takeFlash(c echo.Context) string {
	ck, err := c.Cookie(flashCookieName)
	if err != nil || ck.Value == "" {
		return ""
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   middleware.SecureCookies(c),
		SameSite: http.SameSiteLaxMode,
	})
	msg, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return ""
	}
	return string(msg)
}
