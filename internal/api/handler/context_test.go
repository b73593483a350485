package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-auth-ui/internal/api/middleware"
)

func flashCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == flashCookieName {
			return ck
		}
	}
	return nil
}

func TestFlash_HonoursSecureCookies(t *testing.T) {
	for _, secure := range []bool{true, false} {
		browser := middleware.Browser(middleware.BrowserConfig{Secret: []byte("k"), Secure: secure})
		e := echo.New()

		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/register", nil), rec)
		err := browser(func(c echo.Context) error {
			setFlash(c, "Registration successful")
			return nil
		})(c)
		if err != nil {
			t.Fatalf("set flash: %v", err)
		}
		set := flashCookie(rec)
		if set == nil {
			t.Fatal("flash cookie not set")
		}
		if set.Secure != secure {
			t.Errorf("set flash Secure = %v, want %v", set.Secure, secure)
		}

		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.AddCookie(&http.Cookie{Name: flashCookieName, Value: set.Value})
		rec = httptest.NewRecorder()
		c = e.NewContext(req, rec)
		var msg string
		err = browser(func(c echo.Context) error {
			msg = takeFlash(c)
			return nil
		})(c)
		if err != nil {
			t.Fatalf("take flash: %v", err)
		}
		if msg != "Registration successful" {
			t.Errorf("flash = %q", msg)
		}
		cleared := flashCookie(rec)
		if cleared == nil || cleared.MaxAge >= 0 {
			t.Fatalf("flash cookie not cleared: %+v", cleared)
		}
		if cleared.Secure != secure {
			t.Errorf("cleared flash Secure = %v, want %v", cleared.Secure, secure)
		}
	}
}
