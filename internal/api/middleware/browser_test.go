package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("browser-secret")

func runBrowser(t *testing.T, cookie *http.Cookie) (id string, rec *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Browser(BrowserConfig{Secret: testSecret})(func(c echo.Context) error {
		id = BrowserID(c)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return id, rec
}

func issuedCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == browserCookieName {
			return ck
		}
	}
	return nil
}

func TestBrowser_IssuesSignedID(t *testing.T) {
	id, rec := runBrowser(t, nil)

	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected uuid browser id, got %q", id)
	}
	ck := issuedCookie(rec)
	if ck == nil || !ck.HttpOnly {
		t.Fatalf("expected an http-only browser cookie, got %+v", ck)
	}
	if got := parseBrowserToken(ck.Value, testSecret); got != id {
		t.Fatalf("cookie does not carry the id: %q vs %q", got, id)
	}
}

func TestBrowser_ReusesValidCookie(t *testing.T) {
	first, rec := runBrowser(t, nil)

	second, rec2 := runBrowser(t, issuedCookie(rec))
	if second != first {
		t.Fatalf("expected id %q to be reused, got %q", first, second)
	}
	if issuedCookie(rec2) != nil {
		t.Fatal("a valid cookie must not be reissued")
	}
}

func TestBrowser_RejectsForgedCookie(t *testing.T) {
	victim := uuid.NewString()
	forged, err := signBrowserToken(victim, []byte("other-secret"), time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	id, _ := runBrowser(t, &http.Cookie{Name: browserCookieName, Value: forged})
	if id == victim {
		t.Fatal("forged cookie must not grant the victim's browser id")
	}
}

func TestBrowser_RejectsPlainValue(t *testing.T) {
	plain := uuid.NewString()
	id, _ := runBrowser(t, &http.Cookie{Name: browserCookieName, Value: plain})
	if id == plain {
		t.Fatal("unsigned cookie value must not be trusted")
	}
}

func TestBrowser_RejectsExpiredToken(t *testing.T) {
	expired, err := signBrowserToken(uuid.NewString(), testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if got := parseBrowserToken(expired, testSecret); got != "" {
		t.Fatalf("expired token accepted: %q", got)
	}
}
