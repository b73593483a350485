package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-auth-ui/internal/api/view"
	"github.com/99minutos/user-auth-ui/internal/core/domain"
)

// errorResponse is the JSON error envelope used under /api.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps echo and domain errors to status codes and user-facing text.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders JSON under /api and the error page everywhere else.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}
		page := view.ErrorPage{
			Page:    view.Page{Title: http.StatusText(code)},
			Status:  code,
			Message: msg,
		}
		if rerr := c.Render(code, view.PageError, page); rerr != nil {
			log.Error().Err(rerr).Msg("render error page")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound {
			return he.Code, domain.MsgPageNotFound
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if errors.Is(err, domain.ErrTransport) {
		log.Warn().Err(err).Str("path", c.Path()).Msg("auth api unreachable")
		return http.StatusBadGateway, domain.MsgUnexpectedFailure
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, domain.MsgUnexpectedFailure
}
