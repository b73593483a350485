package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
)

// SessionHandler exposes the caller's session state as JSON.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

type roleFlags struct {
	Admin  bool `json:"admin"`
	Editor bool `json:"editor"`
	Viewer bool `json:"viewer"`
} // @name RoleFlags

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Resolving     bool             `json:"resolving"`
	Identity      *domain.Identity `json:"identity"`
	Roles         roleFlags        `json:"roles"`
} // @name SessionResponse

// Current returns the session of the calling browser.
//
// @Summary      Current session
// @Description  Authentication state, confirmed identity and role flags of the calling browser.
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	sess, err := sessionOf(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated: sess.IsAuthenticated(),
		Resolving:     sess.Resolving(),
		Identity:      sess.Identity(),
		Roles: roleFlags{
			Admin:  sess.IsAdmin(),
			Editor: sess.IsEditor(),
			Viewer: sess.IsViewer(),
		},
	})
}
