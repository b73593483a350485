package ports

import (
	"context"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
)

// AuthAPI is the remote authentication service. Non-2xx answers surface as
// *domain.APIError, transport failures wrap domain.ErrTransport.
type AuthAPI interface {
	UserDirectory

	Register(ctx context.Context, reg domain.Registration) error
	RegisterFirstAdmin(ctx context.Context, reg domain.Registration) error
	// Login exchanges credentials for a bearer token. The returned identity
	// is nil when the API did not include one in its answer.
	Login(ctx context.Context, creds domain.Credentials) (string, *domain.Identity, error)
	Me(ctx context.Context, token string) (*domain.Identity, error)
}
