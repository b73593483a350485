package ports

import (
	"context"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
)

// AccountService drives the public forms: signup, first-admin signup and login.
type AccountService interface {
	Register(ctx context.Context, reg domain.Registration) error
	RegisterFirstAdmin(ctx context.Context, reg domain.Registration) error
	Login(ctx context.Context, creds domain.Credentials) (string, *domain.Identity, error)
}

// UserDirectory backs the admin user-role screen.
type UserDirectory interface {
	ListUsers(ctx context.Context, token string) ([]domain.Identity, error)
	UpdateRole(ctx context.Context, token, username string, role domain.Role) (*domain.Identity, error)
}
