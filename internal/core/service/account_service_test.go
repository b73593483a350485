package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
)

type stubAuthAPI struct {
	registerFn   func(ctx context.Context, reg domain.Registration) error
	firstAdminFn func(ctx context.Context, reg domain.Registration) error
	loginFn      func(ctx context.Context, creds domain.Credentials) (string, *domain.Identity, error)
	meFn         func(ctx context.Context, token string) (*domain.Identity, error)
	listFn       func(ctx context.Context, token string) ([]domain.Identity, error)
	updateFn     func(ctx context.Context, token, username string, role domain.Role) (*domain.Identity, error)
	listCalls    int
}

func (s *stubAuthAPI) Register(ctx context.Context, reg domain.Registration) error {
	return s.registerFn(ctx, reg)
}

func (s *stubAuthAPI) RegisterFirstAdmin(ctx context.Context, reg domain.Registration) error {
	return s.firstAdminFn(ctx, reg)
}

func (s *stubAuthAPI) Login(ctx context.Context, creds domain.Credentials) (string, *domain.Identity, error) {
	return s.loginFn(ctx, creds)
}

func (s *stubAuthAPI) Me(ctx context.Context, token string) (*domain.Identity, error) {
	return s.meFn(ctx, token)
}

func (s *stubAuthAPI) ListUsers(ctx context.Context, token string) ([]domain.Identity, error) {
	s.listCalls++
	return s.listFn(ctx, token)
}

func (s *stubAuthAPI) UpdateRole(ctx context.Context, token, username string, role domain.Role) (*domain.Identity, error) {
	return s.updateFn(ctx, token, username, role)
}

var discardLogger = zerolog.Nop()

func TestAccountService_Register_Success(t *testing.T) {
	var got domain.Registration
	stub := &stubAuthAPI{registerFn: func(_ context.Context, reg domain.Registration) error {
		got = reg
		return nil
	}}
	svc := NewAccountService(stub, discardLogger)

	reg := domain.Registration{Username: "alice", Email: "a@example.com", Password: "pw", FullName: "Alice"}
	if err := svc.Register(context.Background(), reg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != reg {
		t.Fatalf("registration not forwarded verbatim: %+v", got)
	}
}

func TestAccountService_Register_FailureMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"server detail", &domain.APIError{Status: http.StatusBadRequest, Detail: "Username already registered"}, "Username already registered"},
		{"no detail", &domain.APIError{Status: http.StatusInternalServerError}, domain.MsgRegisterFailed},
		{"transport", domain.ErrTransport, domain.MsgRegisterFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubAuthAPI{registerFn: func(context.Context, domain.Registration) error { return tc.err }}
			svc := NewAccountService(stub, discardLogger)

			err := svc.Register(context.Background(), domain.Registration{Username: "x"})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := RegisterFailureMessage(err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestAccountService_FirstAdmin_AdminExists(t *testing.T) {
	stub := &stubAuthAPI{firstAdminFn: func(context.Context, domain.Registration) error {
		return &domain.APIError{Status: http.StatusForbidden, Detail: "Admin user already exists"}
	}}
	svc := NewAccountService(stub, discardLogger)

	err := svc.RegisterFirstAdmin(context.Background(), domain.Registration{Username: "root"})

	if got := FirstAdminFailureMessage(err); got != domain.MsgAdminExists {
		t.Fatalf("expected admin-exists message, got %q", got)
	}
}

func TestAccountService_FirstAdmin_OtherFailures(t *testing.T) {
	stub := &stubAuthAPI{firstAdminFn: func(context.Context, domain.Registration) error {
		return &domain.APIError{Status: http.StatusBadRequest, Detail: "Username already registered"}
	}}
	svc := NewAccountService(stub, discardLogger)

	err := svc.RegisterFirstAdmin(context.Background(), domain.Registration{Username: "root"})

	if got := FirstAdminFailureMessage(err); got != "Username already registered" {
		t.Fatalf("expected server detail, got %q", got)
	}
	if got := FirstAdminFailureMessage(errors.New("boom")); got != domain.MsgRegisterFailed {
		t.Fatalf("expected generic message, got %q", got)
	}
}

func TestAccountService_Login_UsesIdentityFromAnswer(t *testing.T) {
	stub := &stubAuthAPI{
		loginFn: func(_ context.Context, creds domain.Credentials) (string, *domain.Identity, error) {
			return "tok", &domain.Identity{Username: creds.Username, Role: domain.RoleEditor}, nil
		},
		meFn: func(context.Context, string) (*domain.Identity, error) {
			t.Fatal("identity lookup should not be needed")
			return nil, nil
		},
	}
	svc := NewAccountService(stub, discardLogger)

	token, user, err := svc.Login(context.Background(), domain.Credentials{Username: "ed", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok" || user.Role != domain.RoleEditor {
		t.Fatalf("unexpected login result: %s %+v", token, user)
	}
}

func TestAccountService_Login_FetchesMissingIdentity(t *testing.T) {
	stub := &stubAuthAPI{
		loginFn: func(context.Context, domain.Credentials) (string, *domain.Identity, error) {
			return "tok", nil, nil
		},
		meFn: func(_ context.Context, token string) (*domain.Identity, error) {
			if token != "tok" {
				t.Fatalf("unexpected token %q", token)
			}
			return &domain.Identity{Username: "ed", Role: domain.RoleViewer}, nil
		},
	}
	svc := NewAccountService(stub, discardLogger)

	_, user, err := svc.Login(context.Background(), domain.Credentials{Username: "ed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "ed" {
		t.Fatalf("unexpected identity %+v", user)
	}
}

func TestAccountService_Login_FailureIsGeneric(t *testing.T) {
	stub := &stubAuthAPI{loginFn: func(context.Context, domain.Credentials) (string, *domain.Identity, error) {
		return "", nil, &domain.APIError{Status: http.StatusUnauthorized, Detail: "Incorrect username or password"}
	}}
	svc := NewAccountService(stub, discardLogger)

	_, _, err := svc.Login(context.Background(), domain.Credentials{Username: "ed"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected wrapped unauthorized error, got %v", err)
	}
	if got := LoginFailureMessage(err); got != domain.MsgLoginFailed {
		t.Fatalf("expected generic login message, got %q", got)
	}
}
