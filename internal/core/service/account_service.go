package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
	"github.com/99minutos/user-auth-ui/internal/core/ports"
	"github.com/99minutos/user-auth-ui/internal/pkg/metrics"
)

// AccountService implements ports.AccountService on top of the auth API.
// Every call is a single round trip; failures are returned, never retried.
type AccountService struct {
	api ports.AuthAPI
	log zerolog.Logger
}

func NewAccountService(api ports.AuthAPI, log zerolog.Logger) *AccountService {
	return &AccountService{api: api, log: log}
}

func (s *AccountService) Register(ctx context.Context, reg domain.Registration) error {
	err := s.api.Register(ctx, reg)
	metrics.FormSubmissionsTotal.WithLabelValues("register", metrics.Result(err)).Inc()
	if err != nil {
		s.log.Info().Err(err).Str("username", reg.Username).Msg("registration rejected")
		return fmt.Errorf("register %s: %w", reg.Username, err)
	}
	s.log.Info().Str("username", reg.Username).Msg("user registered")
	return nil
}

func (s *AccountService) RegisterFirstAdmin(ctx context.Context, reg domain.Registration) error {
	err := s.api.RegisterFirstAdmin(ctx, reg)
	metrics.FormSubmissionsTotal.WithLabelValues("first_admin", metrics.Result(err)).Inc()
	if err != nil {
		s.log.Info().Err(err).Str("username", reg.Username).Msg("first admin registration rejected")
		return fmt.Errorf("register first admin %s: %w", reg.Username, err)
	}
	s.log.Info().Str("username", reg.Username).Msg("first admin registered")
	return nil
}

// Login returns the bearer token and the identity to hand to the session.
// When the API answers without a user record, it is fetched once with the
// fresh token.
func (s *AccountService) Login(ctx context.Context, creds domain.Credentials) (string, *domain.Identity, error) {
	token, user, err := s.login(ctx, creds)
	metrics.FormSubmissionsTotal.WithLabelValues("login", metrics.Result(err)).Inc()
	if err != nil {
		s.log.Info().Err(err).Str("username", creds.Username).Msg("login failed")
		return "", nil, err
	}
	s.log.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("user logged in")
	return token, user, nil
}

func (s *AccountService) login(ctx context.Context, creds domain.Credentials) (string, *domain.Identity, error) {
	token, user, err := s.api.Login(ctx, creds)
	if err != nil {
		return "", nil, fmt.Errorf("login %s: %w", creds.Username, err)
	}
	if user != nil {
		return token, user, nil
	}
	user, err = s.api.Me(ctx, token)
	if err != nil {
		return "", nil, fmt.Errorf("login %s: fetch identity: %w", creds.Username, err)
	}
	return token, user, nil
}

// RegisterFailureMessage is the text shown when signup fails.
func RegisterFailureMessage(err error) string {
	return domain.Message(err, domain.MsgRegisterFailed)
}

// FirstAdminFailureMessage singles out the 403 "admin already exists" case.
func FirstAdminFailureMessage(err error) string {
	if errors.Is(err, domain.ErrForbidden) {
		return domain.MsgAdminExists
	}
	return domain.Message(err, domain.MsgRegisterFailed)
}

// LoginFailureMessage is deliberately generic whatever the cause.
func LoginFailureMessage(error) string {
	return domain.MsgLoginFailed
}
