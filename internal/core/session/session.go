// Package session owns the per-browser credential and identity lifecycle.
//
// A Context holds the bearer token persisted for one browser together with
// the identity the auth API confirmed for it. Identity is only ever present
// while a credential is present and was accepted by the API; any failure to
// confirm it clears both.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
	"github.com/99minutos/user-auth-ui/internal/core/ports"
)

// credentialKeyName is the fixed storage key holding the bearer token.
const credentialKeyName = "token"

// CredentialKey returns the storage key for a browser's bearer token.
func CredentialKey(browserID string) string {
	return "session:" + browserID + ":" + credentialKeyName
}

// Outcome describes how a Resolve call ended.
type Outcome string

const (
	OutcomeAnonymous Outcome = "anonymous"
	OutcomeValid     Outcome = "valid"
	OutcomeRejected  Outcome = "rejected"
)

// Context is the session state of one browser.
type Context struct {
	store ports.CredentialStore
	api   ports.AuthAPI
	key   string
	log   zerolog.Logger

	credential string
	identity   *domain.Identity
	resolving  bool
}

// New returns an unresolved Context for browserID. Call Resolve before
// reading identity-dependent state.
func New(store ports.CredentialStore, api ports.AuthAPI, browserID string, log zerolog.Logger) *Context {
	return &Context{
		store:     store,
		api:       api,
		key:       CredentialKey(browserID),
		log:       log,
		resolving: true,
	}
}

// Resolve loads the stored credential and confirms it with the auth API.
// A credential the API does not confirm, for whatever reason, is logged out.
func (c *Context) Resolve(ctx context.Context) Outcome {
	defer func() { c.resolving = false }()

	token, err := c.store.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, domain.ErrCredentialNotFound) {
			c.log.Warn().Err(err).Msg("credential lookup failed, treating as logged out")
		}
		c.credential, c.identity = "", nil
		return OutcomeAnonymous
	}
	if token == "" {
		c.credential, c.identity = "", nil
		return OutcomeAnonymous
	}
	c.credential = token

	identity, err := c.api.Me(ctx, token)
	if err != nil {
		c.log.Info().Err(err).Msg("stored credential rejected, logging out")
		if lerr := c.Logout(ctx); lerr != nil {
			c.log.Warn().Err(lerr).Msg("failed to clear rejected credential")
		}
		return OutcomeRejected
	}
	c.identity = identity
	return OutcomeValid
}

// Login persists credential and adopts identity as the confirmed profile.
// The identity comes from the login answer, so no further API call is made.
func (c *Context) Login(ctx context.Context, credential string, identity *domain.Identity) error {
	if credential == "" {
		return domain.ErrEmptyCredential
	}
	if err := c.store.Set(ctx, c.key, credential); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	c.credential = credential
	c.identity = identity
	c.resolving = false
	return nil
}

// Logout forgets the credential and identity. Calling it on a logged-out
// Context is a no-op apart from the storage delete.
func (c *Context) Logout(ctx context.Context) error {
	c.credential = ""
	c.identity = nil
	if err := c.store.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a credential is held. The identity may
// still be missing.
func (c *Context) IsAuthenticated() bool { return c.credential != "" }

// HasRole is false whenever no identity is loaded.
func (c *Context) HasRole(role domain.Role) bool { return c.identity.HasRole(role) }

func (c *Context) IsAdmin() bool  { return c.HasRole(domain.RoleAdmin) }
func (c *Context) IsEditor() bool { return c.HasRole(domain.RoleEditor) }
func (c *Context) IsViewer() bool { return c.HasRole(domain.RoleViewer) }

// Resolving is true until Resolve or Login has completed.
func (c *Context) Resolving() bool { return c.resolving }

func (c *Context) Credential() string { return c.credential }

// Identity returns a copy of the confirmed identity, or nil.
func (c *Context) Identity() *domain.Identity {
	if c.identity == nil {
		return nil
	}
	id := *c.identity
	return &id
}

// Manager opens a resolved Context per browser.
type Manager struct {
	store ports.CredentialStore
	api   ports.AuthAPI
	log   zerolog.Logger
}

func NewManager(store ports.CredentialStore, api ports.AuthAPI, log zerolog.Logger) *Manager {
	return &Manager{store: store, api: api, log: log}
}

// Open builds the Context for browserID and runs the lifecycle once.
func (m *Manager) Open(ctx context.Context, browserID string) (*Context, Outcome) {
	c := New(m.store, m.api, browserID, m.log.With().Str("browser_id", browserID).Logger())
	return c, c.Resolve(ctx)
}
