package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
	"github.com/99minutos/user-auth-ui/internal/core/ports"
	"github.com/99minutos/user-auth-ui/internal/pkg/metrics"
)

// UserRow is one line of the admin user table.
type UserRow struct {
	domain.Identity
}

// Editable reports whether the role selector is enabled for the row.
// Admin rows are locked in the view.
func (r UserRow) Editable() bool { return r.Role != domain.RoleAdmin }

// UserTable is the admin screen state: the list fetched once on open,
// patched row by row after each acknowledged role change.
type UserTable struct {
	dir ports.UserDirectory
	log zerolog.Logger

	mu     sync.Mutex
	rows   []UserRow
	loaded bool
}

func NewUserTable(dir ports.UserDirectory, log zerolog.Logger) *UserTable {
	return &UserTable{dir: dir, log: log}
}

// Load replaces the rows with a fresh listing. On failure the previous rows
// are kept.
func (t *UserTable) Load(ctx context.Context, token string) error {
	users, err := t.dir.ListUsers(ctx, token)
	if err != nil {
		t.log.Warn().Err(err).Msg("failed to load users")
		return fmt.Errorf("list users: %w", err)
	}
	rows := make([]UserRow, len(users))
	for i, u := range users {
		rows[i] = UserRow{Identity: u}
	}
	t.mu.Lock()
	t.rows = rows
	t.loaded = true
	t.mu.Unlock()
	return nil
}

// Loaded reports whether a listing ever succeeded.
func (t *UserTable) Loaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loaded
}

// Rows returns a snapshot of the table.
func (t *UserTable) Rows() []UserRow {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]UserRow, len(t.rows))
	copy(out, t.rows)
	return out
}

// ChangeRole asks the API to set username's role and, once acknowledged,
// updates that single row locally. A rejected change leaves the table as is.
// Concurrent changes are independent: the last answer wins for its row.
func (t *UserTable) ChangeRole(ctx context.Context, token, username string, role domain.Role) error {
	if !role.Valid() {
		return domain.ErrInvalidRole
	}
	_, err := t.dir.UpdateRole(ctx, token, username, role)
	metrics.RoleChangesTotal.WithLabelValues(string(role), metrics.Result(err)).Inc()
	if err != nil {
		t.log.Info().Err(err).Str("username", username).Str("role", string(role)).Msg("role change rejected")
		return fmt.Errorf("update role of %s: %w", username, err)
	}

	t.mu.Lock()
	for i := range t.rows {
		if t.rows[i].Username == username {
			t.rows[i].Role = role
		}
	}
	t.mu.Unlock()
	t.log.Info().Str("username", username).Str("role", string(role)).Msg("role updated")
	return nil
}

// RoleChangeFailureMessage is the banner text for a rejected role change.
func RoleChangeFailureMessage(err error) string {
	return domain.Message(err, domain.MsgUpdateRoleFailed)
}

// RoleChangeSuccessMessage is the banner text for an acknowledged change.
func RoleChangeSuccessMessage(username string) string {
	return domain.MsgRoleUpdatedPrefix + username
}

type tableEntry struct {
	table    *UserTable
	lastUsed time.Time
}

// UserTables keeps one UserTable per browser so a role change can patch the
// table the admin is looking at instead of refetching it. Idle tables are
// dropped after ttl.
type UserTables struct {
	dir ports.UserDirectory
	log zerolog.Logger
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*tableEntry
}

func NewUserTables(dir ports.UserDirectory, ttl time.Duration, log zerolog.Logger) *UserTables {
	return &UserTables{
		dir:     dir,
		log:     log,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*tableEntry),
	}
}

// For returns browserID's table, creating an empty one when needed.
func (ts *UserTables) For(browserID string) *UserTable {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := ts.now()
	if ts.ttl > 0 {
		for id, e := range ts.entries {
			if now.Sub(e.lastUsed) > ts.ttl {
				delete(ts.entries, id)
			}
		}
	}

	e, ok := ts.entries[browserID]
	if !ok {
		e = &tableEntry{table: NewUserTable(ts.dir, ts.log.With().Str("browser_id", browserID).Logger())}
		ts.entries[browserID] = e
	}
	e.lastUsed = now
	return e.table
}

// Forget drops browserID's table, e.g. on logout.
func (ts *UserTables) Forget(browserID string) {
	ts.mu.Lock()
	delete(ts.entries, browserID)
	ts.mu.Unlock()
}
