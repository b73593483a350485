package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
)

func directory(users ...domain.Identity) *stubAuthAPI {
	return &stubAuthAPI{
		listFn: func(context.Context, string) ([]domain.Identity, error) {
			return append([]domain.Identity(nil), users...), nil
		},
		updateFn: func(_ context.Context, _, username string, role domain.Role) (*domain.Identity, error) {
			return &domain.Identity{Username: username, Role: role}, nil
		},
	}
}

func roleOf(rows []UserRow, username string) domain.Role {
	for _, r := range rows {
		if r.Username == username {
			return r.Role
		}
	}
	return ""
}

func TestUserTable_ChangeRole_PatchesRowWithoutRefetch(t *testing.T) {
	dir := directory(
		domain.Identity{Username: "root", Role: domain.RoleAdmin},
		domain.Identity{Username: "alice", Role: domain.RoleViewer},
		domain.Identity{Username: "bob", Role: domain.RoleViewer},
	)
	table := NewUserTable(dir, discardLogger)
	if err := table.Load(context.Background(), "tok"); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := table.ChangeRole(context.Background(), "tok", "alice", domain.RoleEditor); err != nil {
		t.Fatalf("change role: %v", err)
	}

	rows := table.Rows()
	if got := roleOf(rows, "alice"); got != domain.RoleEditor {
		t.Fatalf("expected alice to be editor, got %q", got)
	}
	if got := roleOf(rows, "bob"); got != domain.RoleViewer {
		t.Fatalf("other rows must be untouched, bob is %q", got)
	}
	if dir.listCalls != 1 {
		t.Fatalf("expected a single listing, got %d", dir.listCalls)
	}
}

func TestUserTable_ChangeRole_FailureLeavesRow(t *testing.T) {
	dir := directory(domain.Identity{Username: "alice", Role: domain.RoleViewer})
	dir.updateFn = func(context.Context, string, string, domain.Role) (*domain.Identity, error) {
		return nil, &domain.APIError{Status: http.StatusBadRequest, Detail: "Cannot demote last admin"}
	}
	table := NewUserTable(dir, discardLogger)
	_ = table.Load(context.Background(), "tok")

	err := table.ChangeRole(context.Background(), "tok", "alice", domain.RoleEditor)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := roleOf(table.Rows(), "alice"); got != domain.RoleViewer {
		t.Fatalf("row must be unchanged, got %q", got)
	}
	if msg := RoleChangeFailureMessage(err); msg != "Cannot demote last admin" {
		t.Fatalf("expected server detail, got %q", msg)
	}
	if msg := RoleChangeFailureMessage(errors.New("boom")); msg != domain.MsgUpdateRoleFailed {
		t.Fatalf("expected generic message, got %q", msg)
	}
}

func TestUserTable_ChangeRole_InvalidRole(t *testing.T) {
	dir := directory(domain.Identity{Username: "alice", Role: domain.RoleViewer})
	dir.updateFn = func(context.Context, string, string, domain.Role) (*domain.Identity, error) {
		t.Fatal("invalid role must not reach the API")
		return nil, nil
	}
	table := NewUserTable(dir, discardLogger)

	if err := table.ChangeRole(context.Background(), "tok", "alice", "superuser"); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserTable_LoadFailureKeepsRows(t *testing.T) {
	dir := directory(domain.Identity{Username: "alice", Role: domain.RoleViewer})
	table := NewUserTable(dir, discardLogger)
	_ = table.Load(context.Background(), "tok")

	dir.listFn = func(context.Context, string) ([]domain.Identity, error) {
		return nil, domain.ErrTransport
	}
	if err := table.Load(context.Background(), "tok"); err == nil {
		t.Fatal("expected error")
	}
	if len(table.Rows()) != 1 || !table.Loaded() {
		t.Fatal("previous rows should survive a failed reload")
	}
}

func TestUserRow_Editable(t *testing.T) {
	if (UserRow{Identity: domain.Identity{Role: domain.RoleAdmin}}).Editable() {
		t.Fatal("admin rows must be locked")
	}
	if !(UserRow{Identity: domain.Identity{Role: domain.RoleViewer}}).Editable() {
		t.Fatal("viewer rows must be editable")
	}
}

func TestUserTables_PerBrowserAndExpiry(t *testing.T) {
	ts := NewUserTables(directory(), time.Minute, discardLogger)
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	ts.now = func() time.Time { return now }

	a := ts.For("a")
	if ts.For("a") != a {
		t.Fatal("same browser must get the same table")
	}
	if ts.For("b") == a {
		t.Fatal("browsers must not share tables")
	}

	now = now.Add(2 * time.Minute)
	if ts.For("a") == a {
		t.Fatal("idle table should have been dropped")
	}

	ts.Forget("a")
	if _, ok := ts.entries["a"]; ok {
		t.Fatal("forget should drop the table")
	}
}
