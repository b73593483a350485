package handler

import (
	"strings"
	"testing"
)

func TestValidator_UsesFormNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&registerForm{Username: "alice", Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"email must be a valid email", "password is required"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}

	if err := v.Validate(&loginForm{Username: "alice", Password: "pw"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
