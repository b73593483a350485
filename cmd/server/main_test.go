package main

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestRun_ReturnsWhenPortIsTaken(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	_, port, _ := net.SplitHostPort(ln.Addr().String())

	t.Setenv("PORT", port)
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ENV", "development")

	done := make(chan error, 1)
	go func() { done <- run(context.Background()) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected a listen error for a busy port")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return after failing to bind port %s", port)
	}
}
