package redis

import (
	"context"
	"testing"
	"time"
)

func TestConnect_UnreachableServer(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatal("expected connect error for closed port")
	}
}
