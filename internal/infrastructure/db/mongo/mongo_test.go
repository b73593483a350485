package mongo

import (
	"context"
	"testing"
	"time"
)

func TestConnect_UnreachableServer(t *testing.T) {
	_, _, err := Connect(context.Background(), Config{
		URI:      "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200",
		Database: "authportal_test",
		Timeout:  500 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected connect error for closed port")
	}
}
