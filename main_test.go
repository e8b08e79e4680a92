package main

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/blog-wizard/internal/repository"
	"github.com/debemdeboas/blog-wizard/internal/repository/editor"
	"github.com/debemdeboas/blog-wizard/internal/wizard"
)

func TestSweepSessions(t *testing.T) {
	sessions := editor.NewRegistry(10*time.Millisecond, 0)
	if _, err := sessions.Open(wizard.New(repository.NewPostStore(nil))); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweepSessions(ctx, sessions, 10*time.Millisecond, zerolog.Nop())
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for sessions.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("Expected idle session to be swept")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestSweepSessionsDisabled(t *testing.T) {
	// Returns immediately when sessions never expire.
	sweepSessions(context.Background(), editor.NewRegistry(0, 0), 0, zerolog.Nop())
}
