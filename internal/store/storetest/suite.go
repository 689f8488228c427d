package storetest

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prepwise/prepwise/server/internal/model"
	"github.com/prepwise/prepwise/server/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store
// implementation. makeStore must return a clean, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	key := "meeting-" + uuid.New().String()
	payload := []byte(`{"targetMeeting":{"id":"m1"}}`)

	// Miss on absent key
	if got, err := s.Discovery().Get(ctx, key); err != nil || got != nil {
		t.Fatalf("Get absent: got=%v err=%v", got, err)
	}

	// Put then hit
	if err := s.Discovery().Put(ctx, key, payload, 30); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Discovery().Get(ctx, key)
	if err != nil || got == nil {
		t.Fatalf("Get after Put: got=%v err=%v", got, err)
	}
	if !bytes.Equal(got.Payload, payload) {
		t.Fatalf("Get payload mismatch: %s", got.Payload)
	}
	if got.TTLMinutes != 30 {
		t.Fatalf("Get ttl: %d", got.TTLMinutes)
	}

	// Overwrite is last-write-wins
	payload2 := []byte(`{"targetMeeting":{"id":"m1"},"v":2}`)
	if err := s.Discovery().Put(ctx, key, payload2, 10); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	if got, err = s.Discovery().Get(ctx, key); err != nil || got == nil || !bytes.Equal(got.Payload, payload2) {
		t.Fatalf("Get after overwrite: got=%v err=%v", got, err)
	}

	// Clear removes everything
	if err := s.Discovery().Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got, err = s.Discovery().Get(ctx, key); err != nil || got != nil {
		t.Fatalf("Get after Clear: got=%v err=%v", got, err)
	}

	// Artifacts: miss, upsert, re-upsert wins
	itemID := "msg-" + uuid.New().String()
	if a, err := s.Artifacts().Get(ctx, itemID); err != nil || a != nil {
		t.Fatalf("Artifacts.Get absent: got=%v err=%v", a, err)
	}
	art := &model.PreparationArtifact{
		ItemID:      itemID,
		SourceKind:  model.SourceEmail,
		Summary:     "first summary",
		Model:       "test-model",
		GeneratedAt: time.Now().UTC(),
	}
	if err := s.Artifacts().Upsert(ctx, art); err != nil {
		t.Fatalf("Artifacts.Upsert: %v", err)
	}
	art.Summary = "regenerated summary"
	if err := s.Artifacts().Upsert(ctx, art); err != nil {
		t.Fatalf("Artifacts.Upsert overwrite: %v", err)
	}
	a, err := s.Artifacts().Get(ctx, itemID)
	if err != nil || a == nil {
		t.Fatalf("Artifacts.Get: got=%v err=%v", a, err)
	}
	if a.Summary != "regenerated summary" {
		t.Fatalf("Artifacts latest write must win, got %q", a.Summary)
	}
	if err := s.Artifacts().Clear(ctx); err != nil {
		t.Fatalf("Artifacts.Clear: %v", err)
	}
	if a, err = s.Artifacts().Get(ctx, itemID); err != nil || a != nil {
		t.Fatalf("Artifacts.Get after Clear: got=%v err=%v", a, err)
	}
}
