package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"rainbow-properties/internal/kvstore"
	"rainbow-properties/internal/objstore"
)

type fakeDeleter struct {
	deleted []string
	fail    bool
}

func (f *fakeDeleter) DeleteUser(_ context.Context, id string) error {
	if f.fail {
		return errors.New("delete failed")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func pendingRecords(t *testing.T, store kvstore.Store) []Record {
	t.Helper()
	entries, err := store.GetByPrefix(context.Background(), keyPrefix)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		var rec Record
		if err := json.Unmarshal(e.Value, &rec); err != nil {
			t.Fatalf("decode record: %v", err)
		}
		records = append(records, rec)
	}
	return records
}

func TestSweepRemovesOrphanedBlob(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	blobs := objstore.NewMemoryStore()
	ctx := context.Background()

	if err := blobs.Upload(ctx, "orphan.jpg", strings.NewReader("x"), "image/jpeg"); err != nil {
		t.Fatalf("seed blob: %v", err)
	}
	NewRecorder(kv).Record(ctx, ActionRemoveBlob, "orphan.jpg", "test")

	resolved, err := NewSweeper(kv, blobs, nil).SweepOnce(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if resolved != 1 {
		t.Fatalf("resolved = %d, want 1", resolved)
	}
	if blobs.Has("orphan.jpg") {
		t.Fatal("blob still present after sweep")
	}
	if recs := pendingRecords(t, kv); len(recs) != 0 {
		t.Fatalf("records remain after successful sweep: %v", recs)
	}
}

func TestSweepRemovesDanglingMetadata(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	ctx := context.Background()

	if err := kv.Set(ctx, "image:stale.jpg", map[string]string{"fileName": "stale.jpg"}); err != nil {
		t.Fatalf("seed metadata: %v", err)
	}
	NewRecorder(kv).Record(ctx, ActionRemoveMeta, "image:stale.jpg", "test")

	resolved, err := NewSweeper(kv, nil, nil).SweepOnce(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if resolved != 1 {
		t.Fatalf("resolved = %d, want 1", resolved)
	}
	if _, err := kv.Get(ctx, "image:stale.jpg"); !errors.Is(err, kvstore.ErrNotFound) {
		t.Fatalf("metadata still present: %v", err)
	}
}

func TestSweepRemovesOrphanedAuthUser(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	users := &fakeDeleter{}
	ctx := context.Background()

	NewRecorder(kv).Record(ctx, ActionRemoveAuthUser, "user-42", "test")

	resolved, err := NewSweeper(kv, nil, users).SweepOnce(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if resolved != 1 {
		t.Fatalf("resolved = %d, want 1", resolved)
	}
	if len(users.deleted) != 1 || users.deleted[0] != "user-42" {
		t.Fatalf("deleted = %v", users.deleted)
	}
}

func TestSweepKeepsFailingRecordAndBumpsAttempts(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	users := &fakeDeleter{fail: true}
	ctx := context.Background()

	NewRecorder(kv).Record(ctx, ActionRemoveAuthUser, "user-42", "test")

	sweeper := NewSweeper(kv, nil, users)
	for i := 0; i < 2; i++ {
		resolved, err := sweeper.SweepOnce(ctx)
		if err != nil {
			t.Fatalf("sweep %d: %v", i, err)
		}
		if resolved != 0 {
			t.Fatalf("sweep %d resolved %d, want 0", i, resolved)
		}
	}

	recs := pendingRecords(t, kv)
	if len(recs) != 1 {
		t.Fatalf("expected the record to survive, got %v", recs)
	}
	if recs[0].Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", recs[0].Attempts)
	}

	// Once the backend recovers, the record resolves.
	users.fail = false
	resolved, err := sweeper.SweepOnce(ctx)
	if err != nil {
		t.Fatalf("final sweep: %v", err)
	}
	if resolved != 1 {
		t.Fatalf("final sweep resolved %d, want 1", resolved)
	}
}

func TestSweepDropsUnreadableRecords(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	ctx := context.Background()

	if err := kv.Set(ctx, keyPrefix+"broken", "not a record"); err != nil {
		t.Fatalf("seed broken record: %v", err)
	}

	if _, err := NewSweeper(kv, nil, nil).SweepOnce(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if recs := pendingRecords(t, kv); len(recs) != 0 {
		t.Fatalf("unreadable record not dropped: %v", recs)
	}
}
