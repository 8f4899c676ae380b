package spool

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "spool.db"), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEnqueueGetBatchRemove(t *testing.T) {
	store := openStore(t)

	base := time.Now().Add(-time.Minute)
	for i := 0; i < 3; i++ {
		err := store.Enqueue(Entry{
			TaskID:    "task-1",
			Payload:   json.RawMessage(`{"type":"created"}`),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}

	size, err := store.Size()
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if size != 3 {
		t.Fatalf("expected 3 entries, got %d", size)
	}

	batch, err := store.GetBatch(10)
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	if len(batch) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(batch))
	}
	// Timestamp-ordered keys mean oldest first.
	for i := 1; i < len(batch); i++ {
		if batch[i].Timestamp.Before(batch[i-1].Timestamp) {
			t.Fatalf("batch out of order at %d", i)
		}
	}

	if err := store.Remove(batch[0]); err != nil {
		t.Fatalf("remove: %v", err)
	}
	size, _ = store.Size()
	if size != 2 {
		t.Fatalf("expected 2 entries after remove, got %d", size)
	}
}

func TestGetBatch_HonorsLimit(t *testing.T) {
	store := openStore(t)
	for i := 0; i < 5; i++ {
		if err := store.Enqueue(Entry{TaskID: "task-1", Payload: json.RawMessage(`{}`)}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	batch, err := store.GetBatch(2)
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(batch))
	}
}

func TestRequeue_BumpsTimestampKeepsPayload(t *testing.T) {
	store := openStore(t)

	old := Entry{
		TaskID:    "task-9",
		Payload:   json.RawMessage(`{"type":"comment"}`),
		Retries:   1,
		Timestamp: time.Now().Add(-time.Hour),
	}
	if err := store.Enqueue(old); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	batch, _ := store.GetBatch(1)
	if err := store.Remove(batch[0]); err != nil {
		t.Fatalf("remove: %v", err)
	}
	batch[0].Retries++
	if err := store.Requeue(batch[0]); err != nil {
		t.Fatalf("requeue: %v", err)
	}

	again, _ := store.GetBatch(1)
	if len(again) != 1 {
		t.Fatalf("expected requeued entry")
	}
	if again[0].Retries != 2 {
		t.Fatalf("expected retries 2, got %d", again[0].Retries)
	}
	if !again[0].Timestamp.After(old.Timestamp) {
		t.Fatalf("requeue should bump the timestamp")
	}
	if string(again[0].Payload) != `{"type":"comment"}` {
		t.Fatalf("payload changed: %s", again[0].Payload)
	}
}

func TestCleanup_DropsExpiredOnly(t *testing.T) {
	store := openStore(t)

	if err := store.Enqueue(Entry{TaskID: "t", Timestamp: time.Now().Add(-48 * time.Hour)}); err != nil {
		t.Fatalf("enqueue old: %v", err)
	}
	if err := store.Enqueue(Entry{TaskID: "t", Timestamp: time.Now()}); err != nil {
		t.Fatalf("enqueue fresh: %v", err)
	}

	if err := store.Cleanup(time.Now().Add(-24 * time.Hour)); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	size, _ := store.Size()
	if size != 1 {
		t.Fatalf("expected 1 surviving entry, got %d", size)
	}
}
