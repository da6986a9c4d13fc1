package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreAppendAndHistory(t *testing.T) {
	store := NewMemoryStore()
	stamp := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return stamp }

	ctx := context.Background()
	if err := store.Append(ctx, "s1", Message{Text: "question", FromUser: true}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Append(ctx, "s1", Message{Text: "answer", FromUser: false}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Append(ctx, "s2", Message{Text: "other", FromUser: true}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	history, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d", len(history))
	}
	if history[0].Text != "question" || !history[0].FromUser {
		t.Fatalf("first message = %+v", history[0])
	}
	if !history[0].CreatedAt.Equal(stamp) {
		t.Fatalf("CreatedAt = %v", history[0].CreatedAt)
	}
}

func TestMemoryStoreUnknownSessionIsEmpty(t *testing.T) {
	store := NewMemoryStore()
	history, err := store.History(context.Background(), "missing")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("history length = %d", len(history))
	}
}

func TestMemoryStoreHistoryReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_ = store.Append(ctx, "s1", Message{Text: "original", FromUser: true})

	history, _ := store.History(ctx, "s1")
	history[0].Text = "mutated"

	again, _ := store.History(ctx, "s1")
	if again[0].Text != "original" {
		t.Fatalf("stored message mutated: %+v", again[0])
	}
}
