package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"pulsechat/internal/model"
)

func TestMemoryStore_AppendAssignsIncreasingIDs(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	inputs := []struct {
		username string
		text     string
	}{
		{"alice", "hello"},
		{"bob", "hi alice"},
		{"alice", "how are you?"},
	}

	for i, input := range inputs {
		msg, err := s.Append(ctx, input.username, input.text)
		if err != nil {
			t.Fatalf("Append(%q, %q) failed: %v", input.username, input.text, err)
		}
		if msg.ID != uint(i+1) {
			t.Errorf("message %d got id %d, want %d", i, msg.ID, i+1)
		}
		if msg.Timestamp.IsZero() {
			t.Errorf("message %d has zero timestamp", i)
		}
	}

	messages, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List(0) failed: %v", err)
	}
	if len(messages) != len(inputs) {
		t.Fatalf("List(0) returned %d messages, want %d", len(messages), len(inputs))
	}
	for i, msg := range messages {
		if msg.Username != inputs[i].username || msg.Text != inputs[i].text {
			t.Errorf("message %d = %q/%q, want %q/%q", i, msg.Username, msg.Text, inputs[i].username, inputs[i].text)
		}
		if i > 0 && messages[i].ID <= messages[i-1].ID {
			t.Errorf("ids not strictly increasing at %d: %d then %d", i, messages[i-1].ID, messages[i].ID)
		}
		if i > 0 && messages[i].Timestamp.Before(messages[i-1].Timestamp) {
			t.Errorf("timestamps decrease at %d", i)
		}
	}
}

func TestMemoryStore_AppendValidation(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		text      string
		wantField string
		wantMsg   string
	}{
		{
			name:      "username below minimum",
			username:  "a",
			text:      "hello",
			wantField: "username",
			wantMsg:   "Username must be at least 2 characters long",
		},
		{
			name:      "username above maximum",
			username:  strings.Repeat("x", 51),
			text:      "hello",
			wantField: "username",
			wantMsg:   "Username must be no longer than 50 characters",
		},
		{
			name:      "empty text",
			username:  "bob",
			text:      "",
			wantField: "text",
			wantMsg:   "Message text cannot be empty",
		},
		{
			name:      "text above maximum",
			username:  "bob",
			text:      strings.Repeat("x", 501),
			wantField: "text",
			wantMsg:   "Message text must be no longer than 500 characters",
		},
		{
			name:      "username checked before text",
			username:  "a",
			text:      "",
			wantField: "username",
			wantMsg:   "Username must be at least 2 characters long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemoryStore(0)
			ctx := context.Background()

			_, err := s.Append(ctx, tt.username, tt.text)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Append() error = %v, want *ValidationError", err)
			}
			if validationErr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", validationErr.Field, tt.wantField)
			}
			if validationErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", validationErr.Message, tt.wantMsg)
			}

			// Invalid input never mutates the log.
			messages, listErr := s.List(ctx, 0)
			if listErr != nil {
				t.Fatalf("List(0) failed: %v", listErr)
			}
			if len(messages) != 0 {
				t.Errorf("log has %d messages after failed append, want 0", len(messages))
			}
		})
	}
}

func TestMemoryStore_AppendBoundaryLengths(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		text     string
	}{
		{"minimum lengths", "ab", "x"},
		{"maximum lengths", strings.Repeat("u", 50), strings.Repeat("t", 500)},
		{"multibyte runes count as characters", strings.Repeat("ю", 50), strings.Repeat("щ", 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Append(ctx, tt.username, tt.text); err != nil {
				t.Errorf("Append() failed: %v", err)
			}
		})
	}
}

func TestMemoryStore_ListSinceID(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		if _, err := s.Append(ctx, "alice", text); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	t.Run("since 1 returns 2 and 3", func(t *testing.T) {
		messages, err := s.List(ctx, 1)
		if err != nil {
			t.Fatalf("List(1) failed: %v", err)
		}
		if len(messages) != 2 || messages[0].ID != 2 || messages[1].ID != 3 {
			t.Errorf("List(1) = %v, want ids [2 3]", messageIDs(messages))
		}
	})

	t.Run("since highest id is empty", func(t *testing.T) {
		messages, err := s.List(ctx, 3)
		if err != nil {
			t.Fatalf("List(3) failed: %v", err)
		}
		if len(messages) != 0 {
			t.Errorf("List(3) = %v, want empty", messageIDs(messages))
		}
	})

	t.Run("since beyond highest id is empty", func(t *testing.T) {
		messages, err := s.List(ctx, 99)
		if err != nil {
			t.Fatalf("List(99) failed: %v", err)
		}
		if len(messages) != 0 {
			t.Errorf("List(99) = %v, want empty", messageIDs(messages))
		}
	})
}

func TestMemoryStore_ListSnapshotIsolation(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	if _, err := s.Append(ctx, "alice", "first"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	snapshot, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List(0) failed: %v", err)
	}

	if _, err := s.Append(ctx, "bob", "second"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if len(snapshot) != 1 {
		t.Errorf("earlier snapshot grew to %d messages", len(snapshot))
	}
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()
	const n = 100

	var wg sync.WaitGroup
	ids := make(chan uint, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg, err := s.Append(ctx, "alice", "hello")
			if err != nil {
				t.Errorf("concurrent Append failed: %v", err)
				return
			}
			ids <- msg.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %d", id)
		}
		seen[id] = true
	}
	// Distinct and gap-free: every id in 1..n assigned exactly once.
	for id := uint(1); id <= n; id++ {
		if !seen[id] {
			t.Errorf("id %d never assigned", id)
		}
	}
}

func TestMemoryStore_RetentionWindow(t *testing.T) {
	s := NewMemoryStore(3 * 24 * time.Hour)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	current := base
	s.now = func() time.Time { return current }

	if _, err := s.Append(ctx, "alice", "old"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	current = base.Add(4 * 24 * time.Hour)
	if _, err := s.Append(ctx, "alice", "recent"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	messages, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List(0) failed: %v", err)
	}
	if len(messages) != 1 || messages[0].Text != "recent" {
		t.Errorf("List(0) with retention = %v, want only the recent message", messageIDs(messages))
	}

	// Retention filters by timestamp without disturbing sinceID semantics.
	messages, err = s.List(ctx, 1)
	if err != nil {
		t.Fatalf("List(1) failed: %v", err)
	}
	if len(messages) != 1 || messages[0].ID != 2 {
		t.Errorf("List(1) with retention = %v, want id [2]", messageIDs(messages))
	}
}

func messageIDs(messages []model.Message) []uint {
	ids := make([]uint, len(messages))
	for i, m := range messages {
		ids[i] = m.ID
	}
	return ids
}
