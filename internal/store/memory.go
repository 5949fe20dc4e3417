package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"pulsechat/internal/model"
)

// MemoryStore keeps the message log in process memory. Appends serialize id
// and timestamp assignment behind a mutex so concurrent appends always get
// distinct, gap-free ids. Ids are never reused for the lifetime of the store.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   uint
	messages []model.Message

	retention time.Duration
	now       func() time.Time
}

// NewMemoryStore creates an empty in-memory log. retention > 0 makes List
// filter out messages older than the window; 0 keeps everything.
func NewMemoryStore(retention time.Duration) *MemoryStore {
	return &MemoryStore{
		retention: retention,
		now:       time.Now,
	}
}

func (s *MemoryStore) Append(ctx context.Context, username, text string) (model.Message, error) {
	if err := validateMessage(username, text); err != nil {
		return model.Message{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	message := model.Message{
		ID:        s.nextID,
		Username:  username,
		Text:      text,
		Timestamp: s.now().UTC(),
	}
	s.messages = append(s.messages, message)
	return message, nil
}

func (s *MemoryStore) List(ctx context.Context, sinceID uint) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ids are assigned in append order, so the slice is sorted by id.
	start := sort.Search(len(s.messages), func(i int) bool {
		return s.messages[i].ID > sinceID
	})

	result := make([]model.Message, 0, len(s.messages)-start)
	var cutoff time.Time
	if s.retention > 0 {
		cutoff = s.now().UTC().Add(-s.retention)
	}
	for _, message := range s.messages[start:] {
		if !cutoff.IsZero() && message.Timestamp.Before(cutoff) {
			continue
		}
		result = append(result, message)
	}
	return result, nil
}
