package store

import (
	"context"
	"fmt"
	"time"

	"pulsechat/internal/model"
	"pulsechat/internal/repository"
)

// DatabaseStore is the relational engine behind the MessageStore contract.
// Id assignment is delegated to the engine's auto-increment column; each
// append is a single statement, so no explicit transaction is needed.
type DatabaseStore struct {
	messages  *repository.MessageRepository
	retention time.Duration
}

func NewDatabaseStore(messages *repository.MessageRepository, retention time.Duration) *DatabaseStore {
	return &DatabaseStore{
		messages:  messages,
		retention: retention,
	}
}

func (s *DatabaseStore) Append(ctx context.Context, username, text string) (model.Message, error) {
	if err := validateMessage(username, text); err != nil {
		return model.Message{}, err
	}

	message := &model.Message{
		Username:  username,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return model.Message{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return *message, nil
}

func (s *DatabaseStore) List(ctx context.Context, sinceID uint) ([]model.Message, error) {
	var notBefore time.Time
	if s.retention > 0 {
		notBefore = time.Now().UTC().Add(-s.retention)
	}

	messages, err := s.messages.ListSinceID(ctx, sinceID, notBefore)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return messages, nil
}
