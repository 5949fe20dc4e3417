package app

import (
	"context"
	"errors"
	"log"

	"pulsechat/internal/model"
	"pulsechat/internal/store"
)

var ErrUnknownUser = errors.New("unknown user")

// EventPublisher emits created-message events for downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

// FeedCache caches the bootstrap feed snapshot.
type FeedCache interface {
	GetFeed(ctx context.Context) ([]model.Message, bool, error)
	SetFeed(ctx context.Context, messages []model.Message) error
	Invalidate(ctx context.Context) error
	MarkDirty(ctx context.Context) error
	IsDirty(ctx context.Context) (bool, error)
}

// ChatService fronts the message log and the user registry. The cache and
// publisher collaborators are optional; nil disables that concern.
type ChatService struct {
	store     store.MessageStore
	users     store.UserRegistry
	feedCache FeedCache
	publisher EventPublisher
}

type PostMessageInput struct {
	Username string
	UserID   uint
	Text     string
}

func NewChatService(
	messageStore store.MessageStore,
	users store.UserRegistry,
	feedCache FeedCache,
	publisher EventPublisher,
) *ChatService {
	return &ChatService{
		store:     messageStore,
		users:     users,
		feedCache: feedCache,
		publisher: publisher,
	}
}

// PostMessage appends one message to the log. The author is either free text
// in Username or, when UserID is set, a registered user resolved through the
// registry; an unknown UserID is ErrUnknownUser.
func (s *ChatService) PostMessage(ctx context.Context, input PostMessageInput) (model.Message, error) {
	username := input.Username
	if input.UserID != 0 {
		user, err := s.users.GetByID(ctx, input.UserID)
		if err != nil {
			return model.Message{}, err
		}
		if user == nil {
			return model.Message{}, ErrUnknownUser
		}
		username = user.Username
	}

	if s.feedCache != nil {
		_ = s.feedCache.MarkDirty(ctx)
		_ = s.feedCache.Invalidate(ctx)
	}

	message, err := s.store.Append(ctx, username, input.Text)
	if err != nil {
		return model.Message{}, err
	}

	// The log is authoritative; the archive stream is a downstream copy, so a
	// broker fault does not fail the append.
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, message); err != nil {
			log.Printf("publish created-message event failed: %v", err)
		}
	}

	return message, nil
}

// ListMessages returns messages with id > sinceID in ascending id order. The
// bootstrap read (sinceID == 0) is served from the feed cache when fresh.
func (s *ChatService) ListMessages(ctx context.Context, sinceID uint) ([]model.Message, error) {
	if sinceID == 0 && s.feedCache != nil {
		dirty, err := s.feedCache.IsDirty(ctx)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.feedCache.GetFeed(ctx); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	messages, err := s.store.List(ctx, sinceID)
	if err != nil {
		return nil, err
	}

	if sinceID == 0 && s.feedCache != nil {
		if dirty, dirtyErr := s.feedCache.IsDirty(ctx); dirtyErr == nil && !dirty {
			_ = s.feedCache.SetFeed(ctx, messages)
		}
	}
	return messages, nil
}

// RegisterUser registers a username, idempotently: an already registered
// username returns the existing user.
func (s *ChatService) RegisterUser(ctx context.Context, username string) (*model.User, error) {
	if err := store.ValidateUsername(username); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	user := &model.User{Username: username}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can win the unique-index race; resolve to
		// the row that got in.
		if winner, lookupErr := s.users.GetByUsername(ctx, username); lookupErr == nil && winner != nil {
			return winner, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *ChatService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}
