package store

import (
	"context"
	"errors"

	"pulsechat/internal/model"
)

// MessageStore is the authoritative append-only message log. The in-memory
// and database engines both implement it; callers cannot tell them apart.
type MessageStore interface {
	// Append validates username and text, assigns the next id and the current
	// instant, and stores the message. Validation is fail-fast: username is
	// checked before text, and the first violated rule is returned as a
	// *ValidationError. Invalid input never mutates the log.
	Append(ctx context.Context, username, text string) (model.Message, error)

	// List returns all messages with id > sinceID in ascending id order.
	// sinceID == 0 returns the full log. List never mutates store state and is
	// safe to call concurrently with Append.
	List(ctx context.Context, sinceID uint) ([]model.Message, error)
}

// ErrStoreUnavailable marks backend faults (engine unreachable, statement
// failed) as distinct from validation errors. The store never retries them.
var ErrStoreUnavailable = errors.New("message store unavailable")

// ValidationError reports the first violated content rule of an append.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
