package chatfeed

import (
	"context"
	"sync"
	"time"
)

// State is the synchronizer's lifecycle phase.
type State int

const (
	StateBootstrapping State = iota
	StatePolling
	StateSuspended
)

// MenuState models the contextual menu over one message. Polling is
// suspended while a menu is open so a re-render cannot disrupt it.
type MenuState struct {
	open     bool
	targetID uint
}

func MenuClosed() MenuState {
	return MenuState{}
}

func MenuOpen(targetID uint) MenuState {
	return MenuState{open: true, targetID: targetID}
}

func (m MenuState) IsOpen() bool {
	return m.open
}

func (m MenuState) TargetID() uint {
	return m.targetID
}

// Synchronizer keeps a local view of the message log eventually consistent
// with the server through periodic pull. The merge is keyed by message id, so
// fetching the same result twice renders each message at most once, and
// existing entries are never reordered or replaced.
type Synchronizer struct {
	client   *Client
	username string
	interval time.Duration
	onRender func(Message)

	mu     sync.Mutex
	view   []Message
	seen   map[uint]struct{}
	cursor uint
	state  State
	menu   MenuState
	draft  string
}

// NewSynchronizer creates a synchronizer posting as username. onRender is
// called once per newly merged message, in id order; it may be nil. An
// interval <= 0 defaults to 3 seconds, matching the original frontend.
func NewSynchronizer(client *Client, username string, interval time.Duration, onRender func(Message)) *Synchronizer {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Synchronizer{
		client:   client,
		username: username,
		interval: interval,
		onRender: onRender,
		seen:     make(map[uint]struct{}),
	}
}

// RestoreCursor seeds the cursor before Bootstrap, so only newer messages are
// fetched. Zero means "nothing seen".
func (s *Synchronizer) RestoreCursor(lastSeenID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateBootstrapping {
		s.cursor = lastSeenID
	}
}

// Bootstrap fetches everything past the cursor and transitions to Polling.
func (s *Synchronizer) Bootstrap(ctx context.Context) error {
	messages, err := s.client.Messages(ctx, s.Cursor())
	if err != nil {
		return err
	}
	s.merge(messages)

	s.mu.Lock()
	if s.state == StateBootstrapping {
		s.state = StatePolling
	}
	s.mu.Unlock()
	return nil
}

// Run bootstraps and then polls until ctx is cancelled. The next tick is
// armed only after the previous fetch settles, so in-flight requests never
// overlap. Fetch failures are transient: the tick after a failure retries. A
// failed bootstrap leaves the cursor at its seed, so the first successful
// tick completes it.
func (s *Synchronizer) Run(ctx context.Context) error {
	if err := s.Bootstrap(ctx); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.interval):
			if s.State() == StateSuspended {
				continue
			}
			_ = s.Poll(ctx)
		}
	}
}

// Poll performs one incremental fetch-and-merge.
func (s *Synchronizer) Poll(ctx context.Context) error {
	messages, err := s.client.Messages(ctx, s.Cursor())
	if err != nil {
		return err
	}
	s.merge(messages)

	s.mu.Lock()
	if s.state == StateBootstrapping {
		s.state = StatePolling
	}
	s.mu.Unlock()
	return nil
}

// SetDraft stores the compose input.
func (s *Synchronizer) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

// Draft returns the unsent compose input.
func (s *Synchronizer) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Submit posts the current draft. On success the draft is cleared and one
// out-of-cycle fetch runs immediately, so the sender sees their message
// without waiting for the next tick. On failure the draft is kept for a
// manual retry and the rendered view is untouched.
func (s *Synchronizer) Submit(ctx context.Context) error {
	s.mu.Lock()
	draft := s.draft
	s.mu.Unlock()

	if _, err := s.client.PostMessage(ctx, s.username, draft); err != nil {
		return err
	}

	s.mu.Lock()
	s.draft = ""
	s.mu.Unlock()

	return s.Poll(ctx)
}

// SetMenu updates the contextual menu state. An open menu suspends polling;
// closing it resumes.
func (s *Synchronizer) SetMenu(menu MenuState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.menu = menu
	switch {
	case menu.IsOpen() && s.state == StatePolling:
		s.state = StateSuspended
	case !menu.IsOpen() && s.state == StateSuspended:
		s.state = StatePolling
	}
}

func (s *Synchronizer) Menu() MenuState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menu
}

func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cursor returns the highest message id rendered so far.
func (s *Synchronizer) Cursor() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Messages returns a snapshot of the rendered view, in merge order.
func (s *Synchronizer) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := make([]Message, len(s.view))
	copy(view, s.view)
	return view
}

// merge appends unseen messages to the view and advances the cursor. Keying
// on id makes the merge idempotent under at-least-once delivery.
func (s *Synchronizer) merge(messages []Message) {
	var rendered []Message

	s.mu.Lock()
	for _, message := range messages {
		if _, ok := s.seen[message.ID]; ok {
			continue
		}
		s.seen[message.ID] = struct{}{}
		s.view = append(s.view, message)
		if message.ID > s.cursor {
			s.cursor = message.ID
		}
		rendered = append(rendered, message)
	}
	onRender := s.onRender
	s.mu.Unlock()

	if onRender != nil {
		for _, message := range rendered {
			onRender(message)
		}
	}
}
