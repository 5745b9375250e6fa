package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nightsky-edu/astrolearn/backend/internal/model/chat"
)

// EventType 状态存储推送给订阅方的事件类型。
type EventType string

const (
	EventTurn       EventType = "turn"
	EventProcessing EventType = "processing"
	EventError      EventType = "error"
	EventCleared    EventType = "cleared"
)

// Event 描述一次状态变更，供 UI 绑定层消费。
type Event struct {
	Type       EventType  `json:"type"`
	Turn       *chat.Turn `json:"turn,omitempty"`
	Processing bool       `json:"processing"`
	Error      string     `json:"error,omitempty"`
}

// Store is the single source of truth for the active conversation: an
// append-only turn log plus the in-flight processing and last-error flags.
// It performs no I/O; all state is in memory.
type Store struct {
	mu          sync.RWMutex
	session     *chat.Session
	turns       []chat.Turn
	processing  bool
	lastError   string
	subscribers map[chan Event]struct{}
}

// NewStore bootstraps an empty conversation store.
func NewStore() *Store {
	return &Store{subscribers: make(map[chan Event]struct{})}
}

// Append adds a turn to the end of the log, seeding a session on first use.
// The stored turn (with id and timestamp assigned) is returned. Existing
// turns are never touched.
func (s *Store) Append(turn chat.Turn) chat.Turn {
	s.mu.Lock()

	now := time.Now().UTC()
	if s.session == nil {
		s.session = &chat.Session{
			ID:        uuid.NewString(),
			Status:    chat.StatusActive,
			StartedAt: now,
		}
	}

	turn.ID = uuid.NewString()
	turn.SessionID = s.session.ID
	for i := range turn.Attachments {
		if turn.Attachments[i].ID == "" {
			turn.Attachments[i].ID = uuid.NewString()
		}
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = now
	}
	s.session.LastActivityAt = now
	s.turns = append(s.turns, turn)

	s.mu.Unlock()

	s.notify(Event{Type: EventTurn, Turn: &turn, Processing: s.Processing()})
	return turn
}

// Clear resets to an empty session. Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	s.session = nil
	s.turns = nil
	s.processing = false
	s.lastError = ""
	s.mu.Unlock()

	s.notify(Event{Type: EventCleared})
}

// SetProcessing flips the in-flight flag read by the UI layer.
func (s *Store) SetProcessing(processing bool) {
	s.mu.Lock()
	s.processing = processing
	s.mu.Unlock()

	s.notify(Event{Type: EventProcessing, Processing: processing})
}

// SetError records the last user-facing error; empty clears it.
func (s *Store) SetError(message string) {
	s.mu.Lock()
	s.lastError = message
	s.mu.Unlock()

	if message != "" {
		s.notify(Event{Type: EventError, Error: message})
	}
}

// SetStatus applies a caller-driven session status transition.
func (s *Store) SetStatus(status chat.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.Status = status
	}
}

func (s *Store) Processing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processing
}

func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Session returns a copy of the active session; ok is false before the
// first turn has been appended.
func (s *Store) Session() (chat.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return chat.Session{}, false
	}
	return *s.session, true
}

// Turns returns a copy of the turn log in append order.
func (s *Store) Turns() []chat.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]chat.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Subscribe registers an event listener; the returned func unsubscribes.
// Slow consumers drop events rather than blocking state mutation.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store) notify(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}
