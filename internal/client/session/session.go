// Package session holds the client's authenticated session: the bearer token
// and cached user record, kept in memory and mirrored through a durability
// adapter so a restart recovers the same session.
package session

import (
	"sync"

	"github.com/rafaelmdsouza/vitrine/internal/models"
)

// Session is the pair persisted and cached as one unit. Token and user are
// never written or cleared separately.
type Session struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

// Event describes a session change delivered to subscribers.
type Event int

const (
	// EventLogin fires after a session is stored.
	EventLogin Event = iota
	// EventLogout fires after the session is cleared, including the forced
	// clear on a 401 from the backend.
	EventLogout
)

// Persister is the durability adapter underneath the store.
type Persister interface {
	// Load returns the persisted session, nil when none exists, or an error
	// when the stored data cannot be parsed.
	Load() (*Session, error)
	// Save overwrites the persisted session.
	Save(*Session) error
	// Clear removes the persisted session. Clearing an absent session is not
	// an error.
	Clear() error
}

// Store is the single authoritative session holder. Mutations write through
// the persister first, then update memory, then notify subscribers, so the
// durable and in-memory copies never diverge.
type Store struct {
	mu        sync.Mutex
	current   *Session
	persister Persister
	subs      map[int]func(Event)
	nextSub   int
}

// NewStore builds a Store recovered from the persister. A corrupt persisted
// session is cleared and reported as an error; the returned Store is still
// usable, starting unauthenticated. A token without a parsable user is never
// surfaced as a half-valid session.
func NewStore(p Persister) (*Store, error) {
	s := &Store{persister: p, subs: make(map[int]func(Event))}
	sess, err := p.Load()
	if err != nil {
		_ = p.Clear()
		return s, err
	}
	s.current = sess
	return s, nil
}

// Get returns the current session and whether one exists.
func (s *Store) Get() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Token returns the current bearer token, or an empty string when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.AccessToken
}

// IsAuthenticated reports whether a token is present. The token is not
// validated locally; it is trusted until the backend rejects it.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Get()
	return ok
}

// Set stores the session durably and in memory, then notifies subscribers.
// The durable write happens first; if it fails, memory is left untouched.
func (s *Store) Set(sess Session) error {
	s.mu.Lock()
	if err := s.persister.Save(&sess); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = &sess
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(EventLogin)
	}
	return nil
}

// Clear removes both copies of the session and emits EventLogout. Clearing an
// already-empty store is a no-op, so concurrent 401 responses produce exactly
// one logout notification.
func (s *Store) Clear() error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return nil
	}
	if err := s.persister.Clear(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = nil
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(EventLogout)
	}
	return nil
}

// Subscribe registers fn for session events and returns its unsubscribe
// function. Callbacks run outside the store lock.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// snapshotSubs copies the subscriber list; callers must hold s.mu.
func (s *Store) snapshotSubs() []func(Event) {
	out := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}
