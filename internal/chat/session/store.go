// Package session holds per-conversation state for the quoting dialogue.
package session

import (
	"sync"
	"time"

	"orcamento_backend/internal/catalog/repository"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// State identifies where a conversation is in the quoting dialogue.
type State string

const (
	StateStart             State = "START"
	StateAwaitingSelection State = "AWAITING_SELECTION"
	StateProductSelected   State = "PRODUCT_SELECTED"
	StateAwaitingDimension State = "AWAITING_DIMENSION"
	StateFinalized         State = "FINALIZED"
)

// Session is the mutable conversation state for one session id. Callers
// must hold the session's lock for the duration of a turn so concurrent
// messages on the same session serialize.
type Session struct {
	mu sync.Mutex

	State      State
	Candidates []repository.Entry
	Selected   *repository.Entry
	Quantity   int
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Reset returns the session to its initial state. The caller must hold
// the session lock.
func (s *Session) Reset() {
	s.State = StateStart
	s.Candidates = nil
	s.Selected = nil
	s.Quantity = 1
}

// Store is a bounded, expiring session registry. Idle sessions are
// evicted after the configured TTL or when the entry cap is exceeded.
type Store struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *Session]
}

func NewStore(maxEntries int, ttl time.Duration) *Store {
	return &Store{
		cache: expirable.NewLRU[string, *Session](maxEntries, nil, ttl),
	}
}

// Get returns the session for id, creating a fresh one if none exists
// or the previous one expired.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.cache.Get(id); ok {
		return sess
	}
	sess := &Session{State: StateStart, Quantity: 1}
	s.cache.Add(id, sess)
	return sess
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}
