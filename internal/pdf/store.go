package pdf

import "sync"

// Store keeps the latest rendered quote document per session in memory.
// Each new quote for a session replaces the previous document.
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewStore() *Store {
	return &Store{docs: make(map[string][]byte)}
}

// Put stores the document for a session, replacing any existing one.
func (s *Store) Put(sessionID string, doc []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[sessionID] = doc
}

// Get returns the document for a session, if one has been generated.
func (s *Store) Get(sessionID string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[sessionID]
	return doc, ok
}

// Delete removes the document for a session.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, sessionID)
}
