package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/classdesk/classdesk-be/internal/models"
)

// MemoryStore is an in-process session store. Sessions do not survive a
// restart and are not shared across instances; use SQLiteStore when running
// more than one replica.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

// Create makes a new session for the given profile snapshot.
func (s *MemoryStore) Create(user models.PublicUser) (Session, error) {
	sess := Session{
		ID:        uuid.New().String(),
		User:      user,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess, nil
}

// Get returns a copy of the session for an ID.
func (s *MemoryStore) Get(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	return sess, ok
}

// Destroy removes the session; absent IDs are a no-op.
func (s *MemoryStore) Destroy(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
