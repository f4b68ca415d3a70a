package receipt

import (
	"fmt"
	"sync"

	"github.com/zombor/receipt-splitter/internal/splitting"
)

// MemoryStore implements SessionStore in process memory. Sessions are lost
// on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]splitting.Session
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]splitting.Session)}
}

// SaveSession stores a session under its ID
func (m *MemoryStore) SaveSession(session splitting.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

// GetSession retrieves a session by ID
func (m *MemoryStore) GetSession(id string) (splitting.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return splitting.Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// ListSessions returns the sessions ordered by creation time
func (m *MemoryStore) ListSessions() ([]splitting.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sessions := make([]splitting.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	sortByCreation(sessions)
	return sessions, nil
}

// DeleteSession removes a session by ID
func (m *MemoryStore) DeleteSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}
