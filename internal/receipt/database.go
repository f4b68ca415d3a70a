package receipt

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/zombor/receipt-splitter/internal/splitting"
)

const sessionBucketName = "sessions"

// SessionStore persists sessions
type SessionStore interface {
	// SaveSession inserts or replaces a session
	SaveSession(session splitting.Session) error

	// GetSession retrieves a session by ID, returning ErrSessionNotFound if absent
	GetSession(id string) (splitting.Session, error)

	// ListSessions returns all sessions, oldest first
	ListSessions() ([]splitting.Session, error)

	// DeleteSession removes a session; deleting an absent session is not an error
	DeleteSession(id string) error

	// Close releases the store
	Close() error
}

// BoltStore implements SessionStore using BoltDB with JSON encoded values
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens or creates the database file at path
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// SaveSession stores a session under its ID
func (b *BoltStore) SaveSession(session splitting.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucketName)).Put([]byte(session.ID), data)
	})
}

// GetSession retrieves a session by ID
func (b *BoltStore) GetSession(id string) (splitting.Session, error) {
	var session splitting.Session
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(sessionBucketName)).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		if err := json.Unmarshal(data, &session); err != nil {
			return fmt.Errorf("unmarshaling session: %w", err)
		}
		return nil
	})
	if err != nil {
		return splitting.Session{}, err
	}
	return session, nil
}

// ListSessions returns all sessions ordered by creation time
func (b *BoltStore) ListSessions() ([]splitting.Session, error) {
	sessions := make([]splitting.Session, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucketName)).ForEach(func(k, v []byte) error {
			var session splitting.Session
			if err := json.Unmarshal(v, &session); err != nil {
				return fmt.Errorf("unmarshaling session %s: %w", k, err)
			}
			sessions = append(sessions, session)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortByCreation(sessions)
	return sessions, nil
}

// sortByCreation orders sessions oldest first, breaking ties by ID
func sortByCreation(sessions []splitting.Session) {
	slices.SortFunc(sessions, func(a, b splitting.Session) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// DeleteSession removes a session by ID
func (b *BoltStore) DeleteSession(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucketName)).Delete([]byte(id))
	})
}

// Close closes the database connection
func (b *BoltStore) Close() error {
	return b.db.Close()
}
