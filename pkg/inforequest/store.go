package inforequest

import (
	"errors"
	"fmt"
	"time"

	"github.com/bluele/gcache"
)

// Store keeps open sessions in an LRU cache; sessions expire after ttl.
// The underlying gcache is thread-safe, no need of locks.
type Store struct {
	cache gcache.Cache
}

// NewStore creates a store holding at most capacity sessions.
func NewStore(capacity int, ttl time.Duration) *Store {
	return &Store{
		cache: gcache.New(capacity).LRU().Expiration(ttl).Build(),
	}
}

// Put adds session to the store.
func (s *Store) Put(session *Session) error {
	if err := s.cache.Set(session.ID(), session); err != nil {
		return fmt.Errorf("inforequest: store session: %w", err)
	}

	return nil
}

// Get returns the session with id.
func (s *Store) Get(id string) (*Session, error) {
	v, err := s.cache.Get(id)
	if err != nil {
		if errors.Is(err, gcache.KeyNotFoundError) {
			return nil, ErrSessionNotFound
		}

		return nil, fmt.Errorf("inforequest: get session: %w", err)
	}

	session, ok := v.(*Session)
	if !ok {
		return nil, fmt.Errorf("inforequest: invalid session object for %s", id)
	}

	return session, nil
}

// Remove destroys the session with id and reports whether it existed.
func (s *Store) Remove(id string) bool {
	return s.cache.Remove(id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.Len(true)
}
