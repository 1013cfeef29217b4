// Package session implements the process-scoped session store.
//
// A session is a time-bounded proof of authentication: the authenticated
// user id, an opaque random token and an expiry deadline. The store holds at
// most one session and treats an expired session as absent, clearing it
// proactively on the next read.
//
// State machine: Unauthenticated → (Create) → Authenticated → (expiry elapsed
// OR Clear) → Unauthenticated. Refresh does not change state, it only
// extends the deadline.
package session

import (
	"sync"
	"time"

	"github.com/smolnikov/readhub/internal/common"
)

// TTL is the session lifetime granted by Create and Refresh.
const TTL = 24 * time.Hour

// Session is a time-bounded proof of authentication held client-side.
type Session struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the session deadline has passed at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Store holds the current session. Safe for concurrent reads and writes,
// though the facade issues one mutation at a time.
type Store struct {
	mu      sync.Mutex
	current *Session
	now     func() time.Time
}

// NewStore returns an empty session store using the real clock.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// NewStoreWithClock returns a store with an injected clock. Used in tests to
// probe expiry boundaries.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

// Create starts a new session for userID with a fresh random token and an
// expiry of now + TTL, replacing any previous session.
func (s *Store) Create(userID string) (*Session, error) {
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = &Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: s.now().Add(TTL),
	}
	return s.snapshotLocked(), nil
}

// Read returns the current session, or nil if there is none. A session past
// its expiry is treated as absent and cleared before returning.
func (s *Store) Read() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	if s.current.Expired(s.now()) {
		s.current = nil
		return nil
	}
	return s.snapshotLocked()
}

// Refresh extends the current session's deadline to now + TTL and returns the
// updated session. Refreshing without a live session returns nil.
func (s *Store) Refresh() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.Expired(s.now()) {
		s.current = nil
		return nil
	}
	s.current.ExpiresAt = s.now().Add(TTL)
	return s.snapshotLocked()
}

// Clear removes the session, returning the store to the unauthenticated state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// snapshotLocked returns a copy so callers cannot mutate the stored session.
// Caller must hold s.mu.
func (s *Store) snapshotLocked() *Session {
	c := *s.current
	return &c
}
