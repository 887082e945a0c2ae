package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the record kept for one authenticated browser session.
type Session struct {
	Email     string
	Role      string
	ExpiresAt time.Time
}

// Store maps opaque session tokens to session records. Records live
// from login until logout or TTL expiry; expired records are dropped
// on access.
type Store struct {
	sessions map[string]Session
	ttl      time.Duration
	mu       sync.Mutex
}

// NewStore creates a new Store whose sessions expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]Session),
		ttl:      ttl,
	}
}

// Create registers a new session and returns its opaque token.
func (s *Store) Create(email, role string) string {
	token := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = Session{
		Email:     email,
		Role:      role,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	return token
}

// Get returns the session for the token. An expired session is removed
// and reported as absent.
func (s *Store) Get(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return sess, true
}

// Delete removes the session for the token, if any.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Len reports the number of stored sessions, including any that have
// expired but not yet been purged.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
