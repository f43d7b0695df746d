// Package session tracks the anonymous per-browser identity and the
// process-local admin flag. The admin flag is never persisted: a new
// session always starts as a regular customer.
//
// The PIN comparison here is a UI convenience, not an access-control
// boundary. Real authorization has to live in the backing store's
// access rules.
package session

import (
	"errors"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

var ErrInvalidPIN = errors.New("invalid admin PIN")

type Session struct {
	UserID  string
	IsAdmin bool
}

type Store struct {
	mu       sync.Mutex
	pin      string
	sessions map[string]*Session
}

func NewStore(pin string) *Store {
	return &Store{
		pin:      pin,
		sessions: make(map[string]*Session),
	}
}

// Issue mints a new session with a stable anonymous user ID.
func (s *Store) Issue() (*Session, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	sess := &Session{UserID: id.String()}

	s.mu.Lock()
	s.sessions[sess.UserID] = sess
	s.mu.Unlock()

	return sess, nil
}

// Get returns the session for userID, recreating it (as a non-admin)
// when the process has forgotten it.
func (s *Store) Get(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess
	}
	sess := &Session{UserID: userID}
	s.sessions[userID] = sess
	return sess
}

// Login flips the session's admin flag when pin matches.
func (s *Store) Login(userID, pin string) error {
	if pin != s.pin {
		log.Warn().Str("user_id", userID).Msg("session: admin login rejected")
		return ErrInvalidPIN
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{UserID: userID}
		s.sessions[userID] = sess
	}
	sess.IsAdmin = true
	log.Info().Str("user_id", userID).Msg("session: admin login accepted")
	return nil
}

// Logout resets the session to a regular customer view.
func (s *Store) Logout(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		sess.IsAdmin = false
	}
}
