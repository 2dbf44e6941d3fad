// Package session owns the lifecycle of authenticated sessions. The token
// handed to clients is a signed JWT, but validity is decided server-side: a
// token is only good while its session is present in the store, so logout
// actually revokes it.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager is the capability surface handlers depend on. The storage mechanism
// behind it (in-memory map, database table, ...) is swappable.
type Manager interface {
	// Create issues a new token bound to username.
	Create(username string) (string, error)
	// Authenticate resolves a token to its subject. Pure lookup, no mutation.
	Authenticate(token string) (username string, ok bool)
	// Destroy revokes a token. Destroying an unknown or already-destroyed
	// token is a no-op.
	Destroy(token string)
}

// claims defines the JWT claims structure.
type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type session struct {
	username  string
	createdAt time.Time
	expiresAt time.Time
}

// Store is an in-memory Manager implementation. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	secret   []byte
	ttl      time.Duration
	sessions map[string]session // keyed by token ID
}

// NewStore creates a Store signing tokens with secret. Tokens expire after ttl.
func NewStore(secret string, ttl time.Duration) *Store {
	return &Store{
		secret:   []byte(secret),
		ttl:      ttl,
		sessions: make(map[string]session),
	}
}

// Create issues a signed token for username and records the session.
func (s *Store) Create(username string) (string, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	id := uuid.New().String()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	s.mu.Lock()
	s.sessions[id] = session{username: username, createdAt: now, expiresAt: expiresAt}
	s.mu.Unlock()

	return signed, nil
}

// Authenticate verifies the token signature and requires a live, unexpired
// session behind it.
func (s *Store) Authenticate(tokenStr string) (string, bool) {
	c, err := s.parse(tokenStr)
	if err != nil {
		return "", false
	}

	s.mu.Lock()
	sess, ok := s.sessions[c.ID]
	s.mu.Unlock()

	if !ok || time.Now().After(sess.expiresAt) {
		return "", false
	}
	return sess.username, true
}

// Destroy revokes the session behind the token, if any.
func (s *Store) Destroy(tokenStr string) {
	c, err := s.parse(tokenStr)
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.sessions, c.ID)
	s.mu.Unlock()
}

// PurgeExpired removes sessions past their expiry and returns how many were
// dropped. Called by the background sweeper.
func (s *Store) PurgeExpired() int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) parse(tokenStr string) (*claims, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenStr, c, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return c, nil
}
