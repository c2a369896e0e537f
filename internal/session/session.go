// Package session holds the caller's credential and identity for the life of
// a CLI invocation. It replaces the ambient browser storage of the web client:
// every component that needs the credential receives the session explicitly.
package session

import (
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the signed-in user, as carried in the bearer token's claims.
type Identity struct {
	ID       string
	Username string
}

// Session is the credential plus identity for one signed-in (or anonymous)
// caller. A zero token means anonymous: reads go out unauthenticated, writes
// are rejected before any network call. Safe for concurrent use.
type Session struct {
	mu           sync.RWMutex
	token        string
	identity     *Identity
	onInvalidate func()
}

// New builds a session from a bearer token. An empty token yields a valid
// anonymous session. The token's claims are read without signature
// verification: the client has no signing key, and the server re-checks the
// token on every request anyway.
func New(token string) *Session {
	s := &Session{token: token}
	if token != "" {
		s.identity = parseIdentity(token)
	}
	return s
}

// parseIdentity extracts the user id and username from the token claims.
// Returns nil when the token is not a well-formed JWT.
func parseIdentity(token string) *Identity {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	id := &Identity{}
	for _, key := range []string{"id", "_id", "sub", "userId"} {
		if v, ok := claims[key].(string); ok && v != "" {
			id.ID = v
			break
		}
	}
	if v, ok := claims["username"].(string); ok {
		id.Username = v
	}
	if id.ID == "" && id.Username == "" {
		return nil
	}
	return id
}

// Token returns the bearer token, or empty when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a credential is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Identity returns the signed-in user, or nil when anonymous or when the
// token claims could not be read.
func (s *Session) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// OnInvalidate registers a hook that runs when the credential is cleared,
// e.g. to delete a persisted token file.
func (s *Session) OnInvalidate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onInvalidate = fn
}

// Invalidate clears the credential and identity. The server answered 401:
// the token is expired or revoked, so the session becomes anonymous.
// Idempotent; the hook fires only on the transition out of authenticated.
func (s *Session) Invalidate() {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.identity = nil
	hook := s.onInvalidate
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
}
