// Package session holds the authenticated session for the CLI: the access
// token, refresh token and user id, mirrored into a persisted store so a new
// process can rehydrate them. It also owns the logout broadcast the refresh
// protocol fires on terminal failure.
package session

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Session is the in-memory session state.
//
// Mutations are mutex-guarded because CLI commands may run requests
// concurrently. A login racing an in-flight refresh is resolved as
// last-writer-wins on each field; the session does not single-flight
// refreshes.
type Session struct {
	mu           sync.Mutex
	accessToken  string
	refreshToken string
	userID       string

	store Store
	log   zerolog.Logger

	subsMu sync.Mutex
	subs   []func()
}

// New creates an empty session mirrored into the given store
func New(store Store, log zerolog.Logger) *Session {
	return &Session{store: store, log: log}
}

// Load rehydrates the session from the persisted store.
// Missing entries leave the corresponding field empty.
func (s *Session) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = s.load(KeyAccessToken)
	s.refreshToken = s.load(KeyRefreshToken)
	s.userID = s.load(KeyUserID)
}

func (s *Session) load(key string) string {
	value, err := s.store.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Debug().Err(err).Str("key", key).Msg("Failed to load session entry")
		}
		return ""
	}
	return value
}

// persist writes a value best-effort; persistence failures are logged and
// swallowed so the session stays usable where no keyring is available.
func (s *Session) persist(key, value string) {
	if err := s.store.Set(key, value); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("Failed to persist session entry")
	}
}

func (s *Session) wipe(key string) {
	if err := s.store.Delete(key); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("Failed to wipe session entry")
	}
}

// SetAccessToken overwrites the access token and persists it
func (s *Session) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
	s.persist(KeyAccessToken, token)
}

// SetRefreshToken overwrites the refresh token and persists it
func (s *Session) SetRefreshToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshToken = token
	s.persist(KeyRefreshToken, token)
}

// SetUserID overwrites the user id and persists it
func (s *Session) SetUserID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = id
	s.persist(KeyUserID, id)
}

// AccessToken returns the current access token, or empty
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token, or empty
func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

// UserID returns the current user id, or empty
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// IsAuthenticated reports whether an access token is currently present
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken != ""
}

// ClearAccessToken clears only the access token, forcing re-authentication
// without ending the whole session
func (s *Session) ClearAccessToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.wipe(KeyAccessToken)
}

// Clear wipes the whole session: all three fields and their persisted entries
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
	s.userID = ""
	s.wipe(KeyAccessToken)
	s.wipe(KeyRefreshToken)
	s.wipe(KeyUserID)
}

// OnLogout registers a callback invoked when the session is torn down by a
// terminal refresh failure. The session module owns this broadcast so the
// protocol code has no dependency on command or output concerns.
func (s *Session) OnLogout(fn func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subs = append(s.subs, fn)
}

// NotifyLogout invokes every registered logout callback once, synchronously
func (s *Session) NotifyLogout() {
	s.subsMu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()

	for _, fn := range subs {
		fn()
	}
}
