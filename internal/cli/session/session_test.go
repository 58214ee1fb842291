package session

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestSessionPersistsAndRehydrates(t *testing.T) {
	store := NewMemoryStore()

	s := New(store, zerolog.Nop())
	s.SetAccessToken("A")
	s.SetRefreshToken("R")
	s.SetUserID("U1")

	// A fresh session over the same store sees the persisted values
	restored := New(store, zerolog.Nop())
	restored.Load()

	if restored.AccessToken() != "A" || restored.RefreshToken() != "R" || restored.UserID() != "U1" {
		t.Errorf("rehydrated session mismatch: access=%q refresh=%q user=%q",
			restored.AccessToken(), restored.RefreshToken(), restored.UserID())
	}
	if !restored.IsAuthenticated() {
		t.Error("expected rehydrated session to be authenticated")
	}
}

func TestClearAccessTokenKeepsRest(t *testing.T) {
	store := NewMemoryStore()
	s := New(store, zerolog.Nop())
	s.SetAccessToken("A")
	s.SetRefreshToken("R")
	s.SetUserID("U1")

	s.ClearAccessToken()

	if s.IsAuthenticated() {
		t.Error("expected IsAuthenticated false after clearing access token")
	}
	if s.RefreshToken() != "R" || s.UserID() != "U1" {
		t.Error("clearing the access token must not touch refresh token or user id")
	}
	if _, err := store.Get(KeyAccessToken); !errors.Is(err, ErrNotFound) {
		t.Error("expected the persisted access token entry to be wiped")
	}
	if _, err := store.Get(KeyRefreshToken); err != nil {
		t.Error("expected the persisted refresh token entry to survive")
	}
}

func TestClearWipesEverything(t *testing.T) {
	store := NewMemoryStore()
	s := New(store, zerolog.Nop())
	s.SetAccessToken("A")
	s.SetRefreshToken("R")
	s.SetUserID("U1")

	s.Clear()

	if s.AccessToken() != "" || s.RefreshToken() != "" || s.UserID() != "" {
		t.Error("expected all in-memory fields cleared")
	}
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUserID} {
		if _, err := store.Get(key); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected persisted entry %q to be wiped", key)
		}
	}
}

// failingStore always errors, standing in for an unavailable keyring
type failingStore struct{}

func (failingStore) Set(string, string) error   { return errors.New("keyring unavailable") }
func (failingStore) Get(string) (string, error) { return "", errors.New("keyring unavailable") }
func (failingStore) Delete(string) error        { return errors.New("keyring unavailable") }

func TestPersistenceFailuresAreNonFatal(t *testing.T) {
	s := New(failingStore{}, zerolog.Nop())

	// None of these may panic or lose the in-memory value
	s.SetAccessToken("A")
	s.SetRefreshToken("R")
	s.SetUserID("U1")

	if s.AccessToken() != "A" || s.RefreshToken() != "R" || s.UserID() != "U1" {
		t.Error("in-memory session must stay usable when persistence fails")
	}

	s.Load() // errors swallowed; fields end up empty since nothing is stored
	if s.IsAuthenticated() {
		t.Error("expected empty session after Load from a failing store")
	}
}

func TestLogoutBroadcast(t *testing.T) {
	s := New(NewMemoryStore(), zerolog.Nop())

	var first, second int
	s.OnLogout(func() { first++ })
	s.OnLogout(func() { second++ })

	s.NotifyLogout()

	if first != 1 || second != 1 {
		t.Errorf("expected each subscriber called once, got %d and %d", first, second)
	}
}
