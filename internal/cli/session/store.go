package session

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const service = "shopd-cli"

// Fixed keys for the persisted session entries
const (
	KeyAccessToken  = "access-token"
	KeyRefreshToken = "refresh-token"
	KeyUserID       = "user-id"
)

// ErrNotFound is returned by Store.Get when no value is persisted under a key
var ErrNotFound = errors.New("session entry not found")

// Store defines the interface for persisted session storage.
// This allows us to swap the keyring for an in-memory store in tests.
type Store interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// keyringStore implements Store using the OS keychain/credential manager
type keyringStore struct{}

// NewKeyringStore returns a Store backed by the OS keychain/credential manager
func NewKeyringStore() Store {
	return &keyringStore{}
}

func (k *keyringStore) Set(key, value string) error {
	if err := keyring.Set(service, key, value); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

func (k *keyringStore) Get(key string) (string, error) {
	value, err := keyring.Get(service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load %s: %w", key, err)
	}
	return value, nil
}

func (k *keyringStore) Delete(key string) error {
	if err := keyring.Delete(service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// MemoryStore is an in-memory Store used in tests and environments without a keyring
type MemoryStore struct {
	entries map[string]string
}

// NewMemoryStore returns an empty in-memory Store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

func (m *MemoryStore) Set(key, value string) error {
	m.entries[key] = value
	return nil
}

func (m *MemoryStore) Get(key string) (string, error) {
	value, ok := m.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MemoryStore) Delete(key string) error {
	delete(m.entries, key)
	return nil
}
