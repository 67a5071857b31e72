// internal/config/keyring.go
package config

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "ezdv"

// KeyringStore keeps secrets in the system keyring
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore opens the ezdv keyring
func NewKeyringStore() (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

// Set stores a secret under key
func (k *KeyringStore) Set(key, secret string) error {
	return k.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(secret),
		Label: serviceName + " " + key,
	})
}

// Get retrieves the secret stored under key
func (k *KeyringStore) Get(key string) (string, error) {
	item, err := k.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("secret not found: %s", key)
	}
	return string(item.Data), nil
}

// Delete removes the secret stored under key
func (k *KeyringStore) Delete(key string) error {
	return k.ring.Remove(key)
}
