// internal/config/crypto.go
package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

const masterKeyName = "__master_key__"

// ErrCiphertextTooShort is returned for secrets shorter than a GCM nonce.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// GetMasterKey retrieves or generates the secret-encryption key in the keyring
func GetMasterKey() ([]byte, error) {
	ks, err := NewKeyringStore()
	if err != nil {
		return nil, err
	}

	if keyHex, err := ks.Get(masterKeyName); err == nil {
		return hex.DecodeString(keyHex)
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	if err := ks.Set(masterKeyName, hex.EncodeToString(key)); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("invalid key: %w", err)
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plainText with AES-GCM and returns nonce||ciphertext as hex
func Encrypt(plainText string, key []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	return hex.EncodeToString(gcm.Seal(nonce, nonce, []byte(plainText), nil)), nil
}

// Decrypt reverses Encrypt
func Decrypt(cipherTextHex string, key []byte) (string, error) {
	data, err := hex.DecodeString(cipherTextHex)
	if err != nil {
		return "", fmt.Errorf("decode secret: %w", err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	if len(data) < gcm.NonceSize() {
		return "", ErrCiphertextTooShort
	}

	nonce, sealed := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt secret: %w", err)
	}
	return string(plain), nil
}
