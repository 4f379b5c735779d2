// Package keyring stores the vault key in the operating system's keyring,
// with a file-based fallback for hosts that have none.
package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeySource loads or creates a 32-byte vault key.
type KeySource interface {
	GetKey() ([]byte, error)
	SetKey() ([]byte, error)
}

type Keyring struct {
	AppName  string
	KeyField string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

func NewKeyring() *Keyring {
	return &Keyring{
		AppName:  "warpjar",
		KeyField: "vault",
	}
}

func (k *Keyring) SetKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := randRead(key); err != nil {
		return nil, err
	}
	if err := keyringSet(k.AppName, k.KeyField, hex.EncodeToString(key)); err != nil {
		return nil, err
	}
	return key, nil
}

func (k *Keyring) GetKey() ([]byte, error) {
	stored, err := keyringGet(k.AppName, k.KeyField)
	if err != nil {
		return nil, err
	}
	return DecodeKey(stored)
}

func (k *Keyring) DeleteKey() error {
	return keyringDelete(k.AppName, k.KeyField)
}

// DecodeKey parses a hex-encoded 32-byte key.
func DecodeKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid key length: expected 32, got %d", len(key))
	}
	return key, nil
}

// Resolve returns the vault key. A non-empty envHex wins. Otherwise each
// source is asked for its key in order, and the first source that can
// create one is used when none has a key yet.
func Resolve(envHex string, sources ...KeySource) ([]byte, error) {
	if envHex != "" {
		return DecodeKey(envHex)
	}
	for _, src := range sources {
		if key, err := src.GetKey(); err == nil {
			return key, nil
		}
	}
	var lastErr error
	for _, src := range sources {
		key, err := src.SetKey()
		if err == nil {
			return key, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no key source configured")
	}
	return nil, fmt.Errorf("resolve vault key: %w", lastErr)
}
