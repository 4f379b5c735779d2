// Package encryption seals vault payloads with AES-256-GCM.
package encryption

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

const gcmPrefix = "gcm1"

// KeySize is the required key length in bytes.
const KeySize = 32

var (
	ErrInvalidKey  = errors.New("encryption key must be 32 bytes")
	ErrNotSealed   = errors.New("payload is not sealed")
	ErrTooShort    = errors.New("ciphertext too short")
	ErrAuthFailure = errors.New("ciphertext authentication failed")
)

var randReader io.Reader = rand.Reader

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext and returns prefix || nonce || ciphertext.
func Seal(plaintext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(gcmPrefix)+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, gcmPrefix...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, []byte(gcmPrefix)), nil
}

// Open reverses Seal. A wrong key or tampered payload yields ErrAuthFailure.
func Open(sealed, key []byte) ([]byte, error) {
	if !bytes.HasPrefix(sealed, []byte(gcmPrefix)) {
		return nil, ErrNotSealed
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	rest := sealed[len(gcmPrefix):]
	if len(rest) < gcm.NonceSize()+gcm.Overhead() {
		return nil, ErrTooShort
	}
	nonce, data := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, data, []byte(gcmPrefix))
	if err != nil {
		return nil, ErrAuthFailure
	}
	return plaintext, nil
}
