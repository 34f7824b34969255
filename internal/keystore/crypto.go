// Package keystore stores per-user Gemini credential blobs, sealed at rest.
package keystore

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Sealer encrypts and decrypts credential blobs with XChaCha20-Poly1305.
// Every sealed blob carries its own random nonce, so the same plaintext never
// produces the same ciphertext twice.
type Sealer struct {
	key []byte
}

// ParseKey decodes a base64 sealing key and checks its length.
func ParseKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("sealing key is not valid base64: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("sealing key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return key, nil
}

// NewSealer creates a sealer from a raw 32-byte key.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("sealing key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &Sealer{key: append([]byte(nil), key...)}, nil
}

// Seal encrypts plaintext and returns nonce||ciphertext.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a blob produced by Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("sealed blob too short")
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credential blob: %w", err)
	}
	return plaintext, nil
}
