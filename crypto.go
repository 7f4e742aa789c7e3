// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// crypto.go - AES-256-GCM payload encryption backing Sealed fields, so a
// packet can carry individual fields that only key holders can read.

package wirepack

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/AndrewDonelson/wirepack/internal/wire"
)

// Encryptor seals and opens Sealed field payloads.
type Encryptor = wire.Encryptor

// AES256GCM implements AES-256-GCM authenticated encryption.
type AES256GCM struct {
	aead cipher.AEAD
}

// NewAES256GCM creates an AES-256-GCM encryptor from a 32-byte key.
func NewAES256GCM(key []byte) (*AES256GCM, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: encryption key must be exactly 32 bytes (got %d)", ErrInvalidConfig, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AES256GCM{aead: aead}, nil
}

// NewAES256GCMHex is NewAES256GCM for a key written as 64 hex digits, the
// form used in config files and the environment.
func NewAES256GCMHex(key string) (*AES256GCM, error) {
	raw, err := hex.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("%w: encryption key is not hex: %v", ErrInvalidConfig, err)
	}
	return NewAES256GCM(raw)
}

// Encrypt encrypts plaintext with a random nonce.
// Output: nonce (12 bytes) || ciphertext || tag (16 bytes).
func (e *AES256GCM) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return e.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens ciphertext produced by Encrypt.
func (e *AES256GCM) Decrypt(ciphertext []byte) ([]byte, error) {
	nsize := e.aead.NonceSize()
	if len(ciphertext) < nsize+e.aead.Overhead() {
		return nil, fmt.Errorf("wirepack: ciphertext too short (%d bytes)", len(ciphertext))
	}
	return e.aead.Open(nil, ciphertext[:nsize], ciphertext[nsize:], nil)
}
