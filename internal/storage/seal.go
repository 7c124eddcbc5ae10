package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
)

// Cipher names recorded in the file store header.
const (
	CipherAESGCM   = "aes-gcm"
	CipherChaCha20 = "chacha20-poly1305"
)

// sealKeySize is the key length for both ciphers.
const sealKeySize = 32

var errCiphertextShort = errors.New("ciphertext too short")

// sealer encrypts values with a nonce-prefixed AEAD.
type sealer struct {
	name string
	aead cipher.AEAD
}

// preferredCipher picks AES-GCM where the platform accelerates it.
func preferredCipher() string {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return CipherAESGCM
	default:
		return CipherChaCha20
	}
}

func newSealer(key []byte, name string) (*sealer, error) {
	if len(key) != sealKeySize {
		return nil, fmt.Errorf("seal key must be %d bytes, got %d", sealKeySize, len(key))
	}

	var (
		aead cipher.AEAD
		err  error
	)
	switch name {
	case CipherAESGCM:
		var block cipher.Block
		block, err = aes.NewCipher(key)
		if err == nil {
			aead, err = cipher.NewGCM(block)
		}
	case CipherChaCha20:
		aead, err = chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("unknown cipher %q", name)
	}
	if err != nil {
		return nil, err
	}
	return &sealer{name: name, aead: aead}, nil
}

// seal returns nonce || ciphertext. aad is bound but not stored.
func (s *sealer) seal(plaintext, aad []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plaintext, aad), nil
}

func (s *sealer) open(sealed, aad []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n+s.aead.Overhead() {
		return nil, errCiphertextShort
	}
	return s.aead.Open(nil, sealed[:n], sealed[n:], aad)
}

func newSealKey() ([]byte, error) {
	key := make([]byte, sealKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}
