package storage

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// ErrSealed is returned when a stored value fails authentication, e.g. it
// was altered, moved to another key or written with a different secret.
var ErrSealed = errors.New("sealed value failed authentication")

const sealInfo = "painrelief kv seal v1"

// Sealed encrypts values with XChaCha20-Poly1305 before handing them to
// the inner store. The key name is bound as associated data.
type Sealed struct {
	inner KeyValueStore
	aead  cipher.AEAD
}

// NewSealed derives a 256-bit key from secret with HKDF-SHA256.
func NewSealed(inner KeyValueStore, secret string) (*Sealed, error) {
	if secret == "" {
		return nil, errors.New("sealed store: empty secret")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(sealInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Sealed{inner: inner, aead: aead}, nil
}

func (s *Sealed) Get(ctx context.Context, key string) ([]byte, error) {
	box, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	ns := s.aead.NonceSize()
	if len(box) < ns+s.aead.Overhead() {
		return nil, fmt.Errorf("%w: %s: value too short", ErrSealed, key)
	}
	plain, err := s.aead.Open(nil, box[:ns], box[ns:], []byte(key))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSealed, key)
	}
	return plain, nil
}

func (s *Sealed) Set(ctx context.Context, key string, value []byte) error {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(value)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("nonce: %w", err)
	}
	return s.inner.Set(ctx, key, s.aead.Seal(nonce, nonce, value, []byte(key)))
}

func (s *Sealed) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}
