package storage

import (
	"context"

	"github.com/advocase-dev/advocase-store/internal/vault"
)

// EncryptedBackend wraps another backend and encrypts payloads with AES-GCM
// before they reach it. Keys stay in the clear; only snapshot bodies are
// sealed.
type EncryptedBackend struct {
	inner Backend
	key   []byte
}

// Encrypted wraps backend with at-rest encryption under the given key.
func Encrypted(backend Backend, key []byte) *EncryptedBackend {
	return &EncryptedBackend{inner: backend, key: key}
}

func (e *EncryptedBackend) Read(ctx context.Context, key string) ([]byte, error) {
	sealed, err := e.inner.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	return vault.Open(sealed, e.key)
}

func (e *EncryptedBackend) Write(ctx context.Context, key string, data []byte) error {
	sealed, err := vault.Seal(data, e.key)
	if err != nil {
		return err
	}
	return e.inner.Write(ctx, key, sealed)
}

func (e *EncryptedBackend) Delete(ctx context.Context, key string) error {
	return e.inner.Delete(ctx, key)
}

func (e *EncryptedBackend) Keys(ctx context.Context) ([]string, error) {
	return e.inner.Keys(ctx)
}

func (e *EncryptedBackend) Close() error { return e.inner.Close() }
