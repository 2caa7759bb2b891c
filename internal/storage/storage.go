// Package storage provides the snapshot backends for the record store.
// Every collection is persisted as one opaque value under a string key;
// writes always replace the whole snapshot, never a delta.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no persisted snapshot. Callers treat
// it as "no prior data" and fall back to seed-only collections.
var ErrNotFound = errors.New("storage: snapshot not found")

// Backend stores full collection snapshots under string keys.
type Backend interface {
	// Read returns the snapshot stored under key, or ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write replaces the snapshot stored under key.
	Write(ctx context.Context, key string, data []byte) error
	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every key with a stored snapshot.
	Keys(ctx context.Context) ([]string, error)
	// Close releases any underlying resources.
	Close() error
}

// Migrate copies every snapshot from src into dst. It works in either
// direction: file -> sqlite for an upgrade, anything -> file for a backup.
func Migrate(ctx context.Context, src, dst Backend) error {
	keys, err := src.Keys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		data, err := src.Read(ctx, key)
		if err != nil {
			return err
		}
		if err := dst.Write(ctx, key, data); err != nil {
			return err
		}
	}
	return nil
}
