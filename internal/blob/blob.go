// Package blob stores uploaded document bytes. Snapshots hold record
// metadata; the raw document text and file contents live here.
package blob

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no blob exists under a key.
var ErrNotFound = errors.New("blob not found")

// Driver identifies a blob backend.
type Driver string

const (
	DriverMemory     Driver = "memory"
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
)

// Store is the interface document backends implement. Keys map directly to
// object names; a Put over an existing key overwrites it.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Options selects and configures a driver.
type Options struct {
	Driver Driver

	// Filesystem driver.
	Root string

	// S3 driver.
	Bucket   string
	Region   string
	Endpoint string
}

// Open builds a Store for the configured driver. An empty driver defaults to
// the filesystem.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFilesystem, "":
		return NewFilesystem(opts.Root)
	case DriverS3:
		return NewS3(ctx, S3Config{Bucket: opts.Bucket, Region: opts.Region, Endpoint: opts.Endpoint})
	default:
		return nil, fmt.Errorf("unknown blob driver %q", opts.Driver)
	}
}
