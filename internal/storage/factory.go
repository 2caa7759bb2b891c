package storage

import (
	"context"
	"fmt"
)

// Driver identifies a snapshot backend implementation.
type Driver string

const (
	DriverFile     Driver = "file"
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverRedis    Driver = "redis"
)

// Options selects and configures a snapshot backend.
type Options struct {
	Driver        Driver
	Dir           string // file driver
	SQLitePath    string // sqlite driver
	PostgresDSN   string // postgres driver
	RedisAddr     string // redis driver
	RedisPassword string
	// EncryptionKey, when non-empty, wraps the backend with AES-GCM
	// encryption at rest. Must be 16, 24 or 32 bytes.
	EncryptionKey []byte
}

// Open constructs the backend selected by opts.
func Open(ctx context.Context, opts Options) (Backend, error) {
	var backend Backend
	var err error

	switch opts.Driver {
	case DriverFile, "":
		dir := opts.Dir
		if dir == "" {
			dir = "./data"
		}
		backend, err = NewFile(dir)
	case DriverMemory:
		backend = NewMemory()
	case DriverSQLite:
		backend, err = NewSQLite(opts.SQLitePath)
	case DriverPostgres:
		backend, err = NewPostgres(ctx, opts.PostgresDSN)
	case DriverRedis:
		backend, err = NewRedis(ctx, opts.RedisAddr, opts.RedisPassword)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	if len(opts.EncryptionKey) > 0 {
		return Encrypted(backend, opts.EncryptionKey), nil
	}
	return backend, nil
}
