// Package config loads daemon settings from the environment.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr string

	StorageDriver string
	DataDir       string
	SQLitePath    string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	// SnapshotKey encrypts persisted snapshots at rest when set.
	SnapshotKey []byte

	BlobDriver   string
	BlobRoot     string
	S3Bucket     string
	S3Region     string
	S3Endpoint   string

	AIEndpoint string

	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	DemoSeed bool
}

// Load reads every ADVOCASE_* variable, applying defaults for anything
// unset. An invalid snapshot key is an error rather than a silent fallback
// to plaintext.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:      getenv("ADVOCASE_HTTP_ADDR", ":8080"),
		StorageDriver: getenv("ADVOCASE_STORAGE_DRIVER", "file"),
		DataDir:       getenv("ADVOCASE_DATA_DIR", "./data"),
		SQLitePath:    getenv("ADVOCASE_SQLITE_PATH", "./data/advocase.db"),
		PostgresDSN:   getenv("ADVOCASE_POSTGRES_DSN", ""),
		RedisAddr:     getenv("ADVOCASE_REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getenv("ADVOCASE_REDIS_PASSWORD", ""),
		BlobDriver:    getenv("ADVOCASE_BLOB_DRIVER", "fs"),
		BlobRoot:      getenv("ADVOCASE_BLOB_ROOT", "./documents"),
		S3Bucket:      getenv("ADVOCASE_S3_BUCKET", ""),
		S3Region:      getenv("ADVOCASE_S3_REGION", ""),
		S3Endpoint:    getenv("ADVOCASE_S3_ENDPOINT", ""),
		AIEndpoint:    getenv("ADVOCASE_AI_URL", ""),
		JWTSecret:     getenv("ADVOCASE_JWT_SECRET", "advocase-dev-secret"),
		JWTIssuer:     getenv("ADVOCASE_JWT_ISSUER", "advocase-store"),
		TokenTTL:      getenvDuration("ADVOCASE_TOKEN_TTL", 24*time.Hour),
		DemoSeed:      getenvBool("ADVOCASE_DEMO_SEED", true),
	}

	if raw := os.Getenv("ADVOCASE_SNAPSHOT_KEY"); raw != "" {
		key, err := hex.DecodeString(raw)
		if err != nil {
			return Config{}, fmt.Errorf("ADVOCASE_SNAPSHOT_KEY is not valid hex: %w", err)
		}
		switch len(key) {
		case 16, 24, 32:
			cfg.SnapshotKey = key
		default:
			return Config{}, fmt.Errorf("ADVOCASE_SNAPSHOT_KEY must decode to 16, 24 or 32 bytes, got %d", len(key))
		}
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
