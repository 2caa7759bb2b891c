package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("http addr = %q", cfg.HTTPAddr)
	}
	if cfg.StorageDriver != "file" || cfg.BlobDriver != "fs" {
		t.Fatalf("drivers = %q/%q", cfg.StorageDriver, cfg.BlobDriver)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("ttl = %v", cfg.TokenTTL)
	}
	if !cfg.DemoSeed {
		t.Fatal("demo seed should default on")
	}
	if cfg.SnapshotKey != nil {
		t.Fatal("snapshot key set without env")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADVOCASE_HTTP_ADDR", ":9999")
	t.Setenv("ADVOCASE_STORAGE_DRIVER", "sqlite")
	t.Setenv("ADVOCASE_TOKEN_TTL", "30m")
	t.Setenv("ADVOCASE_DEMO_SEED", "false")
	t.Setenv("ADVOCASE_SNAPSHOT_KEY", "00112233445566778899aabbccddeeff")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9999" || cfg.StorageDriver != "sqlite" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("ttl = %v", cfg.TokenTTL)
	}
	if cfg.DemoSeed {
		t.Fatal("demo seed override ignored")
	}
	if len(cfg.SnapshotKey) != 16 {
		t.Fatalf("snapshot key length = %d", len(cfg.SnapshotKey))
	}
}

func TestLoadRejectsBadSnapshotKey(t *testing.T) {
	t.Setenv("ADVOCASE_SNAPSHOT_KEY", "not-hex")
	if _, err := Load(); err == nil {
		t.Fatal("invalid hex key accepted")
	}

	t.Setenv("ADVOCASE_SNAPSHOT_KEY", "aabb")
	if _, err := Load(); err == nil {
		t.Fatal("short key accepted")
	}
}
