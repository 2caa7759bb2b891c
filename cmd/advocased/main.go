package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/advocase-dev/advocase-store/internal/ai"
	"github.com/advocase-dev/advocase-store/internal/api"
	"github.com/advocase-dev/advocase-store/internal/blob"
	"github.com/advocase-dev/advocase-store/internal/config"
	"github.com/advocase-dev/advocase-store/internal/metrics"
	"github.com/advocase-dev/advocase-store/internal/records"
	"github.com/advocase-dev/advocase-store/internal/storage"
)

func main() {
	fmt.Println("Starting AdvoCase Store Daemon...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if len(os.Args) < 3 {
				log.Fatal("Usage: advocased migrate <dst-driver> (file|memory|sqlite|postgres|redis)")
			}
			migrate(ctx, cfg, os.Args[2], "")
			return
		case "backup":
			if len(os.Args) < 3 {
				log.Fatal("Usage: advocased backup <dir>")
			}
			migrate(ctx, cfg, "file", os.Args[2])
			return
		}
	}

	// 1. Snapshot storage
	backend, err := storage.Open(ctx, storage.Options{
		Driver:        storage.Driver(cfg.StorageDriver),
		Dir:           cfg.DataDir,
		SQLitePath:    cfg.SQLitePath,
		PostgresDSN:   cfg.PostgresDSN,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		EncryptionKey: cfg.SnapshotKey,
	})
	if err != nil {
		log.Fatalf("Failed to open snapshot storage (%s): %v", cfg.StorageDriver, err)
	}
	defer backend.Close()
	if cfg.SnapshotKey != nil {
		fmt.Println("Snapshot encryption at rest enabled.")
	}

	// 2. Document storage
	documents, err := blob.Open(ctx, blob.Options{
		Driver:   blob.Driver(cfg.BlobDriver),
		Root:     cfg.BlobRoot,
		Bucket:   cfg.S3Bucket,
		Region:   cfg.S3Region,
		Endpoint: cfg.S3Endpoint,
	})
	if err != nil {
		log.Fatalf("Failed to open document storage (%s): %v", cfg.BlobDriver, err)
	}

	// 3. Record service
	seeds := records.EmptySeeds()
	if cfg.DemoSeed {
		seeds = records.DefaultSeeds()
	}
	svc := records.NewService(records.Config{
		Backend:   backend,
		Seeds:     seeds,
		Analyzer:  ai.NewClient(cfg.AIEndpoint),
		Documents: documents,
		Observer:  metrics.New(nil),
	})
	if err := svc.Load(ctx); err != nil {
		log.Fatalf("Failed to load collections: %v", err)
	}
	fmt.Printf("Record service started (%s snapshots, %s documents).\n", cfg.StorageDriver, cfg.BlobDriver)

	// 4. HTTP API
	h := &api.Handler{
		Records:   svc,
		JWTSecret: cfg.JWTSecret,
		JWTIssuer: cfg.JWTIssuer,
		TokenTTL:  cfg.TokenTTL,
	}
	router := api.NewRouter(h)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		fmt.Printf("AdvoCase API listening on %s\n", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// 5. Graceful shutdown: stop accepting requests, then drain background
	// analysis work so every snapshot write lands before exit.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nShutdown signal received. Draining background work...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: HTTP shutdown: %v", err)
	}
	svc.Wait()
	fmt.Println("Persistence complete. Exiting.")
}

// migrate copies every snapshot from the configured backend into the
// destination driver, sharing the rest of the connection settings. A
// non-empty dstDir overrides the file driver's directory, which is how
// backup targets an arbitrary location.
func migrate(ctx context.Context, cfg config.Config, dstDriver, dstDir string) {
	open := func(driver, dir string) storage.Backend {
		backend, err := storage.Open(ctx, storage.Options{
			Driver:        storage.Driver(driver),
			Dir:           dir,
			SQLitePath:    cfg.SQLitePath,
			PostgresDSN:   cfg.PostgresDSN,
			RedisAddr:     cfg.RedisAddr,
			RedisPassword: cfg.RedisPassword,
			EncryptionKey: cfg.SnapshotKey,
		})
		if err != nil {
			log.Fatalf("Failed to open %s storage: %v", driver, err)
		}
		return backend
	}

	src := open(cfg.StorageDriver, cfg.DataDir)
	defer src.Close()
	if dstDir == "" {
		dstDir = cfg.DataDir
	}
	dst := open(dstDriver, dstDir)
	defer dst.Close()

	if err := storage.Migrate(ctx, src, dst); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	fmt.Printf("Migrated snapshots from %s to %s.\n", cfg.StorageDriver, dstDriver)
}
