package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testStoreRoundTrip(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("get missing: err = %v, want ErrNotFound", err)
	}
	if err := store.Put(ctx, "iep/doc-1", []byte("GOALS: read fluently"), "text/plain"); err != nil {
		t.Fatalf("put: %v", err)
	}
	data, err := store.Get(ctx, "iep/doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "GOALS: read fluently" {
		t.Fatalf("got %q", data)
	}

	// Overwrite wins.
	if err := store.Put(ctx, "iep/doc-1", []byte("revised"), "text/plain"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, _ = store.Get(ctx, "iep/doc-1")
	if string(data) != "revised" {
		t.Fatalf("after overwrite got %q", data)
	}

	if err := store.Delete(ctx, "iep/doc-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "iep/doc-1"); err != ErrNotFound {
		t.Fatalf("get after delete: err = %v, want ErrNotFound", err)
	}
	// Deleting again stays quiet.
	if err := store.Delete(ctx, "iep/doc-1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStoreRoundTrip(t, NewMemory())
}

func TestMemoryStoreCopiesData(t *testing.T) {
	store := NewMemory()
	data := []byte("original")
	if err := store.Put(context.Background(), "k", data, ""); err != nil {
		t.Fatal(err)
	}
	data[0] = 'X'
	got, _ := store.Get(context.Background(), "k")
	if string(got) != "original" {
		t.Fatalf("caller mutation leaked into store: %q", got)
	}
}

func TestFilesystemStore(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testStoreRoundTrip(t, store)
}

func TestFilesystemStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystem(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(context.Background(), "a/b:c", []byte("x"), ""); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", filepath.Join(dir, e.Name()))
		}
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	if _, err := Open(ctx, Options{Driver: DriverMemory}); err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, err := Open(ctx, Options{Driver: DriverFilesystem, Root: t.TempDir()}); err != nil {
		t.Fatalf("fs: %v", err)
	}
	if _, err := Open(ctx, Options{Driver: "bogus"}); err == nil {
		t.Fatal("unknown driver accepted")
	}
	if _, err := Open(ctx, Options{Driver: DriverS3}); err == nil {
		t.Fatal("s3 without a bucket accepted")
	}
}
