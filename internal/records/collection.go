// Package records implements the role-scoped record store at the core of the
// Advocase platform. Each domain (children, IEPs, cases, messages,
// appointments, audit log, feedback, advocacy matching) is a Collection:
// a persisted snapshot merged with seed data on load, filtered per actor on
// read, and re-persisted in full on every mutation.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/advocase-dev/advocase-store/internal/storage"
	"github.com/advocase-dev/advocase-store/pkg/schema"
)

// Record is anything storable in a Collection.
type Record interface {
	RecordID() string
}

// Visibility decides whether an actor may see a record.
type Visibility[T Record] func(actor schema.User, rec T) bool

// State tracks a collection's load lifecycle.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateError         State = "error"
)

// SeedProvider supplies the built-in records merged into an otherwise-empty
// collection. It is injected per collection so tests never share hidden
// mutable globals.
type SeedProvider[T Record] func() []T

// NoSeed is a SeedProvider yielding nothing.
func NoSeed[T Record]() []T { return nil }

// Collection holds one domain's full merged record set in memory and keeps
// the persisted snapshot in sync. A single mutex serializes every
// read-modify-write, so two near-simultaneous creates cannot lose an update.
type Collection[T Record] struct {
	key     string
	backend storage.Backend
	seed    SeedProvider[T]

	mu      sync.Mutex
	recs    []T
	state   State
	lastErr error
}

// NewCollection creates an unloaded collection persisted under key.
func NewCollection[T Record](key string, backend storage.Backend, seed SeedProvider[T]) *Collection[T] {
	if seed == nil {
		seed = NoSeed[T]
	}
	return &Collection[T]{
		key:     key,
		backend: backend,
		seed:    seed,
		state:   StateUninitialized,
	}
}

// Load reads the persisted snapshot, merges the seed set into it and makes
// the collection READY. A missing snapshot is treated as an empty collection;
// persisted records always shadow seed records sharing an id. Storage
// failures are non-fatal: they are logged, recorded on the collection, and
// the collection falls back to empty.
func (c *Collection[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateLoading

	var stored []T
	data, err := c.backend.Read(ctx, c.key)
	switch {
	case err == storage.ErrNotFound:
		// No prior data; seed-only.
	case err != nil:
		log.Printf("Warning: could not load snapshot %q: %v", c.key, err)
		c.recs = nil
		c.state = StateError
		c.lastErr = err
		return nil
	default:
		if err := json.Unmarshal(data, &stored); err != nil {
			log.Printf("Warning: could not decode snapshot %q: %v", c.key, err)
			c.recs = nil
			c.state = StateError
			c.lastErr = fmt.Errorf("decode snapshot %q: %w", c.key, err)
			return nil
		}
	}

	c.recs = mergeSeed(stored, c.seed())
	c.state = StateReady
	c.lastErr = nil
	return nil
}

// mergeSeed appends every seed record whose id is absent from stored.
func mergeSeed[T Record](stored, seed []T) []T {
	have := make(map[string]struct{}, len(stored))
	for _, rec := range stored {
		have[rec.RecordID()] = struct{}{}
	}
	merged := stored
	for _, rec := range seed {
		if _, ok := have[rec.RecordID()]; !ok {
			merged = append(merged, rec)
		}
	}
	return merged
}

// State returns the collection's load state.
func (c *Collection[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the last recorded non-fatal error, if any.
func (c *Collection[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ClearErr resets the recorded error.
func (c *Collection[T]) ClearErr() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = nil
}

// All returns a copy of the full merged record set.
func (c *Collection[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.recs))
	copy(out, c.recs)
	return out
}

// View returns the records the actor may see under vis.
func (c *Collection[T]) View(actor schema.User, vis Visibility[T]) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []T
	for _, rec := range c.recs {
		if vis(actor, rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Find returns the record with the given id from the in-memory set.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range c.recs {
		if rec.RecordID() == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// Insert appends rec and persists the full snapshot. The in-memory set stays
// updated even when persistence fails; the error is logged, recorded and
// returned for the caller to surface.
func (c *Collection[T]) Insert(ctx context.Context, rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recs = append(c.recs, rec)
	return c.persistLocked(ctx)
}

// Patch replaces the record matching id with fn(record) and persists. An
// unknown id is a silent no-op: ok is false and nothing is written.
func (c *Collection[T]) Patch(ctx context.Context, id string, fn func(T) T) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	for i, rec := range c.recs {
		if rec.RecordID() == id {
			c.recs[i] = fn(rec)
			return c.recs[i], true, c.persistLocked(ctx)
		}
	}
	return zero, false, nil
}

// Replace swaps the entire record set and persists. Used by bulk operations
// such as freeing a time slot while cancelling its appointment.
func (c *Collection[T]) Replace(ctx context.Context, recs []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recs = recs
	return c.persistLocked(ctx)
}

func (c *Collection[T]) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(c.recs)
	if err != nil {
		c.lastErr = err
		return err
	}
	if err := c.backend.Write(ctx, c.key, data); err != nil {
		log.Printf("Warning: could not persist snapshot %q: %v", c.key, err)
		c.lastErr = err
		return fmt.Errorf("persist snapshot %q: %w", c.key, err)
	}
	return nil
}
