package records

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/advocase-dev/advocase-store/internal/storage"
	"github.com/advocase-dev/advocase-store/pkg/schema"
)

func seedChildren() []schema.Child {
	return []schema.Child{
		{ID: "c1", ParentID: "p1", Name: "Seed One"},
		{ID: "c2", ParentID: "p2", Name: "Seed Two"},
	}
}

func TestCollectionLoadSeedOnly(t *testing.T) {
	col := NewCollection("children", storage.NewMemory(), seedChildren)
	if err := col.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if col.State() != StateReady {
		t.Fatalf("state = %s, want %s", col.State(), StateReady)
	}
	if got := len(col.All()); got != 2 {
		t.Fatalf("got %d records, want 2", got)
	}
}

func TestCollectionSnapshotShadowsSeed(t *testing.T) {
	backend := storage.NewMemory()
	stored := []schema.Child{
		{ID: "c1", ParentID: "p1", Name: "Renamed One"},
		{ID: "c9", ParentID: "p1", Name: "Snapshot Only"},
	}
	data, _ := json.Marshal(stored)
	if err := backend.Write(context.Background(), "children", data); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	col := NewCollection("children", backend, seedChildren)
	if err := col.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	// c1 from the snapshot, c9 snapshot-only, c2 seed-only.
	recs := col.All()
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	c1, ok := col.Find("c1")
	if !ok || c1.Name != "Renamed One" {
		t.Fatalf("c1 = %+v, want snapshot version to shadow the seed", c1)
	}
	if _, ok := col.Find("c2"); !ok {
		t.Fatal("seed-only record c2 missing after merge")
	}
}

func TestCollectionLoadDeterministic(t *testing.T) {
	backend := storage.NewMemory()
	data, _ := json.Marshal([]schema.Child{{ID: "c1", ParentID: "p1", Name: "Stored"}})
	if err := backend.Write(context.Background(), "children", data); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	var first []schema.Child
	for i := 0; i < 5; i++ {
		col := NewCollection("children", backend, seedChildren)
		if err := col.Load(context.Background()); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
		recs := col.All()
		if first == nil {
			first = recs
			continue
		}
		if len(recs) != len(first) {
			t.Fatalf("load %d: got %d records, want %d", i, len(recs), len(first))
		}
		for j := range recs {
			if recs[j].ID != first[j].ID {
				t.Fatalf("load %d: record %d is %s, first load had %s", i, j, recs[j].ID, first[j].ID)
			}
		}
	}
}

func TestCollectionInsertRoundTrip(t *testing.T) {
	backend := storage.NewMemory()
	col := NewCollection("children", backend, NoSeed[schema.Child])
	if err := col.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := col.Insert(context.Background(), schema.Child{ID: "c5", ParentID: "p1", Name: "Fresh"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// A second collection over the same backend must see the record.
	again := NewCollection("children", backend, NoSeed[schema.Child])
	if err := again.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := again.Find("c5"); !ok {
		t.Fatal("inserted record not present after reload")
	}
}

func TestCollectionPatchUnknownIDIsNoOp(t *testing.T) {
	backend := storage.NewMemory()
	col := NewCollection("children", backend, seedChildren)
	if err := col.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	_, updated, err := col.Patch(context.Background(), "zzz", func(c schema.Child) schema.Child {
		c.Name = "Should Not Happen"
		return c
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if updated {
		t.Fatal("patch of unknown id reported an update")
	}
	if _, err := backend.Read(context.Background(), "children"); err != storage.ErrNotFound {
		t.Fatalf("no-op patch persisted a snapshot: err = %v", err)
	}
	if got := len(col.All()); got != 2 {
		t.Fatalf("got %d records after no-op patch, want 2", got)
	}
}

func TestCollectionViewScopesByActor(t *testing.T) {
	col := NewCollection("children", storage.NewMemory(), seedChildren)
	if err := col.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	vis := ownerScoped(
		func(c schema.Child) string { return c.ParentID },
		func(schema.Child) string { return "" },
	)
	parent := schema.User{ID: "p1", Role: schema.RoleParent}
	admin := schema.User{ID: "9", Role: schema.RoleAdmin}

	if got := col.View(parent, vis); len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("parent view = %+v, want only c1", got)
	}
	if got := col.View(admin, vis); len(got) != 2 {
		t.Fatalf("admin view has %d records, want 2", len(got))
	}
}
