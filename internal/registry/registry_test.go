package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func record(slug string) ImportRecord {
	return ImportRecord{
		Slug:         slug,
		Name:         slug,
		Source:       "https://github.com/acme/" + slug + "/tree/main",
		SourceType:   "github",
		ImportedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		ManifestPath: "manifests/" + slug + ".json",
	}
}

func TestUpsertAndRemove(t *testing.T) {
	reg := &Registry{}

	reg.Upsert(record("widget"))
	reg.Upsert(record("gadget"))
	if len(reg.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(reg.Imports))
	}

	// Upsert by slug replaces in place, preserving position.
	updated := record("widget")
	updated.Name = "Widget 2"
	reg.Upsert(updated)
	if len(reg.Imports) != 2 {
		t.Fatalf("upsert duplicated a record: %d", len(reg.Imports))
	}
	if reg.Imports[0].Name != "Widget 2" {
		t.Errorf("record not replaced in place: %+v", reg.Imports[0])
	}

	if !reg.Remove("widget") {
		t.Error("Remove should report existing slug")
	}
	if reg.Remove("widget") {
		t.Error("Remove should report missing slug")
	}
	if _, ok := reg.Find("widget"); ok {
		t.Error("removed record still findable")
	}
	if _, ok := reg.Find("gadget"); !ok {
		t.Error("unrelated record lost")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	store := NewFileStore(path)
	ctx := context.Background()

	// Missing file loads as empty, not an error.
	reg, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if len(reg.Imports) != 0 {
		t.Fatalf("expected empty registry, got %d", len(reg.Imports))
	}

	reg.Upsert(record("widget"))
	if err := store.Save(ctx, reg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if reg.LastUpdated.IsZero() {
		t.Error("Save must stamp last_updated")
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Imports) != 1 || loaded.Imports[0].Slug != "widget" {
		t.Errorf("round trip lost data: %+v", loaded.Imports)
	}
	if !loaded.Imports[0].ImportedAt.Equal(record("widget").ImportedAt) {
		t.Errorf("importedAt not preserved: %v", loaded.Imports[0].ImportedAt)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileStore(path).Load(context.Background()); err == nil {
		t.Error("corrupt registry should fail to load")
	}
}

func TestMemStoreIsolation(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	reg, _ := store.Load(ctx)
	reg.Upsert(record("widget"))

	// Mutating a loaded copy must not leak into the store before Save.
	fresh, _ := store.Load(ctx)
	if len(fresh.Imports) != 0 {
		t.Error("Load must return isolated copies")
	}

	if err := store.Save(ctx, reg); err != nil {
		t.Fatal(err)
	}
	saved, _ := store.Load(ctx)
	if len(saved.Imports) != 1 {
		t.Error("Save did not persist")
	}
}
