package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/pvekit/scriptport/internal/manifest"
	"github.com/pvekit/scriptport/internal/script"
	"github.com/pvekit/scriptport/internal/source"
	"github.com/pvekit/scriptport/internal/sourceurl"
)

var widgetRef = sourceurl.Ref{Owner: "acme", Repo: "widget", Branch: "main"}

func TestResolveGeneratesNodeManifest(t *testing.T) {
	// The acme/widget example: only a package.json, so the manifest must be
	// nodejs with 1/1024/8 resources, port 3000, and slug "widget".
	repo := source.NewMemoryRepo(source.Metadata{Description: "A widget service"}).
		AddFile("package.json", []byte(`{"name":"widget"}`))

	m, err := New(nil).Resolve(context.Background(), repo, widgetRef, manifest.Overrides{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if m.Slug != "widget" {
		t.Errorf("slug = %q, want widget", m.Slug)
	}
	if m.Source.ProjectType != manifest.ProjectNodeJS {
		t.Errorf("project type = %s, want nodejs", m.Source.ProjectType)
	}
	if m.InterfacePort != 3000 {
		t.Errorf("port = %d, want 3000", m.InterfacePort)
	}
	res := m.InstallMethods[0].Resources
	if res.CPU != 1 || res.RAM != 1024 || res.HDD != 8 {
		t.Errorf("resources = %+v, want 1/1024/8", res)
	}
	if m.Description != "A widget service" {
		t.Errorf("description = %q", m.Description)
	}
}

func TestResolvePrefersShippedManifest(t *testing.T) {
	shipped := `{"name": "Widget Deluxe", "slug": "widget-deluxe", "interface_port": 9999}`

	repo := source.NewMemoryRepo(source.Metadata{}).
		AddFile("pvescripts.json", []byte(shipped)).
		AddFile("package.json", []byte(`{}`))

	m, err := New(nil).Resolve(context.Background(), repo, widgetRef, manifest.Overrides{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if m.Name != "Widget Deluxe" || m.Slug != "widget-deluxe" || m.InterfacePort != 9999 {
		t.Errorf("shipped manifest not used verbatim: %+v", m)
	}
	// Identity fields the shipped manifest omitted are backfilled.
	if m.Source.Owner != "acme" || m.Source.Branch != "main" {
		t.Errorf("source not backfilled: %+v", m.Source)
	}
}

func TestResolveShippedManifestWithoutProjectType(t *testing.T) {
	shipped := `{"name": "Widget", "slug": "widget"}`

	repo := source.NewMemoryRepo(source.Metadata{}).
		AddFile("pvescripts.json", []byte(shipped))

	m, err := New(nil).Resolve(context.Background(), repo, widgetRef, manifest.Overrides{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if m.Source.ProjectType != manifest.ProjectGeneric {
		t.Errorf("project type = %q, want generic", m.Source.ProjectType)
	}
	// The backfilled manifest must be renderable downstream.
	if _, err := script.Generate(m); err != nil {
		t.Errorf("script generation failed for backfilled manifest: %v", err)
	}
}

func TestResolveProbeOrder(t *testing.T) {
	// Both probe paths present: first in list order wins.
	repo := source.NewMemoryRepo(source.Metadata{}).
		AddFile("pvescripts.json", []byte(`{"name": "first"}`)).
		AddFile(".pvescripts/manifest.json", []byte(`{"name": "second"}`))

	m, err := New(nil).Resolve(context.Background(), repo, widgetRef, manifest.Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "first" {
		t.Errorf("name = %q, want first (probe order)", m.Name)
	}
}

func TestResolveSwallowsProbeFailures(t *testing.T) {
	// Every file read fails; probing must fall through to generation, and
	// generation then fails on RootEntries... so use a repo where only
	// probing fails. Simulate by returning a transport error for reads but
	// detection works off the root listing only for the generic path.
	repo := source.NewMemoryRepo(source.Metadata{Description: "opaque"})
	repo.AddFile("README.md", []byte("# hi"))
	repo.ReadErr = errors.New("connection reset")

	m, err := New(nil).Resolve(context.Background(), repo, widgetRef, manifest.Overrides{})
	if err != nil {
		t.Fatalf("probe failures must be swallowed: %v", err)
	}
	if m.Source.ProjectType != manifest.ProjectGeneric {
		t.Errorf("project type = %s, want generic", m.Source.ProjectType)
	}
}

func TestResolveIgnoresUnparseableManifest(t *testing.T) {
	repo := source.NewMemoryRepo(source.Metadata{}).
		AddFile("pvescripts.json", []byte("{nope")).
		AddFile("package.json", []byte(`{}`))

	m, err := New(nil).Resolve(context.Background(), repo, widgetRef, manifest.Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if m.Source.ProjectType != manifest.ProjectNodeJS {
		t.Errorf("broken shipped manifest should fall through to generation, got %+v", m)
	}
}

func TestResolveAppliesOverrides(t *testing.T) {
	repo := source.NewMemoryRepo(source.Metadata{Description: "generated"}).
		AddFile("package.json", []byte(`{}`))

	ov := manifest.Overrides{Name: "Custom", Description: "mine", RAM: 4096, Port: 8443}
	m, err := New(nil).Resolve(context.Background(), repo, widgetRef, ov)
	if err != nil {
		t.Fatal(err)
	}

	if m.Name != "Custom" || m.Description != "mine" {
		t.Errorf("overrides not applied: %+v", m)
	}
	if m.InstallMethods[0].Resources.RAM != 4096 {
		t.Errorf("ram = %d", m.InstallMethods[0].Resources.RAM)
	}
	if m.InterfacePort != 8443 {
		t.Errorf("port = %d", m.InterfacePort)
	}
	// Slug derives from the repo name, not the overridden display name, so
	// updates keep overwriting the same record.
	if m.Slug != "widget" {
		t.Errorf("slug = %q, want widget", m.Slug)
	}
}

func TestResolveSlugStableAcrossRegeneration(t *testing.T) {
	repo := source.NewMemoryRepo(source.Metadata{}).AddFile("go.mod", []byte("module w\n"))

	r := New(nil)
	first, err := r.Resolve(context.Background(), repo, widgetRef, manifest.Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve(context.Background(), repo, widgetRef, manifest.Overrides{Name: "Renamed"})
	if err != nil {
		t.Fatal(err)
	}
	if first.Slug != second.Slug {
		t.Errorf("slug changed across regeneration: %q vs %q", first.Slug, second.Slug)
	}
}
