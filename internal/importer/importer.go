// Package importer orchestrates the import pipeline: URL parsing, manifest
// resolution, script generation, and registry bookkeeping.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pvekit/scriptport/internal/manifest"
	"github.com/pvekit/scriptport/internal/registry"
	"github.com/pvekit/scriptport/internal/resolve"
	"github.com/pvekit/scriptport/internal/script"
	"github.com/pvekit/scriptport/internal/source"
	"github.com/pvekit/scriptport/internal/sourceurl"
)

// PreviewLimit caps the script prefix returned by Preview.
const PreviewLimit = 500

// enrichWorkers bounds the concurrent manifest reads performed by List.
const enrichWorkers = 8

// Importer glues the pipeline stages together. All operations are atomic
// from the caller's point of view: a failed import leaves the registry
// unchanged.
type Importer struct {
	opener   source.Opener
	resolver *resolve.Resolver
	store    registry.Store
	baseDir  string
	log      *slog.Logger
}

// New creates an Importer writing manifests and scripts under baseDir.
func New(opener source.Opener, resolver *resolve.Resolver, store registry.Store, baseDir string, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{
		opener:   opener,
		resolver: resolver,
		store:    store,
		baseDir:  baseDir,
		log:      log,
	}
}

// ManifestPath returns the on-disk manifest location for a slug.
func (im *Importer) ManifestPath(slug string) string {
	return filepath.Join(im.baseDir, "manifests", slug+".json")
}

// ScriptPath returns the on-disk install script location for a slug.
func (im *Importer) ScriptPath(slug string) string {
	return filepath.Join(im.baseDir, "install", slug+"-install.sh")
}

// Result is the outcome of a successful import.
type Result struct {
	Manifest *manifest.ScriptManifest `json:"manifest"`
	Record   registry.ImportRecord    `json:"record"`
}

// Import runs the full pipeline for url and records the result. The registry
// is only touched after manifest and script files are in place, so a failure
// anywhere leaves it unchanged.
func (im *Importer) Import(ctx context.Context, url string, ov manifest.Overrides) (*Result, error) {
	ref, err := sourceurl.Parse(url)
	if err != nil {
		return nil, err
	}
	return im.runImport(ctx, ref, ov)
}

func (im *Importer) runImport(ctx context.Context, ref sourceurl.Ref, ov manifest.Overrides) (*Result, error) {
	repo, err := im.opener.Open(ctx, ref.Owner, ref.Repo, ref.Branch)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	m, err := im.resolver.Resolve(ctx, repo, ref, ov)
	if err != nil {
		return nil, err
	}

	text, err := script.Generate(m)
	if err != nil {
		return nil, err
	}

	if err := im.writeArtifacts(m, text); err != nil {
		return nil, err
	}

	rec := registry.ImportRecord{
		Slug:         m.Slug,
		Name:         m.Name,
		Source:       ref.URL(),
		SourceType:   "github",
		ImportedAt:   time.Now().UTC().Truncate(time.Second),
		ManifestPath: im.ManifestPath(m.Slug),
	}
	if len(m.Categories) > 0 {
		rec.Category = m.Categories[0]
	}

	reg, err := im.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	reg.Upsert(rec)
	if err := im.store.Save(ctx, reg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	im.log.Info("imported", "slug", m.Slug, "source", ref.String(), "project_type", m.Source.ProjectType)
	return &Result{Manifest: m, Record: rec}, nil
}

// writeArtifacts persists the manifest and install script. The script is
// written executable; downstream consumers invoke it directly.
func (im *Importer) writeArtifacts(m *manifest.ScriptManifest, text string) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}

	manifestPath := im.ManifestPath(m.Slug)
	if err := os.MkdirAll(filepath.Dir(manifestPath), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	scriptPath := im.ScriptPath(m.Slug)
	if err := os.MkdirAll(filepath.Dir(scriptPath), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if err := os.WriteFile(scriptPath, []byte(text), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	return nil
}

// ListEntry is one registry record, enriched with its manifest when the
// manifest file is readable. Records with missing or corrupt manifests are
// returned with registry fields only.
type ListEntry struct {
	registry.ImportRecord
	Manifest *manifest.ScriptManifest `json:"manifest,omitempty"`
}

// List returns all import records, best-effort joined with their manifests.
func (im *Importer) List(ctx context.Context) ([]ListEntry, error) {
	reg, err := im.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	entries := make([]ListEntry, len(reg.Imports))

	// Each goroutine writes its own slice element.
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(enrichWorkers)
	for i, rec := range reg.Imports {
		g.Go(func() error {
			entry := ListEntry{ImportRecord: rec}
			if data, err := os.ReadFile(im.ManifestPath(rec.Slug)); err == nil {
				if m, err := manifest.Parse(data); err == nil {
					entry.Manifest = m
				}
			}
			entries[i] = entry
			return nil
		})
	}
	g.Wait()

	return entries, nil
}

// Get returns the stored manifest for slug.
func (im *Importer) Get(_ context.Context, slug string) (*manifest.ScriptManifest, error) {
	data, err := os.ReadFile(im.ManifestPath(slug))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	return manifest.Parse(data)
}

// Remove deletes the manifest file, script file, and registry entry. File
// deletions are best-effort; the registry deletion must succeed.
func (im *Importer) Remove(ctx context.Context, slug string) error {
	reg, err := im.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if !reg.Remove(slug) {
		return fmt.Errorf("%w: %s", ErrManifestNotFound, slug)
	}

	// Missing files are not errors here.
	os.Remove(im.ManifestPath(slug))
	os.Remove(im.ScriptPath(slug))

	if err := im.store.Save(ctx, reg); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	im.log.Info("removed", "slug", slug)
	return nil
}

// Update re-runs the import pipeline for an existing record, using the
// record's stored source URL and branch rather than re-discovering them.
func (im *Importer) Update(ctx context.Context, slug string) (*Result, error) {
	reg, err := im.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	rec, ok := reg.Find(slug)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, slug)
	}

	ref, err := sourceurl.Parse(rec.Source)
	if err != nil {
		return nil, err
	}

	ov := manifest.Overrides{Category: rec.Category}
	return im.runImport(ctx, ref, ov)
}

// UpdateAll updates every registered import sequentially, collecting
// per-slug failures without aborting the rest.
func (im *Importer) UpdateAll(ctx context.Context) error {
	reg, err := im.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	var errs []error
	for _, rec := range reg.Imports {
		if _, err := im.Update(ctx, rec.Slug); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rec.Slug, err))
		}
	}
	return errors.Join(errs...)
}

// SetCategory updates the category on an existing record and its manifest.
func (im *Importer) SetCategory(ctx context.Context, slug string, category int) error {
	reg, err := im.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	rec, ok := reg.Find(slug)
	if !ok {
		return fmt.Errorf("%w: %s", ErrManifestNotFound, slug)
	}
	rec.Category = category

	// Best-effort: keep the manifest's category list in sync when readable.
	if m, err := im.Get(ctx, slug); err == nil {
		m.Categories = []int{category}
		if data, err := m.Encode(); err == nil {
			os.WriteFile(im.ManifestPath(slug), data, 0o644)
		}
	}

	if err := im.store.Save(ctx, reg); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	return nil
}

// PreviewResult holds the outcome of a dry-run import.
type PreviewResult struct {
	Manifest      *manifest.ScriptManifest `json:"manifest"`
	ScriptPreview string                   `json:"scriptPreview"`
}

// Preview runs the pipeline without persisting anything and returns the
// manifest plus a truncated script prefix for display.
func (im *Importer) Preview(ctx context.Context, url string) (*PreviewResult, error) {
	ref, err := sourceurl.Parse(url)
	if err != nil {
		return nil, err
	}

	repo, err := im.opener.Open(ctx, ref.Owner, ref.Repo, ref.Branch)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	m, err := im.resolver.Resolve(ctx, repo, ref, manifest.Overrides{})
	if err != nil {
		return nil, err
	}

	text, err := script.Generate(m)
	if err != nil {
		return nil, err
	}
	// Truncate by runes, not bytes, so a multi-byte character is never
	// split mid-sequence.
	if runes := []rune(text); len(runes) > PreviewLimit {
		text = string(runes[:PreviewLimit])
	}

	return &PreviewResult{Manifest: m, ScriptPreview: text}, nil
}
