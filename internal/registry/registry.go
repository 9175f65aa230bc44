// Package registry persists the list of completed imports.
package registry

import (
	"context"
	"time"
)

// ImportRecord is one row in the import registry.
type ImportRecord struct {
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Source       string    `json:"source"`
	SourceType   string    `json:"sourceType"`
	ImportedAt   time.Time `json:"importedAt"`
	Category     int       `json:"category"`
	ManifestPath string    `json:"manifestPath"`
}

// Registry is the persistent registry document.
type Registry struct {
	Imports     []ImportRecord `json:"imports"`
	LastUpdated time.Time      `json:"last_updated"`
}

// Find returns the record for slug, if present.
func (r *Registry) Find(slug string) (*ImportRecord, bool) {
	for i := range r.Imports {
		if r.Imports[i].Slug == slug {
			return &r.Imports[i], true
		}
	}
	return nil, false
}

// Upsert replaces the record matching rec.Slug in place, or appends it.
func (r *Registry) Upsert(rec ImportRecord) {
	for i := range r.Imports {
		if r.Imports[i].Slug == rec.Slug {
			r.Imports[i] = rec
			return
		}
	}
	r.Imports = append(r.Imports, rec)
}

// Remove deletes the record for slug and reports whether it existed.
func (r *Registry) Remove(slug string) bool {
	for i := range r.Imports {
		if r.Imports[i].Slug == slug {
			r.Imports = append(r.Imports[:i], r.Imports[i+1:]...)
			return true
		}
	}
	return false
}

// Store abstracts registry persistence so the orchestrator can run against
// a file on disk or an in-memory double.
type Store interface {
	Load(ctx context.Context) (*Registry, error)
	Save(ctx context.Context, reg *Registry) error
}
