// Package resolve turns a repository ref into a deployment manifest, either
// by fetching one the repository already ships or by generating one from
// metadata and project-type detection.
package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pvekit/scriptport/internal/detect"
	"github.com/pvekit/scriptport/internal/manifest"
	"github.com/pvekit/scriptport/internal/source"
	"github.com/pvekit/scriptport/internal/sourceurl"
)

// ProbePaths is the fixed ordered list of well-known manifest locations
// checked inside the repository. The first path that resolves to a fetchable
// file wins.
var ProbePaths = []string{
	"pvescripts.json",
	".pvescripts/manifest.json",
	"deploy/pvescripts.json",
	".claude/pvescripts.json",
}

// Resolver builds manifests for repositories.
type Resolver struct {
	log *slog.Logger
}

// New creates a Resolver. log may be nil.
func New(log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{log: log}
}

// Resolve produces the manifest for the repository at ref, applying the
// user overrides on top. A shipped manifest wins over generation.
func (r *Resolver) Resolve(ctx context.Context, repo source.Repository, ref sourceurl.Ref, ov manifest.Overrides) (*manifest.ScriptManifest, error) {
	m := r.probe(ctx, repo, ref)
	if m == nil {
		var err error
		m, err = r.generate(ctx, repo, ref)
		if err != nil {
			return nil, err
		}
	}

	m.Apply(ov)
	return m, nil
}

// probe checks the well-known manifest paths. Any failure, network or
// otherwise, is treated as "no manifest" so resolution falls through to
// generation. This best-effort policy is deliberate.
func (r *Resolver) probe(ctx context.Context, repo source.Repository, ref sourceurl.Ref) *manifest.ScriptManifest {
	for _, path := range ProbePaths {
		data, err := repo.ReadFile(ctx, path)
		if err != nil {
			continue
		}

		m, err := manifest.Parse(data)
		if err != nil {
			r.log.Debug("ignoring unparseable manifest", "path", path, "repo", ref.String(), "error", err)
			continue
		}

		r.log.Debug("using shipped manifest", "path", path, "repo", ref.String())
		r.fillDefaults(m, ref)
		return m
	}
	return nil
}

// fillDefaults backfills identity fields a shipped manifest may omit. The
// slug must stay stable across regeneration so updates overwrite rather
// than duplicate.
func (r *Resolver) fillDefaults(m *manifest.ScriptManifest, ref sourceurl.Ref) {
	if m.Name == "" {
		m.Name = ref.Repo
	}
	if m.Slug == "" {
		m.Slug = manifest.Slugify(ref.Repo)
	}
	if m.Source.Type == "" {
		m.Source.Type = "github"
	}
	if m.Source.Owner == "" {
		m.Source.Owner = ref.Owner
	}
	if m.Source.Repo == "" {
		m.Source.Repo = ref.Repo
	}
	if m.Source.Branch == "" {
		m.Source.Branch = ref.Branch
	}
	if m.Source.ProjectType == "" {
		m.Source.ProjectType = manifest.ProjectGeneric
	}
	if m.Categories == nil {
		m.Categories = []int{}
	}
}

// generate builds a manifest from repository metadata and heuristic
// project-type detection.
func (r *Resolver) generate(ctx context.Context, repo source.Repository, ref sourceurl.Ref) (*manifest.ScriptManifest, error) {
	det, err := detect.Detect(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to detect project type: %w", err)
	}

	meta := repo.Metadata()
	slug := manifest.Slugify(ref.Repo)

	description := meta.Description
	if description == "" {
		description = det.Description
	}

	m := &manifest.ScriptManifest{
		Name:        ref.Repo,
		Slug:        slug,
		Description: description,
		Categories:  []int{},
		Source: manifest.Source{
			Type:         "github",
			Owner:        ref.Owner,
			Repo:         ref.Repo,
			Branch:       ref.Branch,
			ProjectType:  det.Type,
			BuildCommand: det.BuildCommand,
			Entrypoint:   det.Entrypoint,
		},
		InstallMethods: []manifest.InstallMethod{
			{
				Type:      "default",
				Script:    fmt.Sprintf("install/%s-install.sh", slug),
				Resources: det.Resources,
			},
		},
		InterfacePort: det.Port,
	}

	r.log.Debug("generated manifest",
		"repo", ref.String(),
		"project_type", det.Type,
		"port", det.Port)

	return m, nil
}
