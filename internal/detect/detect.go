// Package detect classifies a repository into a project type by looking for
// marker files in the repository root, then inspects project files to enrich
// the result with ports, entrypoints, and metadata.
package detect

import (
	"context"
	"strings"

	"github.com/pvekit/scriptport/internal/manifest"
	"github.com/pvekit/scriptport/internal/source"
)

// Detection is the outcome of classifying one repository.
type Detection struct {
	Type      manifest.ProjectType
	Resources manifest.Resources
	Port      int

	// Enrichment pulled from project files; all optional.
	Name         string
	Description  string
	BuildCommand string
	Entrypoint   string
}

// Detector classifies repositories of one project type.
type Detector interface {
	Type() manifest.ProjectType

	// Match reports whether the root file listing carries this type's
	// marker files.
	Match(entries []string) bool

	// Inspect reads project files to fill in ports and metadata. Read
	// failures degrade to type defaults; Inspect never fails outright.
	Inspect(ctx context.Context, repo source.Repository, entries []string) Detection
}

// detectors run in fixed priority order; the first match wins even when
// later markers are also present.
var detectors = []Detector{
	&nodeDetector{},
	&pythonDetector{},
	&dockerDetector{},
	&golangDetector{},
	&rustDetector{},
}

// Detect classifies the repository. When no marker file matches, the result
// is the generic type with minimal resources.
func Detect(ctx context.Context, repo source.Repository) (Detection, error) {
	entries, err := repo.RootEntries(ctx)
	if err != nil {
		return Detection{}, err
	}

	for _, d := range detectors {
		if d.Match(entries) {
			return d.Inspect(ctx, repo, entries), nil
		}
	}

	return Detection{
		Type:      manifest.ProjectGeneric,
		Resources: defaultResources(1, 512, 4),
	}, nil
}

func defaultResources(cpu, ram, hdd int) manifest.Resources {
	return manifest.Resources{CPU: cpu, RAM: ram, HDD: hdd, OS: "debian", Version: "12"}
}

// hasEntry reports whether any of the names appears in the listing,
// case-insensitively.
func hasEntry(entries []string, names ...string) bool {
	for _, entry := range entries {
		for _, name := range names {
			if strings.EqualFold(entry, name) {
				return true
			}
		}
	}
	return false
}

// findEntry returns the first listing entry matching any of the names.
func findEntry(entries []string, names ...string) string {
	for _, name := range names {
		for _, entry := range entries {
			if strings.EqualFold(entry, name) {
				return entry
			}
		}
	}
	return ""
}
