package detect

import (
	"context"

	"github.com/BurntSushi/toml"

	"github.com/pvekit/scriptport/internal/manifest"
	"github.com/pvekit/scriptport/internal/source"
)

const defaultRustPort = 8000

type rustDetector struct{}

func (d *rustDetector) Type() manifest.ProjectType {
	return manifest.ProjectRust
}

func (d *rustDetector) Match(entries []string) bool {
	return hasEntry(entries, "Cargo.toml")
}

type cargoManifest struct {
	Package struct {
		Name        string `toml:"name"`
		Description string `toml:"description"`
	} `toml:"package"`
}

func (d *rustDetector) Inspect(ctx context.Context, repo source.Repository, _ []string) Detection {
	det := Detection{
		Type:      manifest.ProjectRust,
		Resources: defaultResources(2, 2048, 8),
		Port:      defaultRustPort,
	}

	if data, err := repo.ReadFile(ctx, "Cargo.toml"); err == nil {
		var cargo cargoManifest
		if err := toml.Unmarshal(data, &cargo); err == nil {
			det.Name = cargo.Package.Name
			det.Description = cargo.Package.Description
		}
	}

	return det
}
