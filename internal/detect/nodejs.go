package detect

import (
	"context"
	"encoding/json"

	"github.com/pvekit/scriptport/internal/manifest"
	"github.com/pvekit/scriptport/internal/source"
)

const defaultNodePort = 3000

type nodeDetector struct{}

func (d *nodeDetector) Type() manifest.ProjectType {
	return manifest.ProjectNodeJS
}

func (d *nodeDetector) Match(entries []string) bool {
	return hasEntry(entries, "package.json")
}

type packageJSON struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Main        string            `json:"main"`
	Scripts     map[string]string `json:"scripts"`
}

func (d *nodeDetector) Inspect(ctx context.Context, repo source.Repository, _ []string) Detection {
	det := Detection{
		Type:      manifest.ProjectNodeJS,
		Resources: defaultResources(1, 1024, 8),
		Port:      defaultNodePort,
	}

	data, err := repo.ReadFile(ctx, "package.json")
	if err != nil {
		return det
	}

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return det
	}

	det.Name = pkg.Name
	det.Description = pkg.Description
	det.Entrypoint = pkg.Main
	if det.Entrypoint == "" {
		det.Entrypoint = "index.js"
	}
	if _, ok := pkg.Scripts["build"]; ok {
		det.BuildCommand = "npm run build"
	}

	return det
}
