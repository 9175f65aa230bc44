package detect

import (
	"context"

	"github.com/BurntSushi/toml"

	"github.com/pvekit/scriptport/internal/manifest"
	"github.com/pvekit/scriptport/internal/source"
)

const defaultPythonPort = 8000

type pythonDetector struct{}

func (d *pythonDetector) Type() manifest.ProjectType {
	return manifest.ProjectPython
}

func (d *pythonDetector) Match(entries []string) bool {
	return hasEntry(entries, "requirements.txt", "pyproject.toml")
}

type pyProject struct {
	Project struct {
		Name        string `toml:"name"`
		Description string `toml:"description"`
	} `toml:"project"`
}

func (d *pythonDetector) Inspect(ctx context.Context, repo source.Repository, entries []string) Detection {
	det := Detection{
		Type:      manifest.ProjectPython,
		Resources: defaultResources(1, 1024, 4),
		Port:      defaultPythonPort,
	}

	// Common entry module names, checked against the root listing.
	det.Entrypoint = findEntry(entries, "app.py", "main.py", "run.py", "server.py")
	if det.Entrypoint == "" {
		det.Entrypoint = "main.py"
	}

	if data, err := repo.ReadFile(ctx, "pyproject.toml"); err == nil {
		var proj pyProject
		if err := toml.Unmarshal(data, &proj); err == nil {
			det.Name = proj.Project.Name
			det.Description = proj.Project.Description
		}
	}

	return det
}
