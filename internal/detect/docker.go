package detect

import (
	"context"
	"sort"
	"strconv"
	"strings"

	composeloader "github.com/compose-spec/compose-go/v2/loader"
	composetypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/moby/buildkit/frontend/dockerfile/parser"

	"github.com/pvekit/scriptport/internal/manifest"
	"github.com/pvekit/scriptport/internal/source"
)

const defaultDockerPort = 8080

var composeFiles = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"compose.yml",
	"compose.yaml",
}

type dockerDetector struct{}

func (d *dockerDetector) Type() manifest.ProjectType {
	return manifest.ProjectDocker
}

func (d *dockerDetector) Match(entries []string) bool {
	return hasEntry(entries, append([]string{"Dockerfile"}, composeFiles...)...)
}

func (d *dockerDetector) Inspect(ctx context.Context, repo source.Repository, entries []string) Detection {
	det := Detection{
		Type:      manifest.ProjectDocker,
		Resources: defaultResources(2, 2048, 16),
		Port:      defaultDockerPort,
	}

	if name := findEntry(entries, composeFiles...); name != "" {
		if data, err := repo.ReadFile(ctx, name); err == nil {
			if port := composePort(ctx, name, data); port > 0 {
				det.Port = port
				return det
			}
		}
	}

	if hasEntry(entries, "Dockerfile") {
		if data, err := repo.ReadFile(ctx, "Dockerfile"); err == nil {
			if port := dockerfilePort(data); port > 0 {
				det.Port = port
			}
		}
	}

	return det
}

// composePort loads the compose file and returns the first published port,
// falling back to the first container target port.
func composePort(ctx context.Context, filename string, content []byte) int {
	project, err := composeloader.LoadWithContext(ctx, composetypes.ConfigDetails{
		ConfigFiles: []composetypes.ConfigFile{{Filename: filename, Content: content}},
		Environment: composetypes.Mapping{},
	}, func(o *composeloader.Options) {
		o.SetProjectName("detect", true)
		o.SkipValidation = true
		o.SkipConsistencyCheck = true
	})
	if err != nil {
		return 0
	}

	// Service iteration order is not stable; sort for determinism.
	names := make([]string, 0, len(project.Services))
	for name := range project.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, p := range project.Services[name].Ports {
			if published, err := strconv.Atoi(p.Published); err == nil && published > 0 {
				return published
			}
			if p.Target > 0 {
				return int(p.Target)
			}
		}
	}
	return 0
}

// dockerfilePort walks the Dockerfile AST and returns the first EXPOSE port.
func dockerfilePort(content []byte) int {
	ast, err := parser.Parse(strings.NewReader(string(content)))
	if err != nil {
		return 0
	}

	for _, child := range ast.AST.Children {
		if !strings.EqualFold(child.Value, "EXPOSE") {
			continue
		}
		for n := child.Next; n != nil; n = n.Next {
			spec := n.Value
			if i := strings.Index(spec, "/"); i >= 0 {
				spec = spec[:i]
			}
			if port, err := strconv.Atoi(spec); err == nil && port > 0 {
				return port
			}
		}
	}
	return 0
}
