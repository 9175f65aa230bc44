package detect

import (
	"bufio"
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/pvekit/scriptport/internal/manifest"
	"github.com/pvekit/scriptport/internal/source"
)

const defaultGoPort = 8080

type golangDetector struct{}

func (d *golangDetector) Type() manifest.ProjectType {
	return manifest.ProjectGolang
}

func (d *golangDetector) Match(entries []string) bool {
	return hasEntry(entries, "go.mod")
}

func (d *golangDetector) Inspect(ctx context.Context, repo source.Repository, _ []string) Detection {
	det := Detection{
		Type:      manifest.ProjectGolang,
		Resources: defaultResources(1, 1024, 4),
		Port:      defaultGoPort,
	}

	if data, err := repo.ReadFile(ctx, "go.mod"); err == nil {
		if module := modulePath(data); module != "" {
			det.Name = path.Base(module)
		}
	}

	return det
}

// modulePath extracts the module path from go.mod content.
func modulePath(data []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if rest, ok := strings.CutPrefix(line, "module "); ok {
			return strings.Trim(strings.TrimSpace(rest), `"`)
		}
	}
	return ""
}
