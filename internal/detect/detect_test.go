package detect

import (
	"context"
	"testing"

	"github.com/pvekit/scriptport/internal/manifest"
	"github.com/pvekit/scriptport/internal/source"
)

func newRepo(files map[string]string) *source.MemoryRepo {
	repo := source.NewMemoryRepo(source.Metadata{Owner: "acme", Repo: "widget"})
	for name, content := range files {
		repo.AddFile(name, []byte(content))
	}
	return repo
}

func TestDetectMarkerTable(t *testing.T) {
	cases := []struct {
		name     string
		files    map[string]string
		wantType manifest.ProjectType
		wantRes  manifest.Resources
	}{
		{
			name:     "nodejs",
			files:    map[string]string{"package.json": "{}"},
			wantType: manifest.ProjectNodeJS,
			wantRes:  manifest.Resources{CPU: 1, RAM: 1024, HDD: 8, OS: "debian", Version: "12"},
		},
		{
			name:     "python requirements",
			files:    map[string]string{"requirements.txt": "flask\n"},
			wantType: manifest.ProjectPython,
			wantRes:  manifest.Resources{CPU: 1, RAM: 1024, HDD: 4, OS: "debian", Version: "12"},
		},
		{
			name:     "python pyproject",
			files:    map[string]string{"pyproject.toml": ""},
			wantType: manifest.ProjectPython,
			wantRes:  manifest.Resources{CPU: 1, RAM: 1024, HDD: 4, OS: "debian", Version: "12"},
		},
		{
			name:     "docker",
			files:    map[string]string{"Dockerfile": "FROM alpine\n"},
			wantType: manifest.ProjectDocker,
			wantRes:  manifest.Resources{CPU: 2, RAM: 2048, HDD: 16, OS: "debian", Version: "12"},
		},
		{
			name:     "golang",
			files:    map[string]string{"go.mod": "module example.com/widget\n"},
			wantType: manifest.ProjectGolang,
			wantRes:  manifest.Resources{CPU: 1, RAM: 1024, HDD: 4, OS: "debian", Version: "12"},
		},
		{
			name:     "rust",
			files:    map[string]string{"Cargo.toml": "[package]\nname = \"widget\"\n"},
			wantType: manifest.ProjectRust,
			wantRes:  manifest.Resources{CPU: 2, RAM: 2048, HDD: 8, OS: "debian", Version: "12"},
		},
		{
			name:     "generic",
			files:    map[string]string{"README.md": "# hi\n"},
			wantType: manifest.ProjectGeneric,
			wantRes:  manifest.Resources{CPU: 1, RAM: 512, HDD: 4, OS: "debian", Version: "12"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			det, err := Detect(context.Background(), newRepo(tc.files))
			if err != nil {
				t.Fatalf("Detect failed: %v", err)
			}
			if det.Type != tc.wantType {
				t.Errorf("type = %s, want %s", det.Type, tc.wantType)
			}
			if det.Resources != tc.wantRes {
				t.Errorf("resources = %+v, want %+v", det.Resources, tc.wantRes)
			}
		})
	}
}

func TestDetectPriorityTieBreak(t *testing.T) {
	// package.json and requirements.txt together must resolve to nodejs:
	// checks run in fixed priority order and the first match wins.
	repo := newRepo(map[string]string{
		"package.json":     "{}",
		"requirements.txt": "django\n",
		"Dockerfile":       "FROM node\n",
	})

	det, err := Detect(context.Background(), repo)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if det.Type != manifest.ProjectNodeJS {
		t.Errorf("type = %s, want nodejs", det.Type)
	}
}

func TestNodeInspect(t *testing.T) {
	repo := newRepo(map[string]string{
		"package.json": `{
			"name": "widget",
			"description": "a widget",
			"main": "server.js",
			"scripts": {"build": "tsc", "start": "node server.js"}
		}`,
	})

	det, err := Detect(context.Background(), repo)
	if err != nil {
		t.Fatal(err)
	}
	if det.Port != 3000 {
		t.Errorf("port = %d, want 3000", det.Port)
	}
	if det.Entrypoint != "server.js" {
		t.Errorf("entrypoint = %s, want server.js", det.Entrypoint)
	}
	if det.BuildCommand != "npm run build" {
		t.Errorf("build command = %q", det.BuildCommand)
	}
	if det.Description != "a widget" {
		t.Errorf("description = %q", det.Description)
	}
}

func TestNodeInspectMalformedPackageJSON(t *testing.T) {
	repo := newRepo(map[string]string{"package.json": "{not json"})

	det, err := Detect(context.Background(), repo)
	if err != nil {
		t.Fatal(err)
	}
	if det.Type != manifest.ProjectNodeJS || det.BuildCommand != "" || det.Port != 3000 {
		t.Errorf("malformed package.json should fall back to defaults, got %+v", det)
	}
}

func TestDockerfilePort(t *testing.T) {
	repo := newRepo(map[string]string{
		"Dockerfile": "FROM alpine\nEXPOSE 9090/tcp 9091\nCMD [\"./run\"]\n",
	})

	det, err := Detect(context.Background(), repo)
	if err != nil {
		t.Fatal(err)
	}
	if det.Port != 9090 {
		t.Errorf("port = %d, want 9090", det.Port)
	}
}

func TestComposePort(t *testing.T) {
	repo := newRepo(map[string]string{
		"docker-compose.yml": `
services:
  web:
    image: nginx
    ports:
      - "8123:80"
`,
	})

	det, err := Detect(context.Background(), repo)
	if err != nil {
		t.Fatal(err)
	}
	if det.Type != manifest.ProjectDocker {
		t.Fatalf("type = %s", det.Type)
	}
	if det.Port != 8123 {
		t.Errorf("port = %d, want 8123", det.Port)
	}
}

func TestPythonInspect(t *testing.T) {
	repo := newRepo(map[string]string{
		"pyproject.toml": "[project]\nname = \"widget\"\ndescription = \"py widget\"\n",
		"app.py":         "print('hi')\n",
	})

	det, err := Detect(context.Background(), repo)
	if err != nil {
		t.Fatal(err)
	}
	if det.Entrypoint != "app.py" {
		t.Errorf("entrypoint = %s, want app.py", det.Entrypoint)
	}
	if det.Name != "widget" || det.Description != "py widget" {
		t.Errorf("pyproject metadata not extracted: %+v", det)
	}
}

func TestGoModuleName(t *testing.T) {
	repo := newRepo(map[string]string{
		"go.mod": "module github.com/acme/widgetd\n\ngo 1.22\n",
	})

	det, err := Detect(context.Background(), repo)
	if err != nil {
		t.Fatal(err)
	}
	if det.Name != "widgetd" {
		t.Errorf("name = %q, want widgetd", det.Name)
	}
}
