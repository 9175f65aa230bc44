// Package script renders installation shell scripts from deployment
// manifests. Rendering is a pure function of the manifest: identical input
// yields identical output, and nothing here touches the filesystem.
package script

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/pvekit/scriptport/internal/manifest"
)

// Section is one named part of a generated script. Scripts are assembled
// from an ordered list of sections so individual parts stay testable.
type Section struct {
	Name string
	Body string
}

// Pinned runtime versions installed by the dependency sections.
const (
	nodeMajor = 22
	goVersion = "1.22.5"
)

// scriptData is the template input derived from one manifest.
type scriptData struct {
	Name       string
	Slug       string
	Owner      string
	Repo       string
	Branch     string
	CloneURL   string
	InstallDir string
	Port       int

	BuildCommand string
	Entrypoint   string

	Alpine    bool
	NodeMajor int
	GoVersion string
}

func newScriptData(m *manifest.ScriptManifest) scriptData {
	data := scriptData{
		Name:         m.Name,
		Slug:         m.Slug,
		Owner:        m.Source.Owner,
		Repo:         m.Source.Repo,
		Branch:       m.Source.Branch,
		CloneURL:     fmt.Sprintf("https://github.com/%s/%s.git", m.Source.Owner, m.Source.Repo),
		InstallDir:   "/opt/" + m.Slug,
		Port:         m.InterfacePort,
		BuildCommand: m.Source.BuildCommand,
		Entrypoint:   m.Source.Entrypoint,
		NodeMajor:    nodeMajor,
		GoVersion:    goVersion,
	}
	if len(m.InstallMethods) > 0 {
		data.Alpine = strings.EqualFold(m.InstallMethods[0].Resources.OS, "alpine")
	}
	return data
}

// Render produces the ordered sections for the manifest. The section list is
// a table dispatch on project type: every type gets a dependency and build
// section; long-lived runtimes additionally get a service section. Docker
// deliberately has none, the daemon manages its own lifecycle.
func Render(m *manifest.ScriptManifest) ([]Section, error) {
	if !m.Source.ProjectType.Valid() {
		return nil, fmt.Errorf("unsupported project type: %q", m.Source.ProjectType)
	}

	data := newScriptData(m)
	sections := []Section{
		{Name: "header", Body: render(headerTmpl, data)},
	}

	switch m.Source.ProjectType {
	case manifest.ProjectNodeJS:
		sections = append(sections,
			Section{Name: "deps", Body: render(nodeDepsTmpl, data)},
			Section{Name: "build", Body: render(nodeBuildTmpl, data)},
			serviceSection(data, "/usr/bin/node "+data.InstallDir+"/"+entryOr(data.Entrypoint, "index.js")),
		)
	case manifest.ProjectPython:
		sections = append(sections,
			Section{Name: "deps", Body: render(pythonDepsTmpl, data)},
			Section{Name: "build", Body: render(pythonBuildTmpl, data)},
			serviceSection(data, data.InstallDir+"/.venv/bin/python "+data.InstallDir+"/"+entryOr(data.Entrypoint, "main.py")),
		)
	case manifest.ProjectDocker:
		sections = append(sections,
			Section{Name: "deps", Body: render(dockerDepsTmpl, data)},
			Section{Name: "build", Body: render(dockerBuildTmpl, data)},
		)
	case manifest.ProjectGolang:
		sections = append(sections,
			Section{Name: "deps", Body: render(goDepsTmpl, data)},
			Section{Name: "build", Body: render(goBuildTmpl, data)},
			serviceSection(data, data.InstallDir+"/"+data.Slug),
		)
	case manifest.ProjectRust:
		sections = append(sections,
			Section{Name: "deps", Body: render(rustDepsTmpl, data)},
			Section{Name: "build", Body: render(rustBuildTmpl, data)},
		)
	case manifest.ProjectGeneric:
		sections = append(sections,
			Section{Name: "deps", Body: render(genericDepsTmpl, data)},
			Section{Name: "build", Body: render(genericBuildTmpl, data)},
		)
	}

	return sections, nil
}

// Generate renders the manifest into the final flattened script text.
func Generate(m *manifest.ScriptManifest) (string, error) {
	sections, err := Render(m)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, s := range sections {
		b.WriteString(s.Body)
		if !strings.HasSuffix(s.Body, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func entryOr(entry, fallback string) string {
	if entry == "" {
		return fallback
	}
	return entry
}

func render(t *template.Template, data scriptData) string {
	var b strings.Builder
	// Templates are static and data is a plain struct; execution errors are
	// programming mistakes, not runtime conditions.
	if err := t.Execute(&b, data); err != nil {
		panic(fmt.Sprintf("script template %s: %v", t.Name(), err))
	}
	return b.String()
}
