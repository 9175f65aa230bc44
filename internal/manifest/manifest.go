// Package manifest defines the deployment manifest format for imported
// projects and the slug derivation rules shared by every pipeline stage.
package manifest

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// ProjectType is the coarse runtime classification driving template selection.
type ProjectType string

const (
	ProjectNodeJS  ProjectType = "nodejs"
	ProjectPython  ProjectType = "python"
	ProjectDocker  ProjectType = "docker"
	ProjectGolang  ProjectType = "golang"
	ProjectRust    ProjectType = "rust"
	ProjectGeneric ProjectType = "generic"
)

// ProjectTypes lists every supported classification in detection priority order.
var ProjectTypes = []ProjectType{
	ProjectNodeJS,
	ProjectPython,
	ProjectDocker,
	ProjectGolang,
	ProjectRust,
	ProjectGeneric,
}

// Valid reports whether t is one of the supported project types.
func (t ProjectType) Valid() bool {
	switch t {
	case ProjectNodeJS, ProjectPython, ProjectDocker, ProjectGolang, ProjectRust, ProjectGeneric:
		return true
	}
	return false
}

// ParseProjectType converts a string tag into a ProjectType.
func ParseProjectType(s string) (ProjectType, error) {
	t := ProjectType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown project type: %q", s)
	}
	return t, nil
}

// Resources describes the container sizing for one install method.
type Resources struct {
	CPU     int    `json:"cpu"`
	RAM     int    `json:"ram"`
	HDD     int    `json:"hdd"`
	OS      string `json:"os,omitempty"`
	Version string `json:"version,omitempty"`
}

// InstallMethod describes one way to install the project.
type InstallMethod struct {
	Type      string    `json:"type"`
	Script    string    `json:"script"`
	Resources Resources `json:"resources"`
}

// Source identifies where the project comes from and how it was classified.
// BuildCommand and Entrypoint carry detection results so script generation
// stays a pure function of the manifest.
type Source struct {
	Type         string      `json:"type"`
	Owner        string      `json:"owner"`
	Repo         string      `json:"repo"`
	Branch       string      `json:"branch"`
	ProjectType  ProjectType `json:"project_type"`
	BuildCommand string      `json:"build_command,omitempty"`
	Entrypoint   string      `json:"entrypoint,omitempty"`
}

// Credentials holds informational default login details. No behavioral effect.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// ScriptManifest describes one importable project.
type ScriptManifest struct {
	Name               string          `json:"name"`
	Slug               string          `json:"slug"`
	Description        string          `json:"description"`
	Categories         []int           `json:"categories"`
	Source             Source          `json:"source"`
	InstallMethods     []InstallMethod `json:"install_methods"`
	InterfacePort      int             `json:"interface_port,omitempty"`
	DefaultCredentials *Credentials    `json:"default_credentials,omitempty"`
	Notes              []string        `json:"notes,omitempty"`
}

// Parse decodes a manifest from JSON.
func Parse(data []byte) (*ScriptManifest, error) {
	var m ScriptManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Encode serializes the manifest as indented JSON, the on-disk format.
func (m *ScriptManifest) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// Slugify derives a filesystem/URL-safe identifier from a display name:
// lowercase, whitespace collapsed to "-", everything outside [a-z0-9-]
// stripped. Idempotent.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case unicode.IsSpace(r), r == '-':
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Overrides are user-supplied values merged on top of a generated or fetched
// manifest, taking precedence field-by-field. Zero values mean "not set".
type Overrides struct {
	Name        string
	Description string
	Category    int
	CPU         int
	RAM         int
	HDD         int
	Port        int
}

// Apply merges the overrides into the manifest.
func (m *ScriptManifest) Apply(o Overrides) {
	if o.Name != "" {
		m.Name = o.Name
	}
	if o.Description != "" {
		m.Description = o.Description
	}
	if o.Category != 0 {
		m.Categories = []int{o.Category}
	}
	if o.Port != 0 {
		m.InterfacePort = o.Port
	}
	for i := range m.InstallMethods {
		if o.CPU != 0 {
			m.InstallMethods[i].Resources.CPU = o.CPU
		}
		if o.RAM != 0 {
			m.InstallMethods[i].Resources.RAM = o.RAM
		}
		if o.HDD != 0 {
			m.InstallMethods[i].Resources.HDD = o.HDD
		}
	}
}
