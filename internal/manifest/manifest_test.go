package manifest

import (
	"encoding/json"
	"reflect"
	"regexp"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"widget", "widget"},
		{"My Cool App", "my-cool-app"},
		{"Nextcloud  (LXC)", "nextcloud-lxc"},
		{"UPPER_case.Name", "uppercasename"},
		{"already-a-slug", "already-a-slug"},
		{"  spaces  everywhere  ", "spaces-everywhere"},
		{"---", ""},
	}

	for _, tc := range cases {
		got := Slugify(tc.in)
		if got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z0-9-]*$`)
	inputs := []string{"Widget 2000", "nginx proxy manager", "über-app", "a b c"}

	for _, in := range inputs {
		once := Slugify(in)
		twice := Slugify(once)
		if once != twice {
			t.Errorf("Slugify not idempotent for %q: %q != %q", in, once, twice)
		}
		if !pattern.MatchString(once) {
			t.Errorf("Slugify(%q) = %q contains invalid characters", in, once)
		}
	}
}

func TestManifestRoundTrip(t *testing.T) {
	original := &ScriptManifest{
		Name:        "Widget",
		Slug:        "widget",
		Description: "A widget service",
		Categories:  []int{4, 102},
		Source: Source{
			Type:         "github",
			Owner:        "acme",
			Repo:         "widget",
			Branch:       "main",
			ProjectType:  ProjectNodeJS,
			BuildCommand: "npm run build",
			Entrypoint:   "server.js",
		},
		InstallMethods: []InstallMethod{
			{
				Type:   "default",
				Script: "install/widget-install.sh",
				Resources: Resources{
					CPU: 1, RAM: 1024, HDD: 8,
					OS: "debian", Version: "12",
				},
			},
		},
		InterfacePort:      3000,
		DefaultCredentials: &Credentials{Username: "admin"},
		Notes:              []string{"first run takes a while"},
	}

	data, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !reflect.DeepEqual(original, parsed) {
		t.Errorf("round trip mismatch:\noriginal: %+v\nparsed:   %+v", original, parsed)
	}

	// A second serialize cycle must be byte-stable.
	data2, err := parsed.Encode()
	if err != nil {
		t.Fatalf("second Encode failed: %v", err)
	}
	if string(data) != string(data2) {
		t.Errorf("serialization not byte-stable")
	}
}

func TestParseProjectType(t *testing.T) {
	if _, err := ParseProjectType("nodejs"); err != nil {
		t.Errorf("nodejs should parse: %v", err)
	}
	if _, err := ParseProjectType(" GOLANG "); err != nil {
		t.Errorf("case/space insensitive parse failed: %v", err)
	}
	if _, err := ParseProjectType("cobol"); err == nil {
		t.Error("expected error for unknown project type")
	}

	for _, pt := range ProjectTypes {
		if !pt.Valid() {
			t.Errorf("%s should be valid", pt)
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	m := &ScriptManifest{
		Name:          "widget",
		Slug:          "widget",
		Description:   "generated",
		InterfacePort: 3000,
		InstallMethods: []InstallMethod{
			{Resources: Resources{CPU: 1, RAM: 1024, HDD: 8}},
		},
	}

	m.Apply(Overrides{Name: "Widget Pro", RAM: 2048, Category: 102})

	if m.Name != "Widget Pro" {
		t.Errorf("name override not applied: %s", m.Name)
	}
	if m.Description != "generated" {
		t.Errorf("unset override must not clobber: %s", m.Description)
	}
	if m.InstallMethods[0].Resources.RAM != 2048 {
		t.Errorf("ram override not applied: %d", m.InstallMethods[0].Resources.RAM)
	}
	if m.InstallMethods[0].Resources.CPU != 1 {
		t.Errorf("cpu should be unchanged: %d", m.InstallMethods[0].Resources.CPU)
	}
	if len(m.Categories) != 1 || m.Categories[0] != 102 {
		t.Errorf("category override not applied: %v", m.Categories)
	}
}

func TestManifestOmitsEmptyOptionalFields(t *testing.T) {
	m := &ScriptManifest{Name: "x", Slug: "x"}
	data, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"interface_port", "default_credentials", "notes"} {
		if _, ok := raw[key]; ok {
			t.Errorf("empty %s should be omitted", key)
		}
	}
}
