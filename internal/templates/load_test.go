package templates

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "example.yaml")

	yaml := `name: example
description: Example template
body: |
  Hello {{name}}
variables:
  - name: name
    description: Person name
    required: true
`

	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	tmpl, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}

	if tmpl.Name != "example" {
		t.Fatalf("expected name example, got %q", tmpl.Name)
	}
	if tmpl.Kind != KindGeneric {
		t.Fatalf("expected default kind generic, got %q", tmpl.Kind)
	}
	if tmpl.Source != path {
		t.Fatalf("expected source %q, got %q", path, tmpl.Source)
	}
	if len(tmpl.Variables) != 1 || tmpl.Variables[0].Name != "name" {
		t.Fatalf("unexpected variables: %+v", tmpl.Variables)
	}
}

func TestLoadTemplateInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	if err := os.WriteFile(path, []byte("name: bad\n"), 0644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	_, err := LoadTemplate(path)
	if err == nil {
		t.Fatalf("expected error for template without body")
	}
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadTemplatesFromDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.yaml":     "name: bravo\nbody: B\n",
		"a.yml":      "name: alpha\nbody: A\n",
		"ignore.txt": "not a template",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	templates, err := LoadTemplatesFromDir(dir)
	if err != nil {
		t.Fatalf("LoadTemplatesFromDir: %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(templates))
	}
	if templates[0].Name != "alpha" || templates[1].Name != "bravo" {
		t.Fatalf("expected sorted names, got %q and %q", templates[0].Name, templates[1].Name)
	}
}

func TestLoadTemplatesFromMissingDir(t *testing.T) {
	templates, err := LoadTemplatesFromDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("LoadTemplatesFromDir: %v", err)
	}
	if len(templates) != 0 {
		t.Fatalf("expected no templates, got %d", len(templates))
	}
}

func TestLoadCustomization(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")

	yaml := `name: api-doc
body: |
  # Custom API doc
variables:
  audience: internal
metadata:
  team: platform
`

	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write customization: %v", err)
	}

	custom, err := LoadCustomization(path)
	if err != nil {
		t.Fatalf("LoadCustomization: %v", err)
	}
	if custom.Name != "api-doc" {
		t.Fatalf("expected name api-doc, got %q", custom.Name)
	}
	if custom.Variables["audience"] != "internal" {
		t.Fatalf("unexpected variables: %+v", custom.Variables)
	}
	if custom.Metadata["team"] != "platform" {
		t.Fatalf("unexpected metadata: %+v", custom.Metadata)
	}
}

func TestLoadedRegistry(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	project := t.TempDir()
	templatesDir := filepath.Join(project, ".docwright", "templates")
	if err := os.MkdirAll(templatesDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	override := "name: api-doc\nkind: api-doc\nbody: project override {{timestamp}}\n"
	if err := os.WriteFile(filepath.Join(templatesDir, "api-doc.yaml"), []byte(override), 0644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	customDir := CustomizationDir(project)
	if err := os.MkdirAll(customDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	custom := "name: setup-instructions\nbody: customized setup\n"
	if err := os.WriteFile(filepath.Join(customDir, "setup.yaml"), []byte(custom), 0644); err != nil {
		t.Fatalf("write customization: %v", err)
	}

	reg, err := LoadedRegistry(project)
	if err != nil {
		t.Fatalf("LoadedRegistry: %v", err)
	}

	tmpl, err := reg.Get("api-doc")
	if err != nil {
		t.Fatalf("Get api-doc: %v", err)
	}
	if tmpl.Body != "project override {{timestamp}}\n" {
		t.Fatalf("project template should shadow the builtin, got %q", tmpl.Body)
	}

	tmpl, err = reg.Get("setup-instructions")
	if err != nil {
		t.Fatalf("Get setup-instructions: %v", err)
	}
	if tmpl.Body != "customized setup\n" {
		t.Fatalf("customization should shadow the builtin, got %q", tmpl.Body)
	}
	if tmpl.Source != "custom" {
		t.Fatalf("expected custom source, got %q", tmpl.Source)
	}

	if _, err := reg.Get("project-overview"); err != nil {
		t.Fatalf("builtin should still resolve: %v", err)
	}
}
