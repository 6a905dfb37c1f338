package templates

import (
	"strings"
	"testing"
)

func TestLoadBuiltinTemplates(t *testing.T) {
	templates, err := LoadBuiltinTemplates()
	if err != nil {
		t.Fatalf("LoadBuiltinTemplates: %v", err)
	}
	if len(templates) < 4 {
		t.Fatalf("expected at least 4 builtin templates, got %d", len(templates))
	}

	names := make(map[string]bool)
	for _, tmpl := range templates {
		if tmpl.Source != "builtin" {
			t.Fatalf("expected builtin source, got %q", tmpl.Source)
		}
		if strings.TrimSpace(tmpl.Body) == "" {
			t.Fatalf("builtin template %q has no body", tmpl.Name)
		}
		names[tmpl.Name] = true
	}

	for _, want := range []string{"api-doc", "setup-instructions", "architecture-notes", "project-overview"} {
		if !names[want] {
			t.Errorf("missing builtin template %q", want)
		}
	}
}

func TestBuiltinTemplatesRender(t *testing.T) {
	reg, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}
	engine := NewEngine(reg)

	for _, tmpl := range reg.List() {
		t.Run(tmpl.Name, func(t *testing.T) {
			out := engine.RenderWithFallback(tmpl.Name, Context{
				Variables: map[string]any{"projectName": "demo"},
				Metadata:  testMetadata(),
			}, nil)
			if strings.TrimSpace(out) == "" {
				t.Fatalf("builtin %q rendered empty output", tmpl.Name)
			}
			if strings.Contains(out, "{{#if") || strings.Contains(out, "{{#each") {
				t.Fatalf("builtin %q left directives unresolved:\n%s", tmpl.Name, out)
			}
		})
	}
}
