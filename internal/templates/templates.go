// Package templates provides the documentation template engine: a registry
// of builtin and customized templates plus a directive resolver for
// conditional and iterative blocks.
package templates

import "time"

// Kind classifies what a template documents.
type Kind string

const (
	KindAPIDoc       Kind = "api-doc"
	KindSetup        Kind = "setup-instructions"
	KindArchitecture Kind = "architecture-notes"
	KindGeneric      Kind = "generic"
)

func validKind(k Kind) bool {
	switch k {
	case KindAPIDoc, KindSetup, KindArchitecture, KindGeneric:
		return true
	default:
		return false
	}
}

// Template represents a single documentation template.
type Template struct {
	Name        string     `yaml:"name"`
	Kind        Kind       `yaml:"kind,omitempty"`
	Description string     `yaml:"description"`
	Body        string     `yaml:"body"`
	Variables   []Variable `yaml:"variables,omitempty"`
	Source      string     // file path, "builtin", or "custom"
}

// Variable describes a variable used in a template body.
type Variable struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type,omitempty"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	Required    bool   `yaml:"required"`
}

// Customization overrides a template body while keeping the template name.
// Its variables act as defaults merged under the caller's variables at
// render time.
type Customization struct {
	Name      string            `yaml:"name"`
	Body      string            `yaml:"body"`
	Variables map[string]any    `yaml:"variables,omitempty"`
	Metadata  map[string]string `yaml:"metadata,omitempty"`
}

// Metadata carries the reserved render placeholders. The engine substitutes
// {{timestamp}}, {{version}} and {{source}} from these fields before user
// variables, so user variables with those names never take effect.
type Metadata struct {
	GeneratedAt time.Time
	Version     string
	Source      string
}

// Context bundles everything a single render needs.
type Context struct {
	Variables map[string]any
	Metadata  Metadata
}
