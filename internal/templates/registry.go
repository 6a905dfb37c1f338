package templates

import (
	"sort"
	"strings"
)

// Registry holds templates plus a customization overlay that shadows them
// by name. It is not safe for concurrent mutation: register and customize
// during setup, then render.
type Registry struct {
	templates      map[string]*Template
	customizations map[string]*Customization
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		templates:      make(map[string]*Template),
		customizations: make(map[string]*Customization),
	}
}

// DefaultRegistry creates a registry preloaded with the builtin templates.
func DefaultRegistry() (*Registry, error) {
	reg := NewRegistry()
	builtins, err := LoadBuiltinTemplates()
	if err != nil {
		return nil, err
	}
	for _, tmpl := range builtins {
		if err := reg.Register(tmpl); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Register adds or replaces a template. All validation rules are checked
// and every violation is reported in one ValidationError.
func (r *Registry) Register(tmpl *Template) error {
	if err := validateTemplate(tmpl); err != nil {
		return err
	}
	if tmpl.Kind == "" {
		tmpl.Kind = KindGeneric
	}
	r.templates[tmpl.Name] = tmpl
	return nil
}

// Get returns the effective template for name. A customization shadows the
// registered template of the same name; the synthesized result inherits the
// base template's kind, description and declared variables when a base
// exists. Unknown names return a NotFoundError.
func (r *Registry) Get(name string) (*Template, error) {
	if custom, ok := r.customizations[name]; ok {
		return r.synthesize(custom), nil
	}
	if tmpl, ok := r.templates[name]; ok {
		return tmpl, nil
	}
	return nil, &NotFoundError{Name: name}
}

// List returns the effective template set: registered templates in name
// order, then customization-only templates in name order.
func (r *Registry) List() []*Template {
	base := make([]*Template, 0, len(r.templates))
	for name, tmpl := range r.templates {
		if custom, ok := r.customizations[name]; ok {
			base = append(base, r.synthesize(custom))
			continue
		}
		base = append(base, tmpl)
	}
	sort.Slice(base, func(i, j int) bool { return base[i].Name < base[j].Name })

	extra := make([]*Template, 0)
	for name, custom := range r.customizations {
		if _, ok := r.templates[name]; ok {
			continue
		}
		extra = append(extra, r.synthesize(custom))
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Name < extra[j].Name })

	return append(base, extra...)
}

// Customize installs or replaces a customization. All validation rules are
// checked and every violation is reported in one ValidationError.
func (r *Registry) Customize(custom *Customization) error {
	if err := validateCustomization(custom); err != nil {
		return err
	}
	r.customizations[custom.Name] = custom
	return nil
}

// GetCustom returns the customization for name, if any.
func (r *Registry) GetCustom(name string) (*Customization, bool) {
	custom, ok := r.customizations[name]
	return custom, ok
}

// RemoveCustom deletes the customization for name and reports whether one
// existed. After removal, Get falls back to the registered template.
func (r *Registry) RemoveCustom(name string) bool {
	if _, ok := r.customizations[name]; !ok {
		return false
	}
	delete(r.customizations, name)
	return true
}

// synthesize builds the effective template for a customization.
func (r *Registry) synthesize(custom *Customization) *Template {
	tmpl := &Template{
		Name:   custom.Name,
		Kind:   KindGeneric,
		Body:   custom.Body,
		Source: "custom",
	}
	if base, ok := r.templates[custom.Name]; ok {
		tmpl.Kind = base.Kind
		tmpl.Description = base.Description
		tmpl.Variables = base.Variables
	}
	return tmpl
}

func validateTemplate(tmpl *Template) error {
	v := &ValidationError{}
	if tmpl == nil {
		v.add("template", "is required")
		return v
	}
	if strings.TrimSpace(tmpl.Name) == "" {
		v.add("name", "is required")
	}
	if strings.TrimSpace(tmpl.Body) == "" {
		v.add("body", "is required")
	}
	if tmpl.Kind != "" && !validKind(tmpl.Kind) {
		v.add("kind", "unknown kind "+string(tmpl.Kind))
	}
	seen := make(map[string]struct{}, len(tmpl.Variables))
	for i, variable := range tmpl.Variables {
		name := strings.TrimSpace(variable.Name)
		if name == "" {
			v.add("variables", "variable name is required")
			continue
		}
		if _, dup := seen[name]; dup {
			v.add("variables", "duplicate variable "+name)
			continue
		}
		seen[name] = struct{}{}
		tmpl.Variables[i].Name = name
	}
	return v.err()
}

func validateCustomization(custom *Customization) error {
	v := &ValidationError{}
	if custom == nil {
		v.add("customization", "is required")
		return v
	}
	if strings.TrimSpace(custom.Name) == "" {
		v.add("name", "is required")
	}
	if strings.TrimSpace(custom.Body) == "" {
		v.add("body", "is required")
	}
	return v.err()
}
