package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadTemplate reads a single template from disk.
func LoadTemplate(path string) (*Template, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("template path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}

	tmpl, err := parseTemplate(data)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}
	tmpl.Source = path
	return tmpl, nil
}

// LoadTemplatesFromDir loads all templates from a directory. A missing
// directory yields an empty result, not an error.
func LoadTemplatesFromDir(dir string) ([]*Template, error) {
	if strings.TrimSpace(dir) == "" {
		return []*Template{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Template{}, nil
		}
		return nil, fmt.Errorf("read templates dir %s: %w", dir, err)
	}

	templates := make([]*Template, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		tmpl, err := LoadTemplate(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})

	return templates, nil
}

func parseTemplate(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, err
	}

	tmpl.Name = strings.TrimSpace(tmpl.Name)
	tmpl.Description = strings.TrimSpace(tmpl.Description)
	if err := validateTemplate(&tmpl); err != nil {
		return nil, err
	}
	if tmpl.Kind == "" {
		tmpl.Kind = KindGeneric
	}
	return &tmpl, nil
}

// LoadCustomization reads a single customization from disk.
func LoadCustomization(path string) (*Customization, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("customization path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read customization %s: %w", path, err)
	}

	custom, err := parseCustomization(data)
	if err != nil {
		return nil, fmt.Errorf("parse customization %s: %w", path, err)
	}
	return custom, nil
}

// LoadCustomizationsFromDir loads all customizations from a directory. A
// missing directory yields an empty result, not an error.
func LoadCustomizationsFromDir(dir string) ([]*Customization, error) {
	if strings.TrimSpace(dir) == "" {
		return []*Customization{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Customization{}, nil
		}
		return nil, fmt.Errorf("read customizations dir %s: %w", dir, err)
	}

	customs := make([]*Customization, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		custom, err := LoadCustomization(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		customs = append(customs, custom)
	}

	sort.Slice(customs, func(i, j int) bool {
		return customs[i].Name < customs[j].Name
	})

	return customs, nil
}

func parseCustomization(data []byte) (*Customization, error) {
	var custom Customization
	if err := yaml.Unmarshal(data, &custom); err != nil {
		return nil, err
	}

	custom.Name = strings.TrimSpace(custom.Name)
	if err := validateCustomization(&custom); err != nil {
		return nil, err
	}
	return &custom, nil
}
