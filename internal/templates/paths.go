package templates

import (
	"os"
	"path/filepath"
)

// SearchPaths returns template search directories in precedence order:
// project, then user, then system.
func SearchPaths(projectDir string) []string {
	paths := make([]string, 0, 3)
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".docwright", "templates"))
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "docwright", "templates"))
	}

	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "docwright", "templates"))
	return paths
}

// CustomizationDir returns the project directory customizations are loaded
// from and written to.
func CustomizationDir(projectDir string) string {
	if projectDir == "" {
		projectDir = "."
	}
	return filepath.Join(projectDir, ".docwright", "customizations")
}

// LoadTemplatesFromSearchPaths loads templates from search paths with
// first-hit precedence; builtins come last so any file of the same name
// shadows them.
func LoadTemplatesFromSearchPaths(projectDir string) ([]*Template, error) {
	paths := SearchPaths(projectDir)
	seen := make(map[string]*Template)
	order := make([]string, 0)

	for _, path := range paths {
		templates, err := LoadTemplatesFromDir(path)
		if err != nil {
			return nil, err
		}
		for _, tmpl := range templates {
			if _, exists := seen[tmpl.Name]; exists {
				continue
			}
			seen[tmpl.Name] = tmpl
			order = append(order, tmpl.Name)
		}
	}

	builtins, err := LoadBuiltinTemplates()
	if err != nil {
		return nil, err
	}
	for _, tmpl := range builtins {
		if _, exists := seen[tmpl.Name]; exists {
			continue
		}
		seen[tmpl.Name] = tmpl
		order = append(order, tmpl.Name)
	}

	resolved := make([]*Template, 0, len(order))
	for _, name := range order {
		resolved = append(resolved, seen[name])
	}

	return resolved, nil
}

// LoadedRegistry builds a registry holding the effective template set for a
// project plus its on-disk customizations.
func LoadedRegistry(projectDir string) (*Registry, error) {
	reg := NewRegistry()

	templates, err := LoadTemplatesFromSearchPaths(projectDir)
	if err != nil {
		return nil, err
	}
	for _, tmpl := range templates {
		if err := reg.Register(tmpl); err != nil {
			return nil, err
		}
	}

	customs, err := LoadCustomizationsFromDir(CustomizationDir(projectDir))
	if err != nil {
		return nil, err
	}
	for _, custom := range customs {
		if err := reg.Customize(custom); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
