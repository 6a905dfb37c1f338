package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Caps keep generated documents readable for large trees.
const (
	maxContextFunctions    = 50
	maxContextTodos        = 30
	maxContextDependencies = 20
)

// BuildContext converts a project summary into template variables. Every
// list is a []any of map[string]any so each-blocks can iterate it, and
// every map carries all the fields the builtin templates reference.
func BuildContext(p *ProjectSummary) map[string]any {
	vars := map[string]any{
		"projectName": filepath.Base(p.Root),
		"fileCount":   len(p.Files),
		"languages":   languagesLine(p.Languages),
	}

	if desc := readmeDescription(p.Root); desc != "" {
		vars["description"] = desc
	}

	var (
		functions []any
		endpoints []any
		todos     []any
		funcTotal int
		typeTotal int
	)

	for _, f := range p.Files {
		funcTotal += len(f.Functions)
		typeTotal += len(f.Types)

		for _, name := range f.Functions {
			if len(functions) >= maxContextFunctions {
				break
			}
			if f.Language == "Go" && !isExported(name) {
				continue
			}
			functions = append(functions, map[string]any{
				"signature": name + "()",
				"file":      f.Path,
			})
		}

		for _, ep := range f.Endpoints {
			endpoints = append(endpoints, map[string]any{
				"method":  ep.Method,
				"path":    ep.Path,
				"summary": "",
				"file":    f.Path,
			})
		}

		for _, todo := range f.Todos {
			if len(todos) >= maxContextTodos {
				break
			}
			todos = append(todos, map[string]any{
				"text": todo.Text,
				"file": f.Path,
				"line": todo.Line,
			})
		}
	}

	vars["functionCount"] = funcTotal
	vars["typeCount"] = typeTotal
	if len(functions) > 0 {
		vars["functions"] = functions
	}
	if len(endpoints) > 0 {
		vars["endpoints"] = endpoints
	}
	if len(todos) > 0 {
		vars["todos"] = todos
	}

	if components := buildComponents(p); len(components) > 0 {
		vars["components"] = components
	}
	if deps := buildDependencies(p); len(deps) > 0 {
		vars["dependencies"] = deps
	}

	files := make([]any, 0, len(p.Files))
	for _, f := range p.Files {
		files = append(files, map[string]any{
			"path":     f.Path,
			"language": f.Language,
			"lines":    f.Lines,
		})
	}
	if len(files) > 0 {
		vars["files"] = files
	}

	return vars
}

// languagesLine renders the language histogram, most files first.
func languagesLine(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s (%d)", name, counts[name]))
	}
	return strings.Join(parts, ", ")
}

// buildComponents groups files by top-level directory.
func buildComponents(p *ProjectSummary) []any {
	type component struct {
		files     int
		languages map[string]int
	}

	byDir := make(map[string]*component)
	for _, f := range p.Files {
		dir := topLevelDir(f.Path)
		c := byDir[dir]
		if c == nil {
			c = &component{languages: make(map[string]int)}
			byDir[dir] = c
		}
		c.files++
		c.languages[f.Language]++
	}

	names := make([]string, 0, len(byDir))
	for name := range byDir {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]any, 0, len(names))
	for _, name := range names {
		c := byDir[name]
		out = append(out, map[string]any{
			"name":      name,
			"purpose":   purposeFor(c.languages),
			"fileCount": c.files,
		})
	}
	return out
}

func topLevelDir(path string) string {
	path = filepath.ToSlash(path)
	if i := strings.Index(path, "/"); i > 0 {
		return path[:i]
	}
	return "(root)"
}

func purposeFor(languages map[string]int) string {
	dominant := ""
	best := 0
	for name, count := range languages {
		if count > best || (count == best && name < dominant) {
			dominant = name
			best = count
		}
	}
	if dominant == "" {
		return "Mixed sources."
	}
	return fmt.Sprintf("Primarily %s sources.", dominant)
}

// buildDependencies aggregates imports that look external, sorted.
func buildDependencies(p *ProjectSummary) []any {
	seen := make(map[string]bool)
	for _, f := range p.Files {
		for _, imp := range f.Imports {
			if externalImport(f.Language, imp) {
				seen[imp] = true
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	deps := make([]string, 0, len(seen))
	for dep := range seen {
		deps = append(deps, dep)
	}
	sort.Strings(deps)
	if len(deps) > maxContextDependencies {
		deps = deps[:maxContextDependencies]
	}

	out := make([]any, 0, len(deps))
	for _, dep := range deps {
		out = append(out, dep)
	}
	return out
}

// externalImport is a heuristic; precision varies by language.
func externalImport(language, path string) bool {
	switch language {
	case "Go":
		first := path
		if i := strings.Index(path, "/"); i > 0 {
			first = path[:i]
		}
		return strings.Contains(first, ".")
	case "JavaScript", "TypeScript":
		return !strings.HasPrefix(path, ".") && !strings.HasPrefix(path, "/")
	case "Python", "Ruby":
		return !strings.HasPrefix(path, ".")
	case "Rust":
		first := path
		if i := strings.Index(path, "::"); i > 0 {
			first = path[:i]
		}
		switch first {
		case "std", "core", "alloc", "crate", "self", "super":
			return false
		}
		return true
	case "Java":
		return !strings.HasPrefix(path, "java.") && !strings.HasPrefix(path, "javax.")
	default:
		return false
	}
}

// isExported reports whether a Go identifier is exported.
func isExported(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c >= 'A' && c <= 'Z'
}

// readmeDescription pulls the first prose paragraph out of the project
// README, skipping headings and badge lines.
func readmeDescription(root string) string {
	var data []byte
	for _, name := range []string{"README.md", "README", "readme.md"} {
		b, err := os.ReadFile(filepath.Join(root, name))
		if err == nil {
			data = b
			break
		}
	}
	if len(data) == 0 {
		return ""
	}

	var paragraph []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(paragraph) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[!") || strings.HasPrefix(trimmed, "<") {
			if len(paragraph) > 0 {
				break
			}
			continue
		}
		paragraph = append(paragraph, trimmed)
	}

	desc := strings.Join(paragraph, " ")
	if len(desc) > 240 {
		desc = desc[:240] + "..."
	}
	return desc
}
