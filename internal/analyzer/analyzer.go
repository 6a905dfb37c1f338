// Package analyzer extracts a structural summary of a source tree using
// regular expressions. It favors breadth over precision: enough signal for
// documentation templates without dragging in per-language parsers.
package analyzer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/docwright-ai/docwright/internal/logging"
)

// ErrUnsupportedFile is returned for files whose language is not recognized.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Files larger than this are skipped; generated bundles and lockfiles
// drown the summary in noise.
const maxFileSize = 1 << 20

// Todo is a TODO or FIXME marker found in a source file.
type Todo struct {
	Text string
	Line int
}

// Endpoint is an HTTP route registration found in a source file.
type Endpoint struct {
	Method string
	Path   string
}

// FileSummary describes a single analyzed source file.
type FileSummary struct {
	// Path is relative to the analyzed root.
	Path      string
	Language  string
	Lines     int
	Functions []string
	Types     []string
	Imports   []string
	Endpoints []Endpoint
	Todos     []Todo
}

// ProjectSummary aggregates file summaries across a source tree.
type ProjectSummary struct {
	Root       string
	Files      []FileSummary
	Languages  map[string]int
	TotalLines int
}

// Analyzer walks source trees and extracts summaries.
type Analyzer struct {
	extensions map[string]bool
	ignore     map[string]bool
	logger     zerolog.Logger
}

var defaultExtensions = []string{".go", ".js", ".jsx", ".ts", ".tsx", ".py", ".rb", ".rs", ".java", ".sh"}

var defaultIgnore = []string{".git", "vendor", "node_modules", "dist", "build"}

// New creates an analyzer. Empty extensions or ignore lists fall back to
// the package defaults.
func New(extensions, ignore []string) *Analyzer {
	if len(extensions) == 0 {
		extensions = defaultExtensions
	}
	if len(ignore) == 0 {
		ignore = defaultIgnore
	}

	a := &Analyzer{
		extensions: make(map[string]bool, len(extensions)),
		ignore:     make(map[string]bool, len(ignore)),
		logger:     logging.Component("analyzer"),
	}
	for _, ext := range extensions {
		a.extensions[ext] = true
	}
	for _, name := range ignore {
		a.ignore[name] = true
	}
	return a
}

// AnalyzeFile analyzes a single file on disk.
func (a *Analyzer) AnalyzeFile(path string) (*FileSummary, error) {
	language := languageFor(filepath.Ext(path))
	if language == "" {
		return nil, ErrUnsupportedFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	summary := analyzeContent(path, language, string(data))
	return &summary, nil
}

// AnalyzeDir walks root and analyzes every recognized source file, skipping
// ignored directories. A missing root is an error; an empty tree is not.
func (a *Analyzer) AnalyzeDir(root string) (*ProjectSummary, error) {
	project := &ProjectSummary{
		Root:      root,
		Languages: make(map[string]int),
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && a.ignore[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if !a.extensions[ext] {
			return nil
		}
		language := languageFor(ext)
		if language == "" {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > maxFileSize {
			a.logger.Debug().Str("path", path).Int64("size", info.Size()).Msg("skipping oversized file")
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}

		summary := analyzeContent(rel, language, string(data))
		project.Files = append(project.Files, summary)
		project.Languages[language]++
		project.TotalLines += summary.Lines
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.logger.Debug().
		Str("root", root).
		Int("files", len(project.Files)).
		Int("lines", project.TotalLines).
		Msg("analysis complete")

	return project, nil
}

// analyzeContent runs the language rules over file content.
func analyzeContent(path, language, content string) FileSummary {
	summary := FileSummary{
		Path:     path,
		Language: language,
		Lines:    countLines(content),
		Todos:    findTodos(content),
	}

	r := rulesFor(language)
	if r == nil {
		return summary
	}

	summary.Functions = collectMatches(r.functions, content)
	summary.Types = collectMatches(r.types, content)
	summary.Imports = collectImports(language, content)
	summary.Endpoints = collectEndpoints(r.endpoints, content)
	return summary
}

// collectMatches applies patterns and returns first-submatch captures,
// deduplicated in encounter order.
func collectMatches(patterns []*regexp.Regexp, content string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		for _, m := range p.FindAllStringSubmatch(content, -1) {
			if len(m) < 2 || m[1] == "" {
				continue
			}
			if seen[m[1]] {
				continue
			}
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
