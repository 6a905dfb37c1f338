package analyzer

import (
	"regexp"
	"strings"
)

// languageFor maps a file extension to a language name, or "" if unknown.
func languageFor(ext string) string {
	switch strings.ToLower(ext) {
	case ".go":
		return "Go"
	case ".js", ".jsx":
		return "JavaScript"
	case ".ts", ".tsx":
		return "TypeScript"
	case ".py":
		return "Python"
	case ".rb":
		return "Ruby"
	case ".rs":
		return "Rust"
	case ".java":
		return "Java"
	case ".sh", ".bash":
		return "Shell"
	default:
		return ""
	}
}

// endpointPattern maps a route-registration regex to its submatch layout.
// method/path are submatch indices; fixedMethod is used when the pattern
// cannot tell which HTTP method applies.
type endpointPattern struct {
	re          *regexp.Regexp
	method      int
	path        int
	fixedMethod string
}

// rules holds the extraction patterns for one language.
type rules struct {
	functions []*regexp.Regexp
	types     []*regexp.Regexp
	endpoints []endpointPattern
}

var goRules = rules{
	functions: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^func\s+(?:\([^)]+\)\s+)?([A-Za-z_]\w*)\s*\(`),
	},
	types: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^type\s+([A-Za-z_]\w*)\s+(?:struct|interface)\b`),
	},
	endpoints: []endpointPattern{
		{re: regexp.MustCompile(`\.(GET|POST|PUT|DELETE|PATCH)\(\s*"([^"]+)"`), method: 1, path: 2},
		{re: regexp.MustCompile(`\.HandleFunc\(\s*"([^"]+)"`), path: 1, fixedMethod: "ANY"},
		{re: regexp.MustCompile(`\.Handle\(\s*"([^"]+)"`), path: 1, fixedMethod: "ANY"},
	},
}

var jsRules = rules{
	functions: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s+([A-Za-z_$][\w$]*)`),
		regexp.MustCompile(`(?m)^\s*(?:export\s+)?const\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s*)?\(`),
	},
	types: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:default\s+)?class\s+([A-Za-z_$][\w$]*)`),
	},
	endpoints: []endpointPattern{
		{re: regexp.MustCompile(`(?:app|router|server)\.(get|post|put|delete|patch|all)\(\s*['"]([^'"]+)['"]`), method: 1, path: 2},
	},
}

var tsRules = rules{
	functions: jsRules.functions,
	types: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:default\s+)?class\s+([A-Za-z_$][\w$]*)`),
		regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:interface|type)\s+([A-Za-z_$][\w$]*)`),
		regexp.MustCompile(`(?m)^\s*(?:export\s+)?enum\s+([A-Za-z_$][\w$]*)`),
	},
	endpoints: jsRules.endpoints,
}

var pythonRules = rules{
	functions: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`),
	},
	types: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*class\s+([A-Za-z_]\w*)`),
	},
	endpoints: []endpointPattern{
		{re: regexp.MustCompile(`@\w+\.(get|post|put|delete|patch)\(\s*['"]([^'"]+)['"]`), method: 1, path: 2},
		{re: regexp.MustCompile(`@\w+\.route\(\s*['"]([^'"]+)['"]`), path: 1, fixedMethod: "ANY"},
	},
}

var rubyRules = rules{
	functions: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*def\s+(?:self\.)?([a-z_]\w*[?!]?)`),
	},
	types: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*(?:class|module)\s+([A-Z]\w*)`),
	},
	endpoints: []endpointPattern{
		{re: regexp.MustCompile(`(?m)^\s*(get|post|put|delete|patch)\s+['"]([^'"]+)['"]`), method: 1, path: 2},
	},
}

var rustRules = rules{
	functions: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?fn\s+([a-z_]\w*)`),
	},
	types: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*(?:pub(?:\([^)]*\))?\s+)?(?:struct|enum|trait)\s+([A-Z]\w*)`),
	},
	endpoints: []endpointPattern{
		{re: regexp.MustCompile(`#\[(get|post|put|delete|patch)\("([^"]+)"\)\]`), method: 1, path: 2},
	},
}

var javaRules = rules{
	functions: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*(?:public|private|protected)\s+(?:static\s+)?[\w<>\[\]]+\s+([a-z]\w*)\s*\(`),
	},
	types: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*(?:public\s+)?(?:final\s+|abstract\s+)?(?:class|interface|enum)\s+([A-Z]\w*)`),
	},
	endpoints: []endpointPattern{
		{re: regexp.MustCompile(`@(Get|Post|Put|Delete|Patch)Mapping\(\s*(?:value\s*=\s*)?"([^"]+)"`), method: 1, path: 2},
		{re: regexp.MustCompile(`@RequestMapping\(\s*(?:value\s*=\s*)?"([^"]+)"`), path: 1, fixedMethod: "ANY"},
	},
}

var shellRules = rules{
	functions: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*(?:function\s+)?([a-z_]\w*)\s*\(\)\s*\{`),
		regexp.MustCompile(`(?m)^function\s+([a-z_]\w*)\b`),
	},
}

func rulesFor(language string) *rules {
	switch language {
	case "Go":
		return &goRules
	case "JavaScript":
		return &jsRules
	case "TypeScript":
		return &tsRules
	case "Python":
		return &pythonRules
	case "Ruby":
		return &rubyRules
	case "Rust":
		return &rustRules
	case "Java":
		return &javaRules
	case "Shell":
		return &shellRules
	default:
		return nil
	}
}

// collectEndpoints applies the endpoint patterns and normalizes methods
// to upper case, deduplicating method+path pairs in encounter order.
func collectEndpoints(patterns []endpointPattern, content string) []Endpoint {
	var out []Endpoint
	seen := make(map[Endpoint]bool)
	for _, p := range patterns {
		for _, m := range p.re.FindAllStringSubmatch(content, -1) {
			if len(m) <= p.path {
				continue
			}
			ep := Endpoint{Path: m[p.path], Method: p.fixedMethod}
			if p.method > 0 && p.method < len(m) {
				ep.Method = strings.ToUpper(m[p.method])
			}
			if ep.Path == "" || seen[ep] {
				continue
			}
			seen[ep] = true
			out = append(out, ep)
		}
	}
	return out
}

var (
	goImportSingle = regexp.MustCompile(`(?m)^import\s+(?:[A-Za-z0-9_.]+\s+)?"([^"]+)"`)
	goImportBlock  = regexp.MustCompile(`(?s)import\s+\(([^)]*)\)`)
	goImportLine   = regexp.MustCompile(`"([^"]+)"`)
	jsImportFrom   = regexp.MustCompile(`(?m)^\s*import\s+[^;]*?from\s+['"]([^'"]+)['"]`)
	jsImportBare   = regexp.MustCompile(`(?m)^\s*import\s+['"]([^'"]+)['"]`)
	jsRequire      = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	pythonImport   = regexp.MustCompile(`(?m)^\s*import\s+([\w.]+)`)
	pythonFrom     = regexp.MustCompile(`(?m)^\s*from\s+([\w.]+)\s+import\b`)
	rubyRequire    = regexp.MustCompile(`(?m)^\s*require(?:_relative)?\s+['"]([^'"]+)['"]`)
	rustUse        = regexp.MustCompile(`(?m)^\s*use\s+([\w:]+)`)
	javaImport     = regexp.MustCompile(`(?m)^\s*import\s+(?:static\s+)?([\w.]+)\s*;`)
	shellSource    = regexp.MustCompile(`(?m)^\s*(?:source|\.)\s+(\S+)`)
)

// collectImports extracts import paths for a language, deduplicated in
// encounter order.
func collectImports(language, content string) []string {
	var patterns []*regexp.Regexp
	switch language {
	case "Go":
		return goImports(content)
	case "JavaScript", "TypeScript":
		patterns = []*regexp.Regexp{jsImportFrom, jsImportBare, jsRequire}
	case "Python":
		patterns = []*regexp.Regexp{pythonImport, pythonFrom}
	case "Ruby":
		patterns = []*regexp.Regexp{rubyRequire}
	case "Rust":
		patterns = []*regexp.Regexp{rustUse}
	case "Java":
		patterns = []*regexp.Regexp{javaImport}
	case "Shell":
		patterns = []*regexp.Regexp{shellSource}
	default:
		return nil
	}
	return collectMatches(patterns, content)
}

// goImports handles both single import statements and import blocks.
func goImports(content string) []string {
	var out []string
	seen := make(map[string]bool)

	add := func(path string) {
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		out = append(out, path)
	}

	for _, m := range goImportSingle.FindAllStringSubmatch(content, -1) {
		add(m[1])
	}
	for _, block := range goImportBlock.FindAllStringSubmatch(content, -1) {
		for _, m := range goImportLine.FindAllStringSubmatch(block[1], -1) {
			add(m[1])
		}
	}
	return out
}

var todoPattern = regexp.MustCompile(`\b(?:TODO|FIXME)\b[:\s]*(.*)`)

// findTodos scans line by line so marker positions can be reported.
func findTodos(content string) []Todo {
	var todos []Todo
	for i, line := range strings.Split(content, "\n") {
		m := todoPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[1])
		if text == "" {
			text = strings.TrimSpace(line)
		}
		todos = append(todos, Todo{Text: text, Line: i + 1})
	}
	return todos
}
