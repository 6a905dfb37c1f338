package templates

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
)

// defaultMaxPasses bounds the fixed-point resolver. Ten passes cover any
// realistic nesting depth; markers still unresolved after the budget stay
// in the output rather than erroring.
const defaultMaxPasses = 10

// Engine renders templates from a registry. The render path performs no
// file or network I/O.
type Engine struct {
	registry  *Registry
	maxPasses int
	logger    zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxPasses overrides the directive resolution pass budget.
func WithMaxPasses(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPasses = n
		}
	}
}

// WithLogger attaches a logger for render diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine over the given registry.
func NewEngine(registry *Registry, opts ...Option) *Engine {
	e := &Engine{
		registry:  registry,
		maxPasses: defaultMaxPasses,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render resolves the named template against ctx. A lookup miss returns a
// NotFoundError; every failure past lookup is wrapped in a RenderError.
func (e *Engine) Render(name string, ctx Context) (string, error) {
	tmpl, err := e.registry.Get(name)
	if err != nil {
		return "", err
	}

	data := make(map[string]any, len(ctx.Variables))
	for k, v := range ctx.Variables {
		data[k] = v
	}

	if custom, ok := e.registry.GetCustom(name); ok {
		for k, v := range custom.Variables {
			if cur, present := data[k]; unsetValue(cur, present) {
				data[k] = v
			}
		}
	}

	for _, variable := range tmpl.Variables {
		value, present := data[variable.Name]
		if !unsetValue(value, present) {
			continue
		}
		if variable.Default != "" {
			data[variable.Name] = variable.Default
			continue
		}
		if variable.Required {
			return "", &RenderError{Template: name, Cause: fmt.Errorf("missing required variable %q", variable.Name)}
		}
	}

	md := ctx.Metadata
	if md.GeneratedAt.IsZero() {
		md.GeneratedAt = time.Now().UTC()
	}

	resolved := e.resolveDirectives(tmpl.Body, data)
	return substitute(resolved, data, md), nil
}

// RenderWithFallback renders the named template and never fails: on error
// it retries once with fallback values filling unset variables, and when
// that also fails it produces a minimal default document. The result is
// never empty. A panic anywhere in the pipeline is absorbed into the
// default document, keeping the no-error contract.
func (e *Engine) RenderWithFallback(name string, ctx Context, fallback map[string]any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Str("template", name).Msg("render panicked")
			out = defaultDocument(name, ctx.Metadata)
		}
	}()

	out, err := e.Render(name, ctx)
	if err == nil {
		return out
	}
	e.logger.Warn().Err(err).Str("template", name).Msg("render failed, retrying with fallback data")

	merged := make(map[string]any, len(ctx.Variables)+len(fallback))
	for k, v := range ctx.Variables {
		merged[k] = v
	}
	for k, v := range fallback {
		if cur, present := merged[k]; unsetValue(cur, present) {
			merged[k] = v
		}
	}

	out, err = e.Render(name, Context{Variables: merged, Metadata: ctx.Metadata})
	if err == nil {
		return out
	}
	e.logger.Warn().Err(err).Str("template", name).Msg("fallback render failed, using default document")
	return defaultDocument(name, ctx.Metadata)
}

// resolveDirectives sweeps the content until it stops changing or the pass
// budget runs out. Directives that survive the budget remain in the output.
func (e *Engine) resolveDirectives(content string, vars map[string]any) string {
	for pass := 0; pass < e.maxPasses; pass++ {
		next := resolveOnePass(content, vars)
		if next == content {
			return content
		}
		content = next
	}
	return content
}

// unsetValue reports whether a variable slot counts as unset when applying
// defaults: absent, nil, or a blank string.
func unsetValue(value any, present bool) bool {
	if !present || value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// defaultDocument is the last-resort render output: a heading derived from
// the template name plus the generation timestamp.
func defaultDocument(name string, md Metadata) string {
	at := md.GeneratedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", titleFromName(name))
	fmt.Fprintf(&b, "Documentation for %q could not be rendered from its template; this placeholder was produced instead.\n\n", name)
	fmt.Fprintf(&b, "Generated: %s\n", at.Format(time.RFC3339))
	return b.String()
}

// titleFromName turns a template name like "api-doc" into "Api Doc".
func titleFromName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	if len(words) == 0 {
		return "Documentation"
	}
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
