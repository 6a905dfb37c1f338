package templates

import (
	"sort"
	"strconv"
	"strings"
)

// isTruthy implements the directive truth policy: absent values, nil, false,
// the empty string and the empty sequence are false; everything else,
// including zero and the empty map, is true.
func isTruthy(value any, present bool) bool {
	if !present || value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	default:
		return true
	}
}

// resolveOnePass applies one full sweep of directive resolution: first
// conditionals that carry an else branch, then plain conditionals, then
// iteration blocks. Text a directive produces is emitted verbatim; any
// directives inside it wait for the next pass.
func resolveOnePass(content string, vars map[string]any) string {
	content = resolveConditionals(content, vars, true)
	content = resolveConditionals(content, vars, false)
	return resolveEach(content, vars)
}

// resolveConditionals rewrites {{#if name}} blocks. Blocks whose else
// presence does not match withElse are copied through untouched so the
// other sub-pass can claim them.
func resolveConditionals(content string, vars map[string]any, withElse bool) string {
	var b strings.Builder
	i := 0
	for i < len(content) {
		rel := strings.Index(content[i:], ifOpen)
		if rel < 0 {
			b.WriteString(content[i:])
			break
		}
		open := i + rel
		b.WriteString(content[i:open])

		name, bodyStart := directiveName(content, open, ifOpen)
		if bodyStart < 0 {
			// Opening tag never closes; emit it and move on.
			b.WriteString(content[open : open+len(ifOpen)])
			i = open + len(ifOpen)
			continue
		}

		closePos, elsePos := findMatchingClose(content, bodyStart, ifOpen, ifClose, elseTag)
		if closePos < 0 {
			// Unmatched block: keep the opening tag and scan on past it.
			b.WriteString(content[open:bodyStart])
			i = bodyStart
			continue
		}

		hasElse := elsePos >= 0
		blockEnd := closePos + len(ifClose)
		if hasElse != withElse {
			b.WriteString(content[open:blockEnd])
			i = blockEnd
			continue
		}

		value, present := vars[name]
		truthy := isTruthy(value, present)
		switch {
		case hasElse && truthy:
			b.WriteString(content[bodyStart:elsePos])
		case hasElse:
			b.WriteString(content[elsePos+len(elseTag) : closePos])
		case truthy:
			b.WriteString(content[bodyStart:closePos])
		}
		i = blockEnd
	}
	return b.String()
}

// resolveEach expands {{#each name}} blocks. Every element of the named
// sequence produces one copy of the body with {{@index}} and the element's
// own tokens substituted inline; tokens the element does not provide stay
// behind for the final substitution sweep. A missing, empty or
// non-sequence value expands to nothing.
func resolveEach(content string, vars map[string]any) string {
	var b strings.Builder
	i := 0
	for i < len(content) {
		rel := strings.Index(content[i:], eachOpen)
		if rel < 0 {
			b.WriteString(content[i:])
			break
		}
		open := i + rel
		b.WriteString(content[i:open])

		name, bodyStart := directiveName(content, open, eachOpen)
		if bodyStart < 0 {
			b.WriteString(content[open : open+len(eachOpen)])
			i = open + len(eachOpen)
			continue
		}

		closePos, _ := findMatchingClose(content, bodyStart, eachOpen, eachClose, "")
		if closePos < 0 {
			b.WriteString(content[open:bodyStart])
			i = bodyStart
			continue
		}

		body := content[bodyStart:closePos]
		if seq, ok := vars[name].([]any); ok {
			for idx, element := range seq {
				b.WriteString(expandElement(body, idx, element))
			}
		}
		i = closePos + len(eachClose)
	}
	return b.String()
}

// expandElement fills one body copy for a single sequence element. Map
// elements substitute their fields in sorted order; any other element
// substitutes {{this}}.
func expandElement(body string, index int, element any) string {
	out := strings.ReplaceAll(body, "{{@index}}", strconv.Itoa(index))

	fields, ok := element.(map[string]any)
	if !ok {
		return strings.ReplaceAll(out, "{{this}}", stringify(element))
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = strings.ReplaceAll(out, "{{"+k+"}}", stringify(fields[k]))
	}
	return out
}
