package templates

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Reserved placeholder names filled from render metadata, never from user
// variables.
const (
	tokenTimestamp = "timestamp"
	tokenVersion   = "version"
	tokenSource    = "source"
)

func reservedToken(name string) bool {
	switch name {
	case tokenTimestamp, tokenVersion, tokenSource:
		return true
	default:
		return false
	}
}

// substitute replaces {{name}} tokens. Metadata placeholders go first and
// their names are skipped in the variable sweep, so the reserved tokens
// always win. Variables are applied in sorted key order to keep output
// deterministic. Tokens with no matching variable stay literal.
func substitute(content string, vars map[string]any, md Metadata) string {
	content = strings.ReplaceAll(content, token(tokenTimestamp), md.GeneratedAt.Format(time.RFC3339))
	content = strings.ReplaceAll(content, token(tokenVersion), md.Version)
	content = strings.ReplaceAll(content, token(tokenSource), md.Source)

	keys := make([]string, 0, len(vars))
	for k := range vars {
		if reservedToken(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		content = strings.ReplaceAll(content, token(k), stringify(vars[k]))
	}
	return content
}

func token(name string) string {
	return "{{" + name + "}}"
}

// stringify renders a variable value for insertion into a document. Nil
// becomes nothing, scalars use their plain form, and structured values are
// pretty-printed as JSON.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any, map[string]any:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "[Complex Object]"
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", v)
	}
}
