package templates

import "strings"

// Directive markers. Opening markers keep the trailing space so that the
// directive name is part of the tag, not a standalone token.
const (
	ifOpen    = "{{#if "
	ifClose   = "{{/if}}"
	eachOpen  = "{{#each "
	eachClose = "{{/each}}"
	elseTag   = "{{else}}"
	tagEnd    = "}}"
)

// findMatchingClose scans content forward from start, which must point just
// past an opening directive tag, and returns the index of the close marker
// that matches it. Nesting is tracked with a depth counter rather than
// recursion. The returned elsePos is the index of the first else marker at
// depth one, or -1 when there is none or elseMarker is empty. Both results
// are -1 when the block is never closed; callers must then leave the span
// untouched so a malformed template cannot loop the resolver.
func findMatchingClose(content string, start int, openMarker, closeMarker, elseMarker string) (closePos, elsePos int) {
	depth := 1
	elsePos = -1

	i := start
	for i < len(content) {
		rest := content[i:]
		switch {
		case strings.HasPrefix(rest, openMarker):
			depth++
			i += len(openMarker)
		case strings.HasPrefix(rest, closeMarker):
			depth--
			if depth == 0 {
				return i, elsePos
			}
			i += len(closeMarker)
		case elseMarker != "" && depth == 1 && elsePos < 0 && strings.HasPrefix(rest, elseMarker):
			elsePos = i
			i += len(elseMarker)
		default:
			i++
		}
	}

	return -1, -1
}

// directiveName extracts the name from an opening tag starting at open,
// returning the trimmed name and the index just past the closing "}}" of
// the tag. nameEnd is -1 when the tag never closes.
func directiveName(content string, open int, openMarker string) (name string, bodyStart int) {
	nameStart := open + len(openMarker)
	rel := strings.Index(content[nameStart:], tagEnd)
	if rel < 0 {
		return "", -1
	}
	name = strings.TrimSpace(content[nameStart : nameStart+rel])
	return name, nameStart + rel + len(tagEnd)
}
