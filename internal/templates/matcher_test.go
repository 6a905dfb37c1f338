package templates

import "testing"

func TestDirectiveName(t *testing.T) {
	content := "{{#if  enabled }}body{{/if}}"
	name, bodyStart := directiveName(content, 0, ifOpen)
	if name != "enabled" {
		t.Fatalf("expected name enabled, got %q", name)
	}
	if got := content[bodyStart:]; got != "body{{/if}}" {
		t.Fatalf("unexpected body start: %q", got)
	}
}

func TestDirectiveNameUnterminated(t *testing.T) {
	_, bodyStart := directiveName("{{#if enabled", 0, ifOpen)
	if bodyStart != -1 {
		t.Fatalf("expected -1 for unterminated tag, got %d", bodyStart)
	}
}

func TestFindMatchingCloseFlat(t *testing.T) {
	content := "{{#if a}}X{{/if}}tail"
	_, bodyStart := directiveName(content, 0, ifOpen)

	closePos, elsePos := findMatchingClose(content, bodyStart, ifOpen, ifClose, elseTag)
	if closePos < 0 {
		t.Fatalf("expected close, got -1")
	}
	if elsePos != -1 {
		t.Fatalf("expected no else, got %d", elsePos)
	}
	if got := content[bodyStart:closePos]; got != "X" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestFindMatchingCloseNested(t *testing.T) {
	content := "{{#if outer}}A{{#if inner}}B{{/if}}C{{/if}}"
	_, bodyStart := directiveName(content, 0, ifOpen)

	closePos, elsePos := findMatchingClose(content, bodyStart, ifOpen, ifClose, elseTag)
	if elsePos != -1 {
		t.Fatalf("expected no else, got %d", elsePos)
	}
	if got := content[bodyStart:closePos]; got != "A{{#if inner}}B{{/if}}C" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestFindMatchingCloseElse(t *testing.T) {
	content := "{{#if a}}yes{{else}}no{{/if}}"
	_, bodyStart := directiveName(content, 0, ifOpen)

	closePos, elsePos := findMatchingClose(content, bodyStart, ifOpen, ifClose, elseTag)
	if closePos < 0 || elsePos < 0 {
		t.Fatalf("expected close and else, got %d/%d", closePos, elsePos)
	}
	if got := content[bodyStart:elsePos]; got != "yes" {
		t.Fatalf("unexpected primary branch: %q", got)
	}
	if got := content[elsePos+len(elseTag) : closePos]; got != "no" {
		t.Fatalf("unexpected else branch: %q", got)
	}
}

func TestFindMatchingCloseElseOnlyAtTopDepth(t *testing.T) {
	content := "{{#if a}}{{#if b}}X{{else}}Y{{/if}}{{/if}}"
	_, bodyStart := directiveName(content, 0, ifOpen)

	closePos, elsePos := findMatchingClose(content, bodyStart, ifOpen, ifClose, elseTag)
	if elsePos != -1 {
		t.Fatalf("else belongs to the inner block, got elsePos %d", elsePos)
	}
	if got := content[bodyStart:closePos]; got != "{{#if b}}X{{else}}Y{{/if}}" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestFindMatchingCloseUnmatched(t *testing.T) {
	content := "{{#if a}}no close here"
	_, bodyStart := directiveName(content, 0, ifOpen)

	closePos, elsePos := findMatchingClose(content, bodyStart, ifOpen, ifClose, elseTag)
	if closePos != -1 || elsePos != -1 {
		t.Fatalf("expected -1/-1 for unmatched block, got %d/%d", closePos, elsePos)
	}
}

func TestFindMatchingCloseEach(t *testing.T) {
	content := "{{#each items}}{{#each inner}}x{{/each}}{{/each}}"
	_, bodyStart := directiveName(content, 0, eachOpen)

	closePos, _ := findMatchingClose(content, bodyStart, eachOpen, eachClose, "")
	if got := content[bodyStart:closePos]; got != "{{#each inner}}x{{/each}}" {
		t.Fatalf("unexpected body: %q", got)
	}
}
