package components

import (
	"fmt"
	"strings"

	"github.com/docwright-ai/docwright/internal/tui/styles"
)

// EmptyState represents an empty state message with optional suggestions.
type EmptyState struct {
	// Title is the main empty state message.
	Title string
	// Subtitle is an optional secondary message.
	Subtitle string
	// Suggestions are actionable hints for the user.
	Suggestions []Suggestion
}

// Suggestion represents a suggested action with description.
type Suggestion struct {
	// Command is the action to take (e.g., "edit a watched file").
	Command string
	// Description explains what the action does.
	Description string
}

// Render renders the empty state with the given styles.
func (e EmptyState) Render(styleSet styles.Styles) string {
	var lines []string

	lines = append(lines, styleSet.Muted.Render(e.Title))
	if e.Subtitle != "" {
		lines = append(lines, styleSet.Muted.Render(e.Subtitle))
	}

	if len(e.Suggestions) > 0 {
		lines = append(lines, "")
		for _, s := range e.Suggestions {
			line := fmt.Sprintf("  %s", styleSet.Accent.Render(s.Command))
			if s.Description != "" {
				line += styleSet.Muted.Render(fmt.Sprintf("  # %s", s.Description))
			}
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}

// RenderCompact renders a compact single-line empty state.
func (e EmptyState) RenderCompact(styleSet styles.Styles) string {
	line := e.Title
	if len(e.Suggestions) > 0 {
		line += fmt.Sprintf(" Try: %s", e.Suggestions[0].Command)
	}
	return styleSet.Muted.Render(line)
}

// WaitingForChanges returns the empty state shown before the first batch.
func WaitingForChanges(root string) EmptyState {
	return EmptyState{
		Title:    "No changes seen yet.",
		Subtitle: fmt.Sprintf("Documents regenerate when files under %s change.", root),
		Suggestions: []Suggestion{
			{Command: "edit a watched file", Description: "triggers a regeneration after the debounce window"},
		},
	}
}
