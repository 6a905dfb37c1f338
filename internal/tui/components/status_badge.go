// Package components provides reusable dashboard components.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/docwright-ai/docwright/internal/models"
	"github.com/docwright-ai/docwright/internal/tui/styles"
)

// RenderRunStatusBadge renders a generation run status with its color.
func RenderRunStatusBadge(styleSet styles.Styles, status models.RunStatus) string {
	label, style := statusDescriptor(styleSet, status)
	return style.Render(label)
}

func statusDescriptor(styleSet styles.Styles, status models.RunStatus) (string, lipgloss.Style) {
	switch status {
	case models.RunStatusOK:
		return "ok", styleSet.StatusOK
	case models.RunStatusFallback:
		return "fallback", styleSet.StatusFallback
	case models.RunStatusError:
		return "error", styleSet.StatusError
	default:
		return normalizeStatusLabel(status), styleSet.Muted
	}
}

func normalizeStatusLabel(status models.RunStatus) string {
	value := strings.TrimSpace(strings.ReplaceAll(string(status), "_", " "))
	if value == "" {
		return "unknown"
	}
	return value
}
