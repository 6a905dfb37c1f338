package components

import (
	"strings"
	"testing"

	"github.com/docwright-ai/docwright/internal/models"
	"github.com/docwright-ai/docwright/internal/tui/styles"
)

func TestRenderRunStatusBadge(t *testing.T) {
	styleSet := styles.DefaultStyles()

	tests := []struct {
		name     string
		status   models.RunStatus
		expected string
	}{
		{"ok", models.RunStatusOK, "ok"},
		{"fallback", models.RunStatusFallback, "fallback"},
		{"error", models.RunStatusError, "error"},
		{"unknown", models.RunStatus("half_done"), "half done"},
		{"empty", models.RunStatus(""), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderRunStatusBadge(styleSet, tt.status)
			if !strings.Contains(result, tt.expected) {
				t.Errorf("expected %q in badge, got: %s", tt.expected, result)
			}
		})
	}
}
