// Package cli status formatting helpers.
package cli

import (
	"os"

	"github.com/docwright-ai/docwright/internal/models"
)

const (
	colorReset  = "\x1b[0m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
	colorCyan   = "\x1b[36m"
)

func formatRunStatus(status models.RunStatus) string {
	label, color := statusLabelForRun(status)
	return colorize(label, color)
}

func statusLabelForRun(status models.RunStatus) (string, string) {
	switch status {
	case models.RunStatusOK:
		return "ok", colorGreen
	case models.RunStatusFallback:
		return "fallback", colorYellow
	case models.RunStatusError:
		return "error", colorRed
	default:
		return string(status), colorYellow
	}
}

// colorize wraps s in an ANSI color when the output is a terminal and
// color has not been disabled.
func colorize(s, color string) string {
	if !colorEnabled() {
		return s
	}
	return color + s + colorReset
}

func colorEnabled() bool {
	if IsJSONOutput() || IsJSONLOutput() {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return hasTTY()
}
