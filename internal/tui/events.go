// Package tui implements the docwright watch dashboard.
package tui

import (
	"time"

	"github.com/docwright-ai/docwright/internal/generator"
	"github.com/docwright-ai/docwright/internal/models"
)

// BatchMsg reports a debounced burst of file changes.
type BatchMsg struct {
	Paths []string
	At    time.Time
}

// RunStartedMsg reports that a template regeneration began.
type RunStartedMsg struct {
	Template string
	At       time.Time
}

// RunFinishedMsg reports a regeneration that produced a document.
type RunFinishedMsg struct {
	Template   string
	OutputPath string
	Status     models.RunStatus
	Files      int
	Enhanced   bool
	Tokens     int64
	CostCents  int64
	Duration   time.Duration
	At         time.Time
}

// RunFailedMsg reports a regeneration that produced no document.
type RunFailedMsg struct {
	Template string
	Err      error
	At       time.Time
}

// WatchStoppedMsg tells the dashboard the watch loop has ended.
type WatchStoppedMsg struct{}

// RunFinished converts a generator result into a RunFinishedMsg.
func RunFinished(template string, result *generator.Result, at time.Time) RunFinishedMsg {
	return RunFinishedMsg{
		Template:   template,
		OutputPath: result.OutputPath,
		Status:     result.Status,
		Files:      result.FilesAnalyzed,
		Enhanced:   result.Enhanced,
		Tokens:     result.TokensUsed,
		CostCents:  result.CostCents,
		Duration:   result.Duration,
		At:         at,
	}
}
