package models

import (
	"time"
)

// RunStatus describes how a generation run ended.
type RunStatus string

const (
	// RunStatusOK means the template rendered normally.
	RunStatusOK RunStatus = "ok"

	// RunStatusFallback means the render needed fallback data or the
	// default document.
	RunStatusFallback RunStatus = "fallback"

	// RunStatusError means the run failed before a document was written.
	RunStatusError RunStatus = "error"
)

// GenerationRun records one documentation generation from start to finish.
type GenerationRun struct {
	// ID is the unique identifier for the run.
	ID string `json:"id"`

	// Template is the template name the run rendered.
	Template string `json:"template"`

	// SourcePath is the analyzed directory or file.
	SourcePath string `json:"source_path,omitempty"`

	// OutputPath is where the document was written, if it was.
	OutputPath string `json:"output_path,omitempty"`

	// Status reports how the run ended.
	Status RunStatus `json:"status"`

	// DurationMS is the wall time of the run in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// FilesAnalyzed is the number of source files fed into the context.
	FilesAnalyzed int64 `json:"files_analyzed"`

	// Enhanced reports whether the AI enhancement step ran.
	Enhanced bool `json:"enhanced"`

	// Error holds the failure message for error runs.
	Error string `json:"error,omitempty"`

	// CreatedAt is when the run started.
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks if the generation run is valid.
func (g *GenerationRun) Validate() error {
	validation := &ValidationErrors{}
	if g.Template == "" {
		validation.AddMessage("template", "template is required")
	}
	switch g.Status {
	case RunStatusOK, RunStatusFallback, RunStatusError:
	case "":
		validation.AddMessage("status", "status is required")
	default:
		validation.AddMessage("status", "unknown status "+string(g.Status))
	}
	if g.DurationMS < 0 {
		validation.AddMessage("duration_ms", "duration_ms must be non-negative")
	}
	if g.FilesAnalyzed < 0 {
		validation.AddMessage("files_analyzed", "files_analyzed must be non-negative")
	}
	return validation.Err()
}
