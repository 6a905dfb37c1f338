// Package generator orchestrates the documentation pipeline: source
// analysis, template rendering, optional AI enhancement, output writing
// and usage bookkeeping.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/docwright-ai/docwright/internal/ai"
	"github.com/docwright-ai/docwright/internal/analyzer"
	"github.com/docwright-ai/docwright/internal/config"
	"github.com/docwright-ai/docwright/internal/db"
	"github.com/docwright-ai/docwright/internal/gitdiff"
	"github.com/docwright-ai/docwright/internal/logging"
	"github.com/docwright-ai/docwright/internal/models"
	"github.com/docwright-ai/docwright/internal/templates"
)

// Request describes one generation run.
type Request struct {
	// SourceDir is the project tree to analyze.
	SourceDir string

	// Template is the template name to render.
	Template string

	// OutputPath is the exact output file. When empty, the document goes
	// to OutputDir/<template>.md.
	OutputPath string

	// OutputDir is resolved relative to SourceDir unless absolute.
	OutputDir string

	// ProjectName overrides the name derived from SourceDir.
	ProjectName string

	// Variables are extra template variables; they win over analysis.
	Variables map[string]any

	// ChangedOnly feeds git change information into the template.
	ChangedOnly bool

	// DiffBase is the git revision changes are computed against.
	// Empty means HEAD.
	DiffBase string

	// Enhance runs the AI pass when a client is configured.
	Enhance bool

	// DryRun renders the document without writing it, calling the
	// model, or recording history. Result.OutputPath still reports
	// where the document would have gone.
	DryRun bool
}

// Result reports what a generation run produced.
type Result struct {
	OutputPath    string
	Status        models.RunStatus
	Document      string
	FilesAnalyzed int
	Enhanced      bool
	TokensUsed    int64
	CostCents     int64
	Duration      time.Duration
}

// Service runs the pipeline.
type Service struct {
	engine    *templates.Engine
	analyzer  *analyzer.Analyzer
	ai        *ai.Client
	usageRepo *db.UsageRepository
	runRepo   *db.RunRepository
	logger    zerolog.Logger
	version   string
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithAIClient enables the enhancement pass.
func WithAIClient(client *ai.Client) Option {
	return func(s *Service) { s.ai = client }
}

// WithRepositories enables run and usage recording.
func WithRepositories(usage *db.UsageRepository, runs *db.RunRepository) Option {
	return func(s *Service) {
		s.usageRepo = usage
		s.runRepo = runs
	}
}

// WithVersion sets the version stamped into generated documents.
func WithVersion(version string) Option {
	return func(s *Service) { s.version = version }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service around an engine and an analyzer.
func New(engine *templates.Engine, an *analyzer.Analyzer, opts ...Option) *Service {
	s := &Service{
		engine:   engine,
		analyzer: an,
		logger:   logging.Component("generator"),
		version:  "dev",
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate runs the full pipeline for one request. Rendering never fails
// outright (the engine falls back), but analysis and output errors do,
// and both are recorded as failed runs.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	start := s.now()

	if req.DryRun {
		// Dry runs never call the model or touch disk.
		req.Enhance = false
	}

	project, err := s.analyzer.AnalyzeDir(req.SourceDir)
	if err != nil {
		err = fmt.Errorf("analyze %s: %w", req.SourceDir, err)
		s.recordFailedRun(ctx, req, start, err)
		return nil, err
	}

	vars := analyzer.BuildContext(project)
	if req.ProjectName != "" {
		vars["projectName"] = req.ProjectName
	}
	if _, statErr := os.Stat(filepath.Join(req.SourceDir, config.ProjectConfigName)); statErr == nil {
		vars["configFile"] = config.ProjectConfigName
	}

	var usages []*models.UsageRecord

	if req.ChangedOnly {
		s.applyChanges(ctx, req, vars, &usages)
	}

	for name, value := range req.Variables {
		vars[name] = value
	}

	renderCtx := templates.Context{
		Variables: vars,
		Metadata: templates.Metadata{
			GeneratedAt: s.now().UTC(),
			Version:     s.version,
			Source:      req.SourceDir,
		},
	}

	status := models.RunStatusOK
	document, err := s.engine.Render(req.Template, renderCtx)
	if err != nil {
		s.logger.Warn().Err(err).Str("template", req.Template).Msg("render failed, using fallback")
		document = s.engine.RenderWithFallback(req.Template, renderCtx, req.Variables)
		status = models.RunStatusFallback
	}

	enhanced := false
	if req.Enhance && s.ai != nil {
		result, enhanceErr := s.ai.Enhance(ctx, document, analysisNotes(project))
		if enhanceErr != nil {
			s.logger.Warn().Err(enhanceErr).Msg("enhancement failed, keeping original document")
		} else {
			document = result.Content
			enhanced = true
			usages = append(usages, usageFrom(models.OperationEnhance, result))
		}
	}

	outputPath := resolveOutputPath(req)
	if req.DryRun {
		duration := s.now().Sub(start)
		s.logger.Info().
			Str("template", req.Template).
			Str("output", outputPath).
			Str("status", string(status)).
			Int("files", len(project.Files)).
			Dur("duration", duration).
			Msg("dry run rendered")
		return &Result{
			OutputPath:    outputPath,
			Status:        status,
			Document:      document,
			FilesAnalyzed: len(project.Files),
			Duration:      duration,
		}, nil
	}
	if err := writeDocument(outputPath, document); err != nil {
		s.recordFailedRun(ctx, req, start, err)
		return nil, err
	}

	duration := s.now().Sub(start)
	run := &models.GenerationRun{
		Template:      req.Template,
		SourcePath:    req.SourceDir,
		OutputPath:    outputPath,
		Status:        status,
		DurationMS:    duration.Milliseconds(),
		FilesAnalyzed: int64(len(project.Files)),
		Enhanced:      enhanced,
	}
	runID := s.recordRun(ctx, run)
	s.recordUsage(ctx, runID, usages)

	result := &Result{
		OutputPath:    outputPath,
		Status:        status,
		Document:      document,
		FilesAnalyzed: len(project.Files),
		Enhanced:      enhanced,
		Duration:      duration,
	}
	for _, u := range usages {
		result.TokensUsed += u.TotalTokens
		result.CostCents += u.CostCents
	}

	s.logger.Info().
		Str("template", req.Template).
		Str("output", outputPath).
		Str("status", string(status)).
		Int("files", result.FilesAnalyzed).
		Bool("enhanced", enhanced).
		Dur("duration", duration).
		Msg("document generated")

	return result, nil
}

// applyChanges folds git change information into the template variables.
// Git trouble degrades to a plain run; it never fails generation.
func (s *Service) applyChanges(ctx context.Context, req Request, vars map[string]any, usages *[]*models.UsageRecord) {
	changes, err := gitdiff.Changes(ctx, req.SourceDir, req.DiffBase)
	if err != nil {
		s.logger.Warn().Err(err).Msg("change detection failed, continuing without")
		return
	}
	if len(changes) == 0 {
		return
	}

	recent := make([]any, 0, len(changes))
	for _, c := range changes {
		recent = append(recent, map[string]any{
			"path":    c.Path,
			"status":  c.Status,
			"added":   c.Added,
			"deleted": c.Deleted,
		})
	}
	vars["recentChanges"] = recent

	if req.Enhance && s.ai != nil {
		result, err := s.ai.Summarize(ctx, gitdiff.FormatChanges(changes))
		if err != nil {
			s.logger.Warn().Err(err).Msg("change summary failed, continuing without")
			return
		}
		vars["notes"] = result.Content
		*usages = append(*usages, usageFrom(models.OperationSummarize, result))
	}
}

// recordRun stores the run and returns its ID, or empty on failure.
func (s *Service) recordRun(ctx context.Context, run *models.GenerationRun) string {
	if s.runRepo == nil {
		return ""
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record generation run")
		return ""
	}
	return run.ID
}

func (s *Service) recordFailedRun(ctx context.Context, req Request, start time.Time, cause error) {
	if s.runRepo == nil || req.DryRun {
		return
	}
	run := &models.GenerationRun{
		Template:   req.Template,
		SourcePath: req.SourceDir,
		OutputPath: resolveOutputPath(req),
		Status:     models.RunStatusError,
		DurationMS: s.now().Sub(start).Milliseconds(),
		Error:      cause.Error(),
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record failed run")
	}
}

// recordUsage stores usage rows after the run exists so the run reference
// holds.
func (s *Service) recordUsage(ctx context.Context, runID string, usages []*models.UsageRecord) {
	if s.usageRepo == nil {
		return
	}
	for _, u := range usages {
		u.RunID = runID
		if err := s.usageRepo.Create(ctx, u); err != nil {
			s.logger.Warn().Err(err).Str("operation", u.Operation).Msg("failed to record usage")
		}
	}
}

func usageFrom(operation string, result *ai.Result) *models.UsageRecord {
	return &models.UsageRecord{
		Model:        result.Model,
		Operation:    operation,
		InputTokens:  result.Usage.PromptTokens,
		OutputTokens: result.Usage.CompletionTokens,
		TotalTokens:  result.Usage.TotalTokens,
		CostCents:    result.CostCents,
		RequestCount: 1,
	}
}

// analysisNotes gives the model a compact picture of what was analyzed.
func analysisNotes(p *analyzer.ProjectSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d files, %d lines analyzed.", len(p.Files), p.TotalLines)
	if len(p.Languages) > 0 {
		functions := 0
		endpoints := 0
		for _, f := range p.Files {
			functions += len(f.Functions)
			endpoints += len(f.Endpoints)
		}
		fmt.Fprintf(&b, " %d functions, %d endpoints found.", functions, endpoints)
	}
	return b.String()
}

// resolveOutputPath picks the output file for a request.
func resolveOutputPath(req Request) string {
	if req.OutputPath != "" {
		return req.OutputPath
	}
	dir := req.OutputDir
	if dir == "" {
		dir = "docs"
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(req.SourceDir, dir)
	}
	return filepath.Join(dir, req.Template+".md")
}

// writeDocument writes content through a temp file in the target
// directory so readers never observe a half-written document.
func writeDocument(path, content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".docwright-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
