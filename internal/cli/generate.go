// Package cli provides the generate command.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/docwright-ai/docwright/internal/ai"
	"github.com/docwright-ai/docwright/internal/analyzer"
	"github.com/docwright-ai/docwright/internal/config"
	"github.com/docwright-ai/docwright/internal/db"
	"github.com/docwright-ai/docwright/internal/generator"
	"github.com/docwright-ai/docwright/internal/models"
	"github.com/docwright-ai/docwright/internal/templates"
)

var (
	generateTemplate    string
	generateSource      string
	generateOutput      string
	generateOutputDir   string
	generateProjectName string
	generateVars        []string
	generateChangedOnly bool
	generateBase        string
	generateEnhance     bool
	generateAll         bool
	generateDryRun      bool
	generateNoHistory   bool
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "template to render (default from config)")
	generateCmd.Flags().StringVarP(&generateSource, "source", "s", ".", "source directory to analyze")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "exact output file (default <output-dir>/<template>.md)")
	generateCmd.Flags().StringVar(&generateOutputDir, "output-dir", "", "output directory (default from config)")
	generateCmd.Flags().StringVar(&generateProjectName, "project-name", "", "override the project name")
	generateCmd.Flags().StringArrayVar(&generateVars, "var", nil, "extra template variable as key=value (repeatable)")
	generateCmd.Flags().BoolVar(&generateChangedOnly, "changed-only", false, "include git change information in the document")
	generateCmd.Flags().StringVar(&generateBase, "base", "", "git revision to diff against (default HEAD)")
	generateCmd.Flags().BoolVar(&generateEnhance, "enhance", false, "polish the document with the configured AI model")
	generateCmd.Flags().BoolVar(&generateAll, "all", false, "generate every available template")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "print the rendered document instead of writing it")
	generateCmd.Flags().BoolVar(&generateNoHistory, "no-history", false, "skip recording the run in the local database")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate documentation from the source tree",
	Long: `Analyze the source tree and render documentation from a template.

Rendering degrades instead of failing: missing data falls back to a
minimal document and a failed AI pass keeps the unenhanced text. Each
run is recorded in the local database unless --no-history is given.`,
	Example: `  # Render the configured default template into docs/
  docwright generate

  # Render the API reference for another tree
  docwright generate -t api-doc -s ../service

  # Fold in git changes and polish with AI
  docwright generate --changed-only --enhance

  # Preview the document without writing anything
  docwright generate --dry-run

  # Everything, with extra variables
  docwright generate --all --var owner=platform-team`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg := GetConfig()

		if generateAll && generateOutput != "" {
			return fmt.Errorf("--all and --output are mutually exclusive")
		}

		vars, err := parseVarFlags(generateVars)
		if err != nil {
			return err
		}

		registry, err := templates.LoadedRegistry(generateSource)
		if err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}
		engine := templates.NewEngine(registry)

		names := []string{firstNonEmpty(generateTemplate, cfg.Template)}
		if generateAll {
			names = names[:0]
			for _, tmpl := range registry.List() {
				names = append(names, tmpl.Name)
			}
		}

		// Dry runs never call the model or record history, so the API
		// key preflight and the database open are both skipped.
		enhance := (generateEnhance || cfg.AI.Enabled) && !generateDryRun
		recordHistory := !generateNoHistory && !generateDryRun

		svc, cleanup, err := buildGenerator(cfg, engine, enhance, recordHistory)
		if err != nil {
			return err
		}
		defer cleanup()

		results := make([]GenerateReport, 0, len(names))
		for _, name := range names {
			step := startProgress(fmt.Sprintf("Generating %s", name))
			result, err := svc.Generate(ctx, generator.Request{
				SourceDir:   generateSource,
				Template:    name,
				OutputPath:  generateOutput,
				OutputDir:   firstNonEmpty(generateOutputDir, cfg.OutputDir),
				ProjectName: firstNonEmpty(generateProjectName, cfg.ProjectName),
				Variables:   vars,
				ChangedOnly: generateChangedOnly,
				DiffBase:    generateBase,
				Enhance:     enhance,
				DryRun:      generateDryRun,
			})
			if err != nil {
				step.Fail(err)
				return fmt.Errorf("failed to generate %s: %w", name, err)
			}
			step.DoneWith(string(result.Status))
			report := reportFromResult(name, result)
			if generateDryRun {
				report.Document = result.Document
			}
			results = append(results, report)
		}

		if IsJSONOutput() || IsJSONLOutput() {
			if len(results) == 1 {
				return WriteOutput(os.Stdout, results[0])
			}
			return WriteOutput(os.Stdout, results)
		}

		if generateDryRun {
			for _, report := range results {
				if len(results) > 1 {
					fmt.Fprintf(os.Stdout, "--- %s ---\n", report.Template)
				}
				fmt.Fprintln(os.Stdout, strings.TrimRight(report.Document, "\n"))
			}
			return nil
		}

		for _, report := range results {
			fmt.Fprintf(os.Stdout, "Wrote %s (%s, %d files, %dms)\n",
				report.OutputPath, formatRunStatus(report.Status), report.FilesAnalyzed, report.DurationMS)
			if report.Enhanced {
				fmt.Fprintf(os.Stdout, "  enhanced: %s tokens, %s\n",
					formatTokens(report.TokensUsed), formatCents(report.CostCents))
			}
		}
		return nil
	},
}

// GenerateReport is the per-template payload returned by `docwright generate`.
type GenerateReport struct {
	Template      string           `json:"template"`
	OutputPath    string           `json:"output_path"`
	Status        models.RunStatus `json:"status"`
	FilesAnalyzed int              `json:"files_analyzed"`
	Enhanced      bool             `json:"enhanced"`
	TokensUsed    int64            `json:"tokens_used,omitempty"`
	CostCents     int64            `json:"cost_cents,omitempty"`
	DurationMS    int64            `json:"duration_ms"`

	// Document carries the rendered text on dry runs only.
	Document string `json:"document,omitempty"`
}

func reportFromResult(template string, result *generator.Result) GenerateReport {
	return GenerateReport{
		Template:      template,
		OutputPath:    result.OutputPath,
		Status:        result.Status,
		FilesAnalyzed: result.FilesAnalyzed,
		Enhanced:      result.Enhanced,
		TokensUsed:    result.TokensUsed,
		CostCents:     result.CostCents,
		DurationMS:    result.Duration.Milliseconds(),
	}
}

// buildGenerator assembles the generation service from config. The returned
// cleanup closes the database when one was opened.
func buildGenerator(cfg *config.Config, engine *templates.Engine, enhance, recordHistory bool) (*generator.Service, func(), error) {
	opts := []generator.Option{generator.WithVersion(buildVersion)}
	cleanup := func() {}

	if recordHistory {
		database, err := openDatabase()
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { database.Close() }
		opts = append(opts, generator.WithRepositories(
			db.NewUsageRepository(database),
			db.NewRunRepository(database),
		))
	}

	if enhance {
		client, err := buildAIClient(cfg)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		opts = append(opts, generator.WithAIClient(client))
	}

	an := analyzer.New(cfg.Extensions, cfg.Ignore)
	return generator.New(engine, an, opts...), cleanup, nil
}

// buildAIClient creates the OpenAI-compatible client from config, failing
// early when the API key is absent.
func buildAIClient(cfg *config.Config) (*ai.Client, error) {
	apiKey := strings.TrimSpace(os.Getenv(cfg.AI.APIKeyEnv))
	if apiKey == "" {
		return nil, &PreflightError{
			Message:  fmt.Sprintf("AI enhancement requires %s to be set", cfg.AI.APIKeyEnv),
			Hint:     "export the API key, or turn enhancement off (ai.enabled: false)",
			NextStep: "docwright generate --help",
		}
	}
	return ai.New(ai.Options{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      apiKey,
		Model:       cfg.AI.Model,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
		Timeout:     time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
	}), nil
}

// parseVarFlags turns repeated key=value flags into template variables.
func parseVarFlags(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q (want key=value)", pair)
		}
		vars[key] = value
	}
	return vars, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
