// Package cli export commands for docwright data.
package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/docwright-ai/docwright/internal/db"
	"github.com/docwright-ai/docwright/internal/models"
	"github.com/docwright-ai/docwright/internal/templates"
)

var exportRunLimit int

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportStatusCmd)

	exportStatusCmd.Flags().IntVar(&exportRunLimit, "runs", 100, "maximum runs to include")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export docwright data",
	Long:  "Export docwright state for automation or reporting.",
}

var exportStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Export full status",
	Long:  "Export full status as JSON: templates, generation runs, and AI usage.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		runRepo := db.NewRunRepository(database)
		usageRepo := db.NewUsageRepository(database)

		runs, err := runRepo.List(ctx, exportRunLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		counts, err := runRepo.CountByStatus(ctx)
		if err != nil {
			return fmt.Errorf("failed to count runs: %w", err)
		}

		usage, err := usageRepo.SummarizeAll(ctx, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to summarize usage: %w", err)
		}

		byModel, err := usageRepo.SummarizeByModel(ctx, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to summarize usage by model: %w", err)
		}

		registry, err := templates.LoadedRegistry(".")
		if err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}

		status := ExportStatus{
			Templates:    registry.List(),
			Runs:         runs,
			RunsByStatus: counts,
			Usage:        usage,
			UsageByModel: byModel,
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, status)
		}

		writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintf(writer, "Templates:\t%d\n", len(status.Templates))
		fmt.Fprintf(writer, "Runs:\t%d\n", len(status.Runs))
		fmt.Fprintf(writer, "  ok:\t%d\n", counts[models.RunStatusOK])
		fmt.Fprintf(writer, "  fallback:\t%d\n", counts[models.RunStatusFallback])
		fmt.Fprintf(writer, "  error:\t%d\n", counts[models.RunStatusError])
		fmt.Fprintf(writer, "AI requests:\t%d\n", usage.RequestCount)
		fmt.Fprintf(writer, "AI tokens:\t%s\n", formatTokens(usage.TotalTokens))
		fmt.Fprintf(writer, "AI cost:\t%s\n", formatCents(usage.TotalCostCents))
		if err := writer.Flush(); err != nil {
			return err
		}

		fmt.Println("Use --json or --jsonl for full export output.")
		return nil
	},
}

// ExportStatus is the payload returned by `docwright export status`.
type ExportStatus struct {
	Templates    []*templates.Template      `json:"templates"`
	Runs         []*models.GenerationRun    `json:"runs"`
	RunsByStatus map[models.RunStatus]int64 `json:"runs_by_status"`
	Usage        *models.UsageSummary       `json:"usage"`
	UsageByModel []*models.UsageSummary     `json:"usage_by_model"`
}
