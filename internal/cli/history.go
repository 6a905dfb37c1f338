// Package cli generation history commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/docwright-ai/docwright/internal/db"
	"github.com/docwright-ai/docwright/internal/models"
)

var (
	historyLimit  int
	historyStatus string
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum runs to list")
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "filter by status (ok, fallback, error)")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent generation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var statusFilter models.RunStatus
		if historyStatus != "" {
			statusFilter = models.RunStatus(historyStatus)
			switch statusFilter {
			case models.RunStatusOK, models.RunStatusFallback, models.RunStatusError:
			default:
				return fmt.Errorf("invalid status %q (want ok, fallback, or error)", historyStatus)
			}
		}

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewRunRepository(database)

		runs, err := repo.List(ctx, historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		if statusFilter != "" {
			filtered := runs[:0]
			for _, run := range runs {
				if run.Status == statusFilter {
					filtered = append(filtered, run)
				}
			}
			runs = filtered
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, runs)
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stdout, "No generation runs recorded.")
			return nil
		}

		rows := make([][]string, 0, len(runs))
		for _, run := range runs {
			rows = append(rows, []string{
				shortID(run.ID),
				run.CreatedAt.Local().Format("2006-01-02 15:04"),
				run.Template,
				formatRunStatus(run.Status),
				strconv.FormatInt(run.FilesAnalyzed, 10),
				formatYesNo(run.Enhanced),
				formatDuration(time.Duration(run.DurationMS) * time.Millisecond),
			})
		}
		if err := writeTable(os.Stdout, []string{"ID", "TIME", "TEMPLATE", "STATUS", "FILES", "ENHANCED", "DURATION"}, rows); err != nil {
			return err
		}

		counts, err := repo.CountByStatus(ctx)
		if err != nil {
			return fmt.Errorf("failed to count runs: %w", err)
		}
		fmt.Fprintf(os.Stdout, "\nTotals: %d ok, %d fallback, %d error\n",
			counts[models.RunStatusOK], counts[models.RunStatusFallback], counts[models.RunStatusError])
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one generation run with its AI usage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		runRepo := db.NewRunRepository(database)
		usageRepo := db.NewUsageRepository(database)

		run, err := findRun(ctx, runRepo, args[0])
		if err != nil {
			return err
		}

		usage, err := usageRepo.Query(ctx, models.UsageQuery{RunID: &run.ID})
		if err != nil {
			return fmt.Errorf("failed to load usage for run: %w", err)
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, RunDetail{Run: run, Usage: usage})
		}

		fmt.Fprintf(os.Stdout, "Run:       %s\n", run.ID)
		fmt.Fprintf(os.Stdout, "Time:      %s\n", run.CreatedAt.Local().Format(time.RFC3339))
		fmt.Fprintf(os.Stdout, "Template:  %s\n", run.Template)
		fmt.Fprintf(os.Stdout, "Status:    %s\n", formatRunStatus(run.Status))
		if run.SourcePath != "" {
			fmt.Fprintf(os.Stdout, "Source:    %s\n", run.SourcePath)
		}
		if run.OutputPath != "" {
			fmt.Fprintf(os.Stdout, "Output:    %s\n", run.OutputPath)
		}
		fmt.Fprintf(os.Stdout, "Files:     %d\n", run.FilesAnalyzed)
		fmt.Fprintf(os.Stdout, "Enhanced:  %s\n", formatYesNo(run.Enhanced))
		fmt.Fprintf(os.Stdout, "Duration:  %s\n", formatDuration(time.Duration(run.DurationMS)*time.Millisecond))
		if run.Error != "" {
			fmt.Fprintf(os.Stdout, "Error:     %s\n", run.Error)
		}

		if len(usage) > 0 {
			fmt.Fprintln(os.Stdout, "\nAI usage:")
			rows := make([][]string, 0, len(usage))
			for _, record := range usage {
				rows = append(rows, []string{
					"  " + record.Operation,
					record.Model,
					formatTokens(record.TotalTokens),
					formatCents(record.CostCents),
				})
			}
			if err := writeTable(os.Stdout, []string{"  OPERATION", "MODEL", "TOKENS", "COST"}, rows); err != nil {
				return err
			}
		}
		return nil
	},
}

// RunDetail is the payload returned by `docwright history show`.
type RunDetail struct {
	Run   *models.GenerationRun `json:"run"`
	Usage []*models.UsageRecord `json:"usage"`
}

// findRun resolves a run by full or prefix ID.
func findRun(ctx context.Context, repo *db.RunRepository, id string) (*models.GenerationRun, error) {
	run, err := repo.Get(ctx, id)
	if err == nil {
		return run, nil
	}

	runs, listErr := repo.List(ctx, 0)
	if listErr != nil {
		return nil, err
	}
	var match *models.GenerationRun
	for _, candidate := range runs {
		if len(id) >= 4 && len(candidate.ID) >= len(id) && candidate.ID[:len(id)] == id {
			if match != nil {
				return nil, fmt.Errorf("run id %q is ambiguous", id)
			}
			match = candidate
		}
	}
	if match == nil {
		return nil, err
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
