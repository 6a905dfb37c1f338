// Package cli token usage reporting commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/docwright-ai/docwright/internal/db"
	"github.com/docwright-ai/docwright/internal/models"
)

var (
	usageSince string
	usageModel string
	usageDaily bool
	usageDays  int

	usagePruneOlderThan string
	usagePruneLimit     int
)

func init() {
	rootCmd.AddCommand(usageCmd)
	usageCmd.AddCommand(usagePruneCmd)

	usageCmd.Flags().StringVar(&usageSince, "since", "", "only count usage after this time (duration like 7d, or timestamp)")
	usageCmd.Flags().StringVar(&usageModel, "model", "", "only count usage for this model")
	usageCmd.Flags().BoolVar(&usageDaily, "daily", false, "include a per-day breakdown")
	usageCmd.Flags().IntVar(&usageDays, "days", 14, "days covered by the daily breakdown")

	usagePruneCmd.Flags().StringVar(&usagePruneOlderThan, "older-than", "90d", "delete records older than this (duration like 90d, or timestamp)")
	usagePruneCmd.Flags().IntVar(&usagePruneLimit, "limit", 0, "maximum records to delete (0 = no limit)")
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show AI token usage and cost",
	Long:  "Show AI token usage and estimated cost, in total and per model.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		since, err := parseSince(usageSince)
		if err != nil {
			return err
		}

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewUsageRepository(database)

		total, err := repo.SummarizeAll(ctx, since, nil)
		if err != nil {
			return fmt.Errorf("failed to summarize usage: %w", err)
		}

		byModel, err := repo.SummarizeByModel(ctx, since, nil)
		if err != nil {
			return fmt.Errorf("failed to summarize usage by model: %w", err)
		}
		if usageModel != "" {
			byModel, total = filterByModel(byModel, total, usageModel)
		}

		var daily []*models.DailyUsage
		if usageDaily {
			until := time.Now().UTC()
			from := until.AddDate(0, 0, -usageDays)
			daily, err = repo.GetDailyUsage(ctx, from, until, 0)
			if err != nil {
				return fmt.Errorf("failed to load daily usage: %w", err)
			}
			if usageModel != "" {
				kept := daily[:0]
				for _, day := range daily {
					if day.Model == usageModel {
						kept = append(kept, day)
					}
				}
				daily = kept
			}
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, UsageReport{
				Total:   total,
				ByModel: byModel,
				Daily:   daily,
			})
		}

		if total.RecordCount == 0 {
			if usageModel != "" {
				fmt.Fprintf(os.Stdout, "No AI usage recorded for model %s.\n", usageModel)
				return nil
			}
			fmt.Fprintln(os.Stdout, "No AI usage recorded.")
			return nil
		}

		scope := "all time"
		if since != nil {
			scope = "since " + since.UTC().Format("2006-01-02")
		}
		if usageModel != "" {
			scope += ", model " + usageModel
		}
		fmt.Fprintf(os.Stdout, "AI usage (%s): %s tokens across %d requests, %s estimated\n\n",
			scope, formatTokens(total.TotalTokens), total.RequestCount, formatCents(total.TotalCostCents))

		rows := make([][]string, 0, len(byModel))
		for _, summary := range byModel {
			rows = append(rows, []string{
				summary.Model,
				strconv.FormatInt(summary.RequestCount, 10),
				formatTokens(summary.InputTokens),
				formatTokens(summary.OutputTokens),
				formatTokens(summary.TotalTokens),
				formatCents(summary.TotalCostCents),
			})
		}
		if err := writeTable(os.Stdout, []string{"MODEL", "REQUESTS", "INPUT", "OUTPUT", "TOTAL", "COST"}, rows); err != nil {
			return err
		}

		if usageDaily {
			fmt.Fprintln(os.Stdout)
			dailyRows := make([][]string, 0, len(daily))
			for _, day := range daily {
				dailyRows = append(dailyRows, []string{
					day.Date,
					day.Model,
					formatTokens(day.TotalTokens),
					formatCents(day.CostCents),
				})
			}
			if err := writeTable(os.Stdout, []string{"DATE", "MODEL", "TOKENS", "COST"}, dailyRows); err != nil {
				return err
			}
		}
		return nil
	},
}

var usagePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old usage records",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		before, err := parseSince(usagePruneOlderThan)
		if err != nil {
			return err
		}
		if before == nil {
			return fmt.Errorf("--older-than is required")
		}

		if !SkipConfirmation() {
			prompt := fmt.Sprintf("Delete usage records older than %s?", before.UTC().Format("2006-01-02"))
			if !confirm(prompt) {
				fmt.Fprintln(os.Stderr, "Cancelled.")
				return nil
			}
		}

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewUsageRepository(database)
		deleted, err := repo.DeleteOlderThan(ctx, *before, usagePruneLimit)
		if err != nil {
			return fmt.Errorf("failed to prune usage records: %w", err)
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, map[string]any{
				"deleted": deleted,
				"before":  before.UTC(),
			})
		}

		fmt.Fprintf(os.Stdout, "Deleted %d usage records\n", deleted)
		return nil
	},
}

// UsageReport is the payload returned by `docwright usage`.
type UsageReport struct {
	Total   *models.UsageSummary   `json:"total"`
	ByModel []*models.UsageSummary `json:"by_model"`
	Daily   []*models.DailyUsage   `json:"daily,omitempty"`
}

// filterByModel narrows the per-model summaries to one model and rebuilds
// the total from what remains. The period fields carry over unchanged.
func filterByModel(byModel []*models.UsageSummary, total *models.UsageSummary, model string) ([]*models.UsageSummary, *models.UsageSummary) {
	filtered := &models.UsageSummary{
		Model:       model,
		Period:      total.Period,
		PeriodStart: total.PeriodStart,
		PeriodEnd:   total.PeriodEnd,
	}
	kept := make([]*models.UsageSummary, 0, 1)
	for _, summary := range byModel {
		if summary.Model != model {
			continue
		}
		kept = append(kept, summary)
		filtered.InputTokens += summary.InputTokens
		filtered.OutputTokens += summary.OutputTokens
		filtered.TotalTokens += summary.TotalTokens
		filtered.TotalCostCents += summary.TotalCostCents
		filtered.RequestCount += summary.RequestCount
		filtered.RecordCount += summary.RecordCount
	}
	return kept, filtered
}

// parseSince turns a user-supplied cutoff into a point in time. It accepts
// durations ("24h", "7d"), dates ("2025-06-01"), and RFC3339 timestamps.
// Empty input means no cutoff.
func parseSince(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if dur, err := parseDurationWithDays(value); err == nil {
		t := time.Now().UTC().Add(-dur)
		return &t, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		t = t.UTC()
		return &t, nil
	}

	return nil, fmt.Errorf("invalid time %q (use a duration like '7d' or a timestamp like '2025-06-01')", value)
}

// parseDurationWithDays extends time.ParseDuration with a day suffix, so
// "30d" works alongside "45m" and "12h".
func parseDurationWithDays(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if strings.HasSuffix(value, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(value, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(value)
}
