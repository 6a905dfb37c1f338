// Package cli source analysis commands.
package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/docwright-ai/docwright/internal/analyzer"
)

var analyzeLimit int

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVarP(&analyzeLimit, "limit", "n", 50, "maximum files to list (0 = all)")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dir]",
	Short: "Analyze a source tree without generating documents",
	Long: `Analyze a source tree and print what the generator would see:
files, languages, functions, types, endpoints, and TODO markers. With
--json the full template context is printed, which is the exact variable
set templates render against.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		cfg := GetConfig()

		an := analyzer.New(cfg.Extensions, cfg.Ignore)

		step := startProgress(fmt.Sprintf("Analyzing %s", dir))
		project, err := an.AnalyzeDir(dir)
		if err != nil {
			step.Fail(err)
			return fmt.Errorf("failed to analyze %s: %w", dir, err)
		}
		step.DoneWith(fmt.Sprintf("%d files", len(project.Files)))

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, analyzer.BuildContext(project))
		}

		languages := make([]string, 0, len(project.Languages))
		for language := range project.Languages {
			languages = append(languages, language)
		}
		sort.Strings(languages)

		fmt.Fprintf(os.Stdout, "Root:      %s\n", project.Root)
		fmt.Fprintf(os.Stdout, "Files:     %d\n", len(project.Files))
		fmt.Fprintf(os.Stdout, "Lines:     %d\n", project.TotalLines)
		for _, language := range languages {
			fmt.Fprintf(os.Stdout, "  %-10s %d files\n", language, project.Languages[language])
		}
		fmt.Fprintln(os.Stdout)

		shown := project.Files
		if analyzeLimit > 0 && len(shown) > analyzeLimit {
			shown = shown[:analyzeLimit]
		}

		rows := make([][]string, 0, len(shown))
		for _, file := range shown {
			rows = append(rows, []string{
				file.Path,
				file.Language,
				strconv.Itoa(file.Lines),
				strconv.Itoa(len(file.Functions)),
				strconv.Itoa(len(file.Types)),
				strconv.Itoa(len(file.Endpoints)),
				strconv.Itoa(len(file.Todos)),
			})
		}
		if err := writeTable(os.Stdout, []string{"PATH", "LANGUAGE", "LINES", "FUNCS", "TYPES", "ENDPOINTS", "TODOS"}, rows); err != nil {
			return err
		}

		if hidden := len(project.Files) - len(shown); hidden > 0 {
			fmt.Fprintf(os.Stdout, "\n... and %d more files (raise --limit to see them)\n", hidden)
		}
		return nil
	},
}
