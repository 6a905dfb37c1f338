// Package cli provides the watch command.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/docwright-ai/docwright/internal/config"
	"github.com/docwright-ai/docwright/internal/generator"
	"github.com/docwright-ai/docwright/internal/templates"
	"github.com/docwright-ai/docwright/internal/tui"
	"github.com/docwright-ai/docwright/internal/watcher"
)

var (
	watchTemplate  string
	watchSource    string
	watchOutputDir string
	watchEnhance   bool
	watchDebounce  time.Duration
	watchUI        bool
	watchTheme     string
	watchNoHistory bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchTemplate, "template", "t", "", "template to regenerate (default from config)")
	watchCmd.Flags().StringVarP(&watchSource, "source", "s", ".", "source directory to watch")
	watchCmd.Flags().StringVar(&watchOutputDir, "output-dir", "", "output directory (default from config)")
	watchCmd.Flags().BoolVar(&watchEnhance, "enhance", false, "polish each regeneration with the configured AI model")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period before regenerating (default from config)")
	watchCmd.Flags().BoolVar(&watchUI, "ui", false, "show the live dashboard instead of log lines")
	watchCmd.Flags().StringVar(&watchTheme, "theme", "default", "dashboard color theme")
	watchCmd.Flags().BoolVar(&watchNoHistory, "no-history", false, "skip recording runs in the local database")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the source tree and regenerate documentation on change",
	Long: `Watch the source tree and regenerate the documentation whenever
watched files change. Change bursts are coalesced: regeneration starts
only after the tree has been quiet for the debounce window.

Regeneration failures are reported and watching continues.`,
	Example: `  # Regenerate the configured template on every change
  docwright watch

  # Watch another tree with a longer quiet period
  docwright watch -s ../service --debounce 2s

  # Full-screen dashboard with AI enhancement
  docwright watch --ui --enhance`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		if watchUI && (IsJSONOutput() || IsJSONLOutput()) {
			return fmt.Errorf("--ui and --json/--jsonl are mutually exclusive")
		}
		if watchUI && IsNonInteractive() {
			return &PreflightError{
				Message:  "the watch dashboard requires an interactive terminal",
				Hint:     "run without --ui to get plain log lines",
				NextStep: "docwright watch",
			}
		}

		registry, err := templates.LoadedRegistry(watchSource)
		if err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}
		engine := templates.NewEngine(registry)

		name := firstNonEmpty(watchTemplate, cfg.Template)
		if _, err := registry.Get(name); err != nil {
			return fmt.Errorf("failed to resolve template %q: %w", name, err)
		}

		enhance := watchEnhance || cfg.AI.Enabled
		svc, cleanup, err := buildGenerator(cfg, engine, enhance, !watchNoHistory)
		if err != nil {
			return err
		}
		defer cleanup()

		debounce := watchDebounce
		if debounce <= 0 {
			debounce = time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
		}

		w := watcher.New(watcher.Config{
			Root:       watchSource,
			Extensions: cfg.Extensions,
			Ignore:     cfg.Ignore,
			Debounce:   debounce,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer func() { _ = w.Stop() }()

		request := generator.Request{
			SourceDir:   watchSource,
			Template:    name,
			OutputDir:   firstNonEmpty(watchOutputDir, cfg.OutputDir),
			ProjectName: cfg.ProjectName,
			Enhance:     enhance,
		}

		if watchUI {
			return runWatchDashboard(ctx, stop, w.Batches(), svc, request, watchConfig(cfg, name, enhance))
		}
		return runWatchLoop(ctx, w.Batches(), svc, request)
	},
}

// runWatchLoop regenerates on each batch and reports to stdout.
func runWatchLoop(ctx context.Context, batches <-chan watcher.Batch, svc *generator.Service, request generator.Request) error {
	human := !IsJSONOutput() && !IsJSONLOutput()
	if human {
		fmt.Fprintf(os.Stdout, "Watching %s (template %s). Press Ctrl-C to stop.\n", request.SourceDir, request.Template)
	}

	for {
		select {
		case <-ctx.Done():
			if human {
				fmt.Fprintln(os.Stdout, "Stopped.")
			}
			return nil

		case batch := <-batches:
			if human {
				fmt.Fprintf(os.Stdout, "%s  %d file(s) changed\n", batch.At.Format("15:04:05"), len(batch.Paths))
			}

			step := startProgress(fmt.Sprintf("Regenerating %s", request.Template))
			result, err := svc.Generate(ctx, request)
			if err != nil {
				step.Fail(err)
				continue
			}
			step.DoneWith(string(result.Status))

			if human {
				fmt.Fprintf(os.Stdout, "Wrote %s (%s, %d files, %dms)\n",
					result.OutputPath, formatRunStatus(result.Status), result.FilesAnalyzed, result.Duration.Milliseconds())
			} else {
				_ = WriteOutput(os.Stdout, reportFromResult(request.Template, result))
			}
		}
	}
}

// runWatchDashboard feeds regeneration events to the full-screen dashboard.
// The loop runs in the background; the dashboard owns the terminal.
func runWatchDashboard(ctx context.Context, stop context.CancelFunc, batches <-chan watcher.Batch, svc *generator.Service, request generator.Request, cfg tui.Config) error {
	dashboard := tui.NewDashboard(cfg)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				dashboard.Stop()
				return

			case batch := <-batches:
				dashboard.Send(tui.BatchMsg{Paths: batch.Paths, At: batch.At})
				dashboard.Send(tui.RunStartedMsg{Template: request.Template, At: time.Now()})

				result, err := svc.Generate(ctx, request)
				if err != nil {
					dashboard.Send(tui.RunFailedMsg{Template: request.Template, Err: err, At: time.Now()})
					continue
				}
				dashboard.Send(tui.RunFinished(request.Template, result, time.Now()))
			}
		}
	}()

	err := dashboard.Run()
	stop()
	<-done
	return err
}

func watchConfig(cfg *config.Config, template string, enhance bool) tui.Config {
	root := watchSource
	if cfg.ProjectName != "" {
		root = fmt.Sprintf("%s (%s)", watchSource, cfg.ProjectName)
	}
	return tui.Config{
		Root:      root,
		Templates: []string{template},
		Theme:     watchTheme,
		Enhance:   enhance,
	}
}
