// Package cli provides the init command.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/docwright-ai/docwright/internal/config"
	"github.com/docwright-ai/docwright/internal/db"
	"github.com/docwright-ai/docwright/internal/templates"
)

var initForce bool

// configDirFunc returns the global config directory; tests override it.
var configDirFunc = defaultConfigDir

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing configuration files")
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Set up docwright for a project",
	Long: `Set up docwright: create the global configuration, prepare the
run database, and write a project .docwright.yaml. Interactive sessions
are asked for the project name, default template, and AI settings;
non-interactive runs keep the defaults.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir := "."
		if len(args) == 1 {
			projectDir = args[0]
		}

		results := []initResult{
			checkPrerequisites(),
			createConfigFile(),
			initDatabase(),
			createProjectConfig(projectDir),
		}

		if IsJSONOutput() || IsJSONLOutput() {
			payload := make([]map[string]string, 0, len(results))
			for _, r := range results {
				payload = append(payload, map[string]string{
					"name":    r.name,
					"status":  r.status,
					"message": r.message,
				})
			}
			if err := WriteOutput(os.Stdout, payload); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(os.Stdout, "Initializing docwright")
			fmt.Fprintln(os.Stdout)
			for _, r := range results {
				fmt.Fprintf(os.Stdout, "  %s %-16s %s\n", statusMark(r.status), r.name, r.message)
			}
			fmt.Fprintln(os.Stdout)
		}

		for _, r := range results {
			if r.status == "failed" {
				return fmt.Errorf("init finished with failures")
			}
		}

		if !IsJSONOutput() && !IsJSONLOutput() {
			fmt.Fprintln(os.Stdout, "Run `docwright generate` to produce your first document.")
		}
		return nil
	},
}

type initResult struct {
	name    string
	status  string // done, skipped, failed
	message string
}

func statusMark(status string) string {
	switch status {
	case "done":
		return colorize("+", colorGreen)
	case "skipped":
		return "-"
	default:
		return colorize("x", colorRed)
	}
}

// checkPrerequisites verifies optional tooling. Git is only needed for
// --changed-only, so a missing binary is reported, not fatal.
func checkPrerequisites() initResult {
	result := initResult{name: "Prerequisites"}

	gitPath, err := exec.LookPath("git")
	if err != nil {
		result.status = "skipped"
		result.message = "git not found; --changed-only will be unavailable"
		return result
	}

	result.status = "done"
	result.message = fmt.Sprintf("git available at %s", gitPath)
	return result
}

// createConfigFile writes the global config from configTemplate, skipping
// an existing file unless --force is set.
func createConfigFile() initResult {
	result := initResult{name: "Global config"}

	dir := configDirFunc()
	path := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(path); err == nil && !initForce {
		result.status = "skipped"
		result.message = fmt.Sprintf("already exists at %s", path)
		return result
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		result.status = "failed"
		result.message = fmt.Sprintf("cannot create %s: %v", dir, err)
		return result
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		result.status = "failed"
		result.message = fmt.Sprintf("cannot write %s: %v", path, err)
		return result
	}

	result.status = "done"
	result.message = fmt.Sprintf("created %s", path)
	return result
}

// initDatabase opens the run database so migrations apply up front.
func initDatabase() initResult {
	result := initResult{name: "Database"}

	path := config.DatabasePath()
	database, err := db.Open(path)
	if err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}
	defer database.Close()

	applied, err := database.MigrateUp(context.Background())
	if err != nil {
		result.status = "failed"
		result.message = fmt.Sprintf("migration failed: %v", err)
		return result
	}

	result.status = "done"
	if applied > 0 {
		result.message = fmt.Sprintf("ready at %s (%d migrations applied)", path, applied)
	} else {
		result.message = fmt.Sprintf("ready at %s", path)
	}
	return result
}

// createProjectConfig writes .docwright.yaml for the project, prompting
// for the basics when the session is interactive.
func createProjectConfig(projectDir string) initResult {
	result := initResult{name: "Project config"}

	path := filepath.Join(projectDir, config.ProjectConfigName)
	if _, err := os.Stat(path); err == nil && !initForce {
		result.status = "skipped"
		result.message = fmt.Sprintf("already exists at %s", path)
		return result
	}

	answers := defaultProjectAnswers(projectDir)
	if IsInteractive() {
		askProjectAnswers(&answers)
	}

	content := fmt.Sprintf(projectConfigTemplate,
		answers.ProjectName, answers.Template, answers.EnableAI, answers.Model)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		result.status = "failed"
		result.message = fmt.Sprintf("cannot write %s: %v", path, err)
		return result
	}

	result.status = "done"
	result.message = fmt.Sprintf("created %s", path)
	return result
}

type projectAnswers struct {
	ProjectName string
	Template    string
	EnableAI    bool
	Model       string
}

func defaultProjectAnswers(projectDir string) projectAnswers {
	name := filepath.Base(projectDir)
	if abs, err := filepath.Abs(projectDir); err == nil {
		name = filepath.Base(abs)
	}
	return projectAnswers{
		ProjectName: name,
		Template:    "project-overview",
		Model:       "gpt-4o-mini",
	}
}

// askProjectAnswers fills answers from interactive prompts. Prompt errors
// (including ctrl-c) leave the defaults in place.
func askProjectAnswers(answers *projectAnswers) {
	if err := survey.AskOne(&survey.Input{
		Message: "Project name:",
		Default: answers.ProjectName,
	}, &answers.ProjectName); err != nil {
		return
	}

	options := builtinTemplateNames()
	if len(options) > 0 {
		if err := survey.AskOne(&survey.Select{
			Message: "Default template:",
			Options: options,
			Default: answers.Template,
		}, &answers.Template); err != nil {
			return
		}
	}

	if err := survey.AskOne(&survey.Confirm{
		Message: "Enable AI enhancement?",
		Default: answers.EnableAI,
	}, &answers.EnableAI); err != nil {
		return
	}

	if answers.EnableAI {
		if err := survey.AskOne(&survey.Input{
			Message: "Model:",
			Default: answers.Model,
		}, &answers.Model); err != nil {
			return
		}
	}
}

func builtinTemplateNames() []string {
	builtins, err := templates.LoadBuiltinTemplates()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(builtins))
	for _, tmpl := range builtins {
		names = append(names, tmpl.Name)
	}
	return names
}

// defaultConfigDir resolves the global config directory, honoring
// XDG_CONFIG_HOME.
func defaultConfigDir() string {
	return config.ConfigDir()
}

const configTemplate = `# Docwright Configuration File
# Global defaults. A project .docwright.yaml overrides these, and
# DOCWRIGHT_* environment variables override both.

# Directory generated documents are written to, relative to the source tree.
output_dir: docs

# Template rendered when none is given on the command line.
template: project-overview

# File extensions included in source analysis.
extensions:
  - .go
  - .js
  - .ts
  - .py
  - .rb
  - .rs
  - .java
  - .sh

# Directory names skipped during analysis.
ignore:
  - .git
  - vendor
  - node_modules
  - dist
  - build

ai:
  # Polish generated documents with an AI model.
  enabled: false
  model: gpt-4o-mini
  base_url: https://api.openai.com/v1
  # Environment variable holding the API key; the key itself never
  # belongs in this file.
  api_key_env: OPENAI_API_KEY
  max_tokens: 2048
  temperature: 0.3
  timeout_seconds: 60

watch:
  # Quiet window before a change batch triggers regeneration.
  debounce_ms: 500

log:
  # trace, debug, info, warn, error
  level: info
  # console or json
  format: console
`

const projectConfigTemplate = `# Docwright project configuration.
project_name: %s
template: %s

ai:
  enabled: %t
  model: %s
`
