// Package config loads docwright settings from YAML files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/docwright-ai/docwright/internal/models"
)

// ProjectConfigName is the per-project config file written by "docwright init".
const ProjectConfigName = ".docwright.yaml"

// Config holds all docwright settings.
type Config struct {
	// ProjectName overrides the name derived from the source directory.
	ProjectName string `mapstructure:"project_name"`

	// OutputDir is where generated documents are written, relative to the project.
	OutputDir string `mapstructure:"output_dir"`

	// Template is the default template used by generate and watch.
	Template string `mapstructure:"template"`

	// Extensions lists the source file extensions considered during analysis.
	Extensions []string `mapstructure:"extensions"`

	// Ignore lists directory names skipped during analysis and watching.
	Ignore []string `mapstructure:"ignore"`

	AI    AIConfig    `mapstructure:"ai"`
	Watch WatchConfig `mapstructure:"watch"`
	Log   LogConfig   `mapstructure:"log"`
}

// AIConfig controls the optional enhancement step.
type AIConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	Model          string  `mapstructure:"model"`
	BaseURL        string  `mapstructure:"base_url"`
	APIKeyEnv      string  `mapstructure:"api_key_env"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// WatchConfig controls the file watcher.
type WatchConfig struct {
	// DebounceMS is how long the watcher waits after the last change
	// before triggering a regeneration.
	DebounceMS int `mapstructure:"debounce_ms"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the built-in configuration with no file or environment
// applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults always unmarshal; reaching here means the defaults
		// themselves are broken.
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &cfg
}

// Load reads configuration for a project directory. The first existing file
// wins: projectDir/.docwright.yaml, projectDir/.docwright.yml, then the
// global ConfigDir()/config.yaml. Missing files are not an error; defaults
// and DOCWRIGHT_* environment variables still apply.
func Load(projectDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DOCWRIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := findConfigFile(projectDir); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// findConfigFile returns the first existing config file, or empty string.
func findConfigFile(projectDir string) string {
	candidates := []string{
		filepath.Join(projectDir, ProjectConfigName),
		filepath.Join(projectDir, ".docwright.yml"),
		filepath.Join(ConfigDir(), "config.yaml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("project_name", "")
	v.SetDefault("output_dir", "docs")
	v.SetDefault("template", "project-overview")
	v.SetDefault("extensions", []string{".go", ".js", ".ts", ".py", ".rb", ".rs", ".java", ".sh"})
	v.SetDefault("ignore", []string{".git", "vendor", "node_modules", "dist", "build"})

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("ai.max_tokens", 2048)
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("ai.timeout_seconds", 60)

	v.SetDefault("watch.debounce_ms", 500)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate checks the configuration, collecting all problems.
func (c *Config) Validate() error {
	var errs models.ValidationErrors

	if c.OutputDir == "" {
		errs.AddMessage("output_dir", "must not be empty")
	}
	if c.Template == "" {
		errs.AddMessage("template", "must not be empty")
	}
	if c.AI.MaxTokens <= 0 {
		errs.AddMessage("ai.max_tokens", "must be positive")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		errs.AddMessage("ai.temperature", "must be between 0 and 2")
	}
	if c.AI.TimeoutSeconds <= 0 {
		errs.AddMessage("ai.timeout_seconds", "must be positive")
	}
	if c.Watch.DebounceMS < 0 {
		errs.AddMessage("watch.debounce_ms", "must not be negative")
	}

	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error", "":
	default:
		errs.AddMessage("log.level", fmt.Sprintf("unknown level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json", "":
	default:
		errs.AddMessage("log.format", fmt.Sprintf("unknown format %q", c.Log.Format))
	}

	return errs.Err()
}

// IsValidation reports whether err is a configuration validation error.
func IsValidation(err error) bool {
	var verrs *models.ValidationErrors
	return errors.As(err, &verrs)
}
