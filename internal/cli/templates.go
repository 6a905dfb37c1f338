// Package cli template management commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/docwright-ai/docwright/internal/templates"
)

var (
	templatesSource string

	templatesShowBody bool

	templatesPreviewVars []string
)

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesAddCmd)
	templatesCmd.AddCommand(templatesRemoveCmd)
	templatesCmd.AddCommand(templatesPreviewCmd)

	templatesCmd.PersistentFlags().StringVarP(&templatesSource, "source", "s", ".", "project directory templates belong to")
	templatesShowCmd.Flags().BoolVar(&templatesShowBody, "body", false, "print the raw template body")
	templatesPreviewCmd.Flags().StringArrayVar(&templatesPreviewVars, "var", nil, "template variable as key=value (repeatable)")
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage documentation templates",
	Long: `Manage the templates documents are rendered from.

Templates resolve in precedence order: project (.docwright/templates),
user config, system, then the built-ins. A customization in
.docwright/customizations overrides the body of a template without
replacing it.`,
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := templates.LoadedRegistry(templatesSource)
		if err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}

		list := registry.List()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, list)
		}

		if len(list) == 0 {
			fmt.Fprintln(os.Stdout, "No templates found.")
			return nil
		}

		rows := make([][]string, 0, len(list))
		for _, tmpl := range list {
			kind := string(tmpl.Kind)
			if kind == "" {
				kind = "-"
			}
			_, customized := registry.GetCustom(tmpl.Name)
			rows = append(rows, []string{
				tmpl.Name,
				kind,
				tmpl.Source,
				formatYesNo(customized),
				tmpl.Description,
			})
		}
		return writeTable(os.Stdout, []string{"NAME", "KIND", "SOURCE", "CUSTOMIZED", "DESCRIPTION"}, rows)
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a template's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := templates.LoadedRegistry(templatesSource)
		if err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}

		tmpl, err := registry.Get(args[0])
		if err != nil {
			return err
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, tmpl)
		}

		if templatesShowBody {
			fmt.Fprint(os.Stdout, tmpl.Body)
			if !strings.HasSuffix(tmpl.Body, "\n") {
				fmt.Fprintln(os.Stdout)
			}
			return nil
		}

		fmt.Fprintf(os.Stdout, "Name:        %s\n", tmpl.Name)
		if tmpl.Kind != "" {
			fmt.Fprintf(os.Stdout, "Kind:        %s\n", tmpl.Kind)
		}
		fmt.Fprintf(os.Stdout, "Source:      %s\n", tmpl.Source)
		if tmpl.Description != "" {
			fmt.Fprintf(os.Stdout, "Description: %s\n", tmpl.Description)
		}
		if _, ok := registry.GetCustom(tmpl.Name); ok {
			fmt.Fprintln(os.Stdout, "Customized:  yes")
		}

		if len(tmpl.Variables) > 0 {
			fmt.Fprintln(os.Stdout, "\nVariables:")
			rows := make([][]string, 0, len(tmpl.Variables))
			for _, v := range tmpl.Variables {
				def := v.Default
				if def == "" {
					def = "-"
				}
				rows = append(rows, []string{"  " + v.Name, formatYesNo(v.Required), def, v.Description})
			}
			if err := writeTable(os.Stdout, []string{"  NAME", "REQUIRED", "DEFAULT", "DESCRIPTION"}, rows); err != nil {
				return err
			}
		}

		fmt.Fprintf(os.Stdout, "\nUse --body to print the template body.\n")
		return nil
	},
}

var templatesAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Install a template customization",
	Long: `Install a customization from a YAML file into the project's
.docwright/customizations directory. The customization's body replaces
the body of the template with the same name; a name that matches no
template becomes a new template of its own.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		custom, err := templates.LoadCustomization(args[0])
		if err != nil {
			return fmt.Errorf("failed to load customization: %w", err)
		}

		// Validate against the registry before touching the filesystem.
		registry, err := templates.LoadedRegistry(templatesSource)
		if err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}
		if err := registry.Customize(custom); err != nil {
			return err
		}

		dir := templates.CustomizationDir(templatesSource)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}

		data, err := yaml.Marshal(custom)
		if err != nil {
			return fmt.Errorf("failed to encode customization: %w", err)
		}
		path := filepath.Join(dir, custom.Name+".yaml")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, map[string]any{
				"name": custom.Name,
				"path": path,
			})
		}

		fmt.Fprintf(os.Stdout, "Installed customization %q at %s\n", custom.Name, path)
		return nil
	},
}

var templatesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a template customization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		path := filepath.Join(templates.CustomizationDir(templatesSource), name+".yaml")

		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("no customization named %q", name)
			}
			return fmt.Errorf("failed to check %s: %w", path, err)
		}

		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, map[string]any{
				"name":    name,
				"removed": true,
			})
		}

		fmt.Fprintf(os.Stdout, "Removed customization %q; %q falls back to its template\n", name, name)
		return nil
	},
}

var templatesPreviewCmd = &cobra.Command{
	Use:   "preview <name>",
	Short: "Render a template to stdout without analyzing sources",
	Long: `Render a template with only the variables given on the command
line. Rendering never fails: missing data degrades to a placeholder
document, which makes preview useful for checking customizations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := parseVarFlags(templatesPreviewVars)
		if err != nil {
			return err
		}

		registry, err := templates.LoadedRegistry(templatesSource)
		if err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}
		engine := templates.NewEngine(registry)

		out := engine.RenderWithFallback(args[0], templates.Context{
			Variables: vars,
			Metadata: templates.Metadata{
				Version: buildVersion,
				Source:  templatesSource,
			},
		}, nil)

		fmt.Fprint(os.Stdout, out)
		if !strings.HasSuffix(out, "\n") {
			fmt.Fprintln(os.Stdout)
		}
		return nil
	},
}
