// Package cli provides the version command.
package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := VersionInfo{
			Version:   buildVersion,
			Commit:    buildCommit,
			BuildDate: buildDate,
			GoVersion: runtime.Version(),
			Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, info)
		}

		fmt.Fprintf(os.Stdout, "docwright %s\n", info.Version)
		fmt.Fprintf(os.Stdout, "  commit:   %s\n", info.Commit)
		fmt.Fprintf(os.Stdout, "  built:    %s\n", info.BuildDate)
		fmt.Fprintf(os.Stdout, "  go:       %s\n", info.GoVersion)
		fmt.Fprintf(os.Stdout, "  platform: %s\n", info.Platform)
		return nil
	},
}

// VersionInfo is the payload returned by `docwright version`.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}
