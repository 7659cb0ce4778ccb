package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dshills/inheritdoc/internal/storage"
)

type versionInfo struct {
	Version       string `json:"version"`
	BuildTime     string `json:"build_time"`
	BuildMode     string `json:"build_mode"`
	Driver        string `json:"sqlite_driver"`
	SchemaVersion string `json:"schema_version"`
	GoVersion     string `json:"go_version"`
	Platform      string `json:"platform"`
}

func newVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// Version needs no configuration or logger
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo{
				Version:       version,
				BuildTime:     buildTime,
				BuildMode:     storage.BuildMode,
				Driver:        storage.DriverName,
				SchemaVersion: storage.CurrentSchemaVersion,
				GoVersion:     runtime.Version(),
				Platform:      runtime.GOOS + "/" + runtime.GOARCH,
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Fprintf(out, "inheritdoc %s\n", info.Version)
			fmt.Fprintf(out, "Build Time: %s\n", info.BuildTime)
			fmt.Fprintf(out, "Build Mode: %s\n", info.BuildMode)
			fmt.Fprintf(out, "SQLite Driver: %s\n", info.Driver)
			fmt.Fprintf(out, "Schema: %s\n", info.SchemaVersion)
			fmt.Fprintf(out, "Go: %s (%s)\n", info.GoVersion, info.Platform)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output version info as JSON")
	return cmd
}
