package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/inheritdoc/internal/config"
	"github.com/dshills/inheritdoc/internal/logging"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// app holds state shared by every command, filled in before any command runs
type app struct {
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
}

// flagKeys maps persistent flags to configuration keys
var flagKeys = map[string]string{
	"db":         "db_path",
	"workers":    "workers",
	"format":     "format",
	"structural": "structural",
	"raw-html":   "raw_html",
	"log-json":   "log.json",
	"log-level":  "log.level",
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:   "inheritdoc",
		Short: "Resolve inherited documentation of Go types and methods",
		Long: `inheritdoc - documentation inheritance for Go code.

Methods and types inherit the documentation of what they override or
implement. An empty doc comment inherits the whole description; the
{@inheritDoc} marker splices the inherited text into a description or a
block tag such as @param or @return.

Available commands:
  index     - Parse a project and store its resolved documentation
  resolve   - Print the effective documentation of a symbol
  ancestors - List the ancestors of a symbol in inheritance order
  serve     - Run the MCP server on stdio
  version   - Show version information

Examples:
  inheritdoc index ./myproject
  inheritdoc resolve ./myproject shapes.Circle.Area
  inheritdoc serve --metrics-addr :9090`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (YAML, TOML or JSON)")
	flags.String("db", config.DefaultDBPath(), "SQLite database path")
	flags.Int("workers", 0, "Concurrent workers (0 = number of CPUs)")
	flags.String("format", "text", "Output rendering: text or html")
	flags.Bool("structural", false, "Inherit from interfaces a struct satisfies without embedding them")
	flags.Bool("raw-html", false, "Keep HTML embedded in doc comments in html output")
	flags.Bool("log-json", false, "Log JSON to stderr")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")

	root.AddCommand(
		newIndexCmd(a),
		newResolveCmd(a),
		newAncestorsCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root, a
}

// init loads configuration with precedence flag > env > file > default
func (a *app) init(cmd *cobra.Command) error {
	v, err := config.NewViper(a.configFile)
	if err != nil {
		return err
	}
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	if f := cmd.Flags().Lookup("metrics-addr"); f != nil {
		if err := v.BindPFlag("metrics_addr", f); err != nil {
			return fmt.Errorf("failed to bind flag metrics-addr: %w", err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.JSON, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg, a.logger = cfg, logger
	return nil
}

func main() {
	root, _ := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
