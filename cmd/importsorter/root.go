package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gnana997/importsorter/pkg/config"
	"github.com/gnana997/importsorter/pkg/mcp"
	"github.com/gnana997/importsorter/pkg/parser"
	"github.com/gnana997/importsorter/pkg/runner"
	"github.com/gnana997/importsorter/pkg/util"
)

// Version information (set via ldflags)
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

// app holds global flags and the I/O streams shared by every command.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logger *slog.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "importsorter",
		Short: "Sort, group and deduplicate TypeScript and JavaScript imports",
		Long: `importsorter rewrites the import block of TypeScript and JavaScript files.

Imports are merged per module, grouped by configurable path rules and sorted
inside and across groups. Settings are read from import-sorter.json in the
working directory, or from the file given with --config (json, yaml or toml).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initLogging()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "",
		"Configuration file (default ./import-sorter.json when present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn",
		"Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text",
		"Log format (text, json)")

	root.AddCommand(
		newSortCmd(a),
		newParseCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newSetupCmd(a),
		newVersionCmd(a),
	)
	return root
}

// initLogging builds the stderr logger from the global flags.
func (a *app) initLogging() error {
	level, err := util.ParseLogLevel(a.logLevel)
	if err != nil {
		return err
	}
	format, err := util.ParseLogFormat(a.logFormat)
	if err != nil {
		return err
	}
	cfg := util.DefaultLoggerConfig()
	cfg.Level, cfg.Format = level, format
	if a.stderr != nil {
		cfg.Output = a.stderr
	}
	a.logger = util.NewLogger(cfg)
	slog.SetDefault(a.logger)
	mcp.Version = Version
	return nil
}

// loadConfig resolves the configuration for the project in dir.
func (a *app) loadConfig(dir string) (config.Configuration, error) {
	cfg, path, err := config.Resolve(a.configPath, dir)
	if err != nil {
		return config.Configuration{}, err
	}
	if path == "" {
		a.logger.Debug("using default configuration")
	} else {
		a.logger.Debug("configuration loaded", "path", path)
	}
	return cfg, nil
}

// buildRunner assembles a runner for cfg. The returned parser manager must be
// closed by the caller.
func (a *app) buildRunner(cfg config.Configuration) (*runner.Runner, *parser.ParserManager, error) {
	pm := parser.NewParserManager(a.logger)
	r, err := runner.Build(cfg, pm, a.logger)
	if err != nil {
		pm.Close()
		return nil, nil, fmt.Errorf("failed to build import sorter: %w", err)
	}
	return r, pm, nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(a.stdout, "importsorter %s (%s)\n", Version, GitCommit)
		},
	}
}
