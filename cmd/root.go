// Package cmd implements the bookgrid command line.
package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/oakwood-commons/bookgrid/internal/config"
	"github.com/oakwood-commons/bookgrid/pkg/logger"
	"github.com/oakwood-commons/bookgrid/pkg/settings"
)

const longHelp = `bookgrid lays out a federated order book in the terminal.

Columns are packed into the available width in priority order, switching to
compact variants below 70em; the page size follows the available height.
Premiums are coloured by size and side. Books and rosters are read from
JSON, NDJSON, YAML or TOML files, or from stdin.`

// Execute runs the bookgrid command line.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree. Every call returns fresh flag
// state.
func NewRootCommand() *cobra.Command {
	run := settings.NewCliParams()
	var debug bool

	root := &cobra.Command{
		Use:           settings.CliBinaryName,
		Short:         "Adaptive order book tables for the terminal",
		Long:          longHelp,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if debug {
				run.MinLogLevel = -1
			}
			if run.IsQuiet {
				run.MinLogLevel = int8(zapcore.ErrorLevel)
			}
			lgr, err := setupLogger(run)
			if err != nil {
				return err
			}
			lgr = lgr.WithValues(logger.CommandKey, cmd.Name())

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = logger.WithLogger(ctx, &lgr)
			ctx = settings.IntoContext(ctx, run)
			cmd.SetContext(ctx)
			return nil
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&run.ConfigFile, "config-file", "", "path to a YAML config file (default $XDG_CONFIG_HOME/bookgrid/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "log at debug level")
	pf.Int8Var(&run.MinLogLevel, "log-level", 0, "minimum log level (-1 debug, 0 info, 1 warn, 2 error; lower values enable verbose logs)")
	pf.StringVar(&run.LogFile, "log-file", "", "append logs to this file instead of stderr")
	pf.StringVar(&run.LogFormat, "log-format", run.LogFormat, "log encoding: json|console")
	pf.BoolVarP(&run.IsQuiet, "quiet", "q", false, "log errors only")
	pf.BoolVar(&run.NoColor, "no-color", false, "disable colour output")

	root.AddCommand(
		newBookCommand(),
		newFederationCommand(),
		newLayoutCommand(),
		newConfigCommand(),
		newVersionCommand(),
	)
	return root
}

func setupLogger(run *settings.Run) (logr.Logger, error) {
	switch run.LogFormat {
	case "json", "console":
	default:
		return logr.Discard(), fmt.Errorf("invalid --log-format %q (expected json or console)", run.LogFormat)
	}
	opts := logger.Options{Level: run.MinLogLevel, Format: run.LogFormat}
	if run.LogsToFile() {
		f, err := logger.OpenFile(run.LogFile)
		if err != nil {
			return logr.Discard(), err
		}
		opts.Output = f
	}
	return *logger.Setup(opts), nil
}

// runSettings returns the settings stored by the root command.
func runSettings(ctx context.Context) *settings.Run {
	if run, ok := settings.FromContext(ctx); ok {
		return run
	}
	return settings.NewCliParams()
}

// loadConfig merges the user config over the defaults.
func loadConfig(ctx context.Context) (config.Config, error) {
	path := config.ResolvePath(runSettings(ctx).ConfigFile)
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if path != "" {
		logger.FromContext(ctx).V(1).Info("config loaded", "path", path)
	}
	return cfg, nil
}

func versionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)",
		settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print bookgrid version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return err
		},
	}
}
