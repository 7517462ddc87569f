// Package cmd provides the Cobra commands of focusctl.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/focuscore/internal/cli"
	"github.com/bnema/focuscore/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	appOpts   cli.Options
	rootCmd   = &cobra.Command{
		Use:   "focusctl",
		Short: "Drive the focuscore keyboard focus manager from the command line",
		Long: `focusctl runs the focuscore focus manager on an in-memory toolkit.

Focus requests, window activations and typed keys are fed through the same
asynchronous native event path a real toolkit would use, so type-ahead,
retargeting and veto rollback behave exactly as they do in an embedding UI.

Use 'focusctl run' to replay scenario files, 'focusctl stress' to hammer a
manager from concurrent drivers, and 'focusctl config' to inspect settings.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "gen-docs", "version":
				return nil
			}

			var err error
			app, err = cli.NewApp(appOpts)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&appOpts.ConfigPath, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/focuscore/config.toml)")
	flags.StringVar(&appOpts.LogLevel, "log-level", "", "override logging.level")
	flags.BoolVar(&appOpts.Metrics, "metrics", false, "serve Prometheus metrics on metrics.listen_addr")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
