// main.go - diffusion-console entry point and root command
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rodjjo/diffusion-expert-sub000/internal/config"
	"github.com/rodjjo/diffusion-expert-sub000/internal/logging"
)

// app carries what every subcommand needs after the root pre-run.
type app struct {
	cfgFile  string
	logLevel string

	cfg    *config.Config
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "diffusion-console",
		Short: "Capture and replay terminal output",
		Long: `diffusion-console decodes ANSI/VT100 output into a bounded, log-like
screen buffer. It can replay recorded byte streams, run a command in a
pseudo-terminal and watch it, or capture the process's own stdout and stderr.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $HOME/"+config.AppHomeDir+"/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newReplayCmd(a),
		newRunCmd(a),
		newCaptureCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.NewViper(a.cfgFile))
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = logging.ParseLevel(a.logLevel)
	}
	a.cfg = cfg

	a.logger = logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err := logging.NewLogger(logsDir(cfg), cfg.Logging.Level)
		if err != nil {
			// Logging is best effort.
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		} else {
			a.logger = logger
		}
	}
	a.logger.Debug("command started", "command", cmd.Name(), "args", args)
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) error {
	if a.logger == nil {
		return nil
	}
	return a.logger.Close()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
