// Command swisskit prepares Swiss-Manager player and team files, ranks teams
// from final standings, prints player cards and QR codes, and serves the same
// tools over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/javajack/swisskit/internal/config"
)

// app is the state shared by every command once the root has run.
type app struct {
	configFile string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "swisskit",
		Short:         "Swiss-Manager tournament helper",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "config file (default ./"+config.DefaultFile+" when present)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.String("data-dir", "", "directory for the database and uploaded assets")
	pf.String("log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		a.serveCmd(),
		a.playersCmd(),
		a.describeCmd(),
		a.summarizeCmd(),
		a.cardsCmd(),
		a.qrCmd(),
	)
	return root
}

// init loads the configuration and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	flags := map[string]*pflag.Flag{
		"data_dir":  cmd.Flags().Lookup("data-dir"),
		"log_level": cmd.Flags().Lookup("log-level"),
		"http_addr": cmd.Flags().Lookup("addr"),
	}
	for key, f := range flags {
		if f == nil || !f.Changed {
			delete(flags, key)
		}
	}
	cfg, err := config.Load(a.configFile, flags)
	if err != nil {
		return err
	}
	a.cfg = cfg

	zc := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if a.verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	a.logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
