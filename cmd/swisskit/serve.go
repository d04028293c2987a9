package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javajack/swisskit/internal/store"
	"github.com/javajack/swisskit/internal/web"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :8050)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	st, err := store.Open(a.cfg.DBPath, a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			a.logger.Warn("close store", zap.Error(err))
		}
	}()

	a.logger.Info("starting",
		zap.String("db", a.cfg.DBPath),
		zap.String("data_dir", a.cfg.DataDir))
	srv := web.New(a.cfg.HTTPAddr, st, a.logger, web.Options{
		SummaryTop:   a.cfg.SummaryTop,
		CardTemplate: a.cfg.CardTemplate,
	})
	return srv.ListenAndServe(ctx)
}
