package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"routeeob/internal/server"
	"routeeob/internal/util"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		port    int
		devMode bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// config.toml / 环境变量优先；仅当未显式配置 port 时命令行生效
			if port > 0 && !a.info.PortSpecified {
				a.cfg.Server.Port = port
			}
			if devMode {
				a.cfg.Server.DevMode = true
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (ignored when config.toml or env sets one)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "development mode (no browser, gin debug output)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(a.cfg, a.catalog, a.logger)
	url := util.LocalURL(a.cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	if !a.cfg.Server.DevMode && a.cfg.Server.OpenBrowser {
		a.logger.Info("opening browser", zap.String("url", url))
		if err := util.OpenBrowserWithFallback(url); err != nil {
			a.logger.Warn("could not open browser, visit manually", zap.String("url", url), zap.Error(err))
		}
	} else {
		a.logger.Info("server ready", zap.String("url", url))
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
