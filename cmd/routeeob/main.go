package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"routeeob/internal/config"
	"routeeob/internal/depot"
	"routeeob/internal/logging"
)

// app 命令共享的运行环境
type app struct {
	configPath string

	cfg     *config.AppConfig
	info    config.LoadConfigInfo
	catalog *depot.Catalog
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "routeeob",
		Short: "9Q Routing EOB - depot delivery metrics and trailer weights",
		Long: `routeeob turns the qryRouteSummary route export into two end-of-business reports:

  - delivery metrics per depot (cases, routes, hours, on-time %), one column per depot
  - route trailer weights sorted by route id, laid out side by side for printing

Run "routeeob serve" for the browser UI or the metrics/weights commands for batch use.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: config.toml next to the executable)")

	root.AddCommand(newServeCmd(a), newMetricsCmd(a), newWeightsCmd(a), newConfigCmd(a))
	return root
}

// setup 加载配置、日志与仓库目录
func (a *app) setup() error {
	cfg, info, err := config.LoadConfigWithInfo(a.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	catalog, err := depot.LoadFile(cfg.Depot.CatalogPath)
	if err != nil {
		return err
	}

	a.cfg, a.info, a.logger, a.catalog = cfg, info, logger, catalog
	a.logger.Debug("config loaded",
		zap.String("path", info.Path),
		zap.Bool("file_found", info.FileFound),
		zap.Int("depots", catalog.Len()),
	)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
