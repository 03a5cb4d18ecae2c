package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"routeeob/internal/exporter"
	"routeeob/internal/loader"
	"routeeob/internal/model"
	"routeeob/internal/report"
)

type batchFlags struct {
	format string
	layout string
	out    string
}

func newMetricsCmd(a *app) *cobra.Command {
	var f batchFlags
	cmd := &cobra.Command{
		Use:   "metrics <input>",
		Short: "Write the depot delivery metrics report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd, args[0], report.KindDeliveryMetrics, f)
		},
	}
	cmd.Flags().StringVar(&f.format, "format", string(exporter.FormatCSV), "output format: "+exporter.FormatNames())
	cmd.Flags().StringVar(&f.out, "out", "", "output path (default: generated file name in the working dir)")
	return cmd
}

func newWeightsCmd(a *app) *cobra.Command {
	var f batchFlags
	cmd := &cobra.Command{
		Use:   "weights <input>",
		Short: "Write the route trailer weights report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch f.layout {
			case "side-by-side", "single":
			default:
				return fmt.Errorf("invalid --layout %q (side-by-side, single)", f.layout)
			}
			return a.runBatch(cmd, args[0], report.KindTrailerWeights, f)
		},
	}
	cmd.Flags().StringVar(&f.format, "format", string(exporter.FormatCSV), "output format: "+exporter.FormatNames())
	cmd.Flags().StringVar(&f.layout, "layout", "side-by-side", "side-by-side or single")
	cmd.Flags().StringVar(&f.out, "out", "", "output path (default: generated file name in the working dir)")
	return cmd
}

// runBatch 读取输入 -> 构建报表 -> 写文件
func (a *app) runBatch(cmd *cobra.Command, input string, kind report.Kind, f batchFlags) error {
	fileName, err := report.FileName(kind, f.format, time.Now())
	if err != nil {
		return err
	}
	out := f.out
	if out == "" {
		out = fileName
	}

	table, status := loader.LoadFile(input)
	if !status.OK {
		return status.Err
	}

	data, err := a.render(table, kind, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return err
	}

	a.logger.Info("report written",
		zap.String("report", string(kind)),
		zap.String("input", input),
		zap.Int("rows", table.Len()),
		zap.String("out", out),
		zap.String("size", humanize.Bytes(uint64(len(data)))),
	)
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func (a *app) render(table *model.Table, kind report.Kind, f batchFlags) ([]byte, error) {
	b := report.NewBuilder(a.catalog, a.cfg.Schema())
	switch kind {
	case report.KindDeliveryMetrics:
		rep, err := b.DeliveryMetrics(table, nil)
		if err != nil {
			return nil, err
		}
		data, _, err := rep.Export(f.format)
		return data, err
	default:
		rep, err := b.TrailerWeights(table, nil)
		if err != nil {
			return nil, err
		}
		data, _, err := rep.Export(f.format, f.layout != "single")
		return data, err
	}
}
