package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"edu-choropleth/internal/config"
	"edu-choropleth/internal/dataset"
	"edu-choropleth/internal/logger"
	"edu-choropleth/internal/scene"

	"github.com/spf13/cobra"
)

// options：全局参数，默认值来自 .env / 环境变量
type options struct {
	education string
	topology  string
	scale     string
	width     float64
	height    float64
	timeout   time.Duration
}

// NewRootCmd 构建命令树；每次调用返回独立实例
func NewRootCmd() *cobra.Command {
	config.LoadDotenv()
	cfg := config.FromEnv()
	o := &options{}

	root := &cobra.Command{
		Use:           "choropleth",
		Short:         "U.S. educational attainment choropleth",
		Long:          "Render the county choropleth as SVG/PNG/HTML, look up counties, simulate hover and print the legend.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetupWriter(cmd.ErrOrStderr(), os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&o.education, "education", cfg.EducationURL, "education dataset URL or path")
	f.StringVar(&o.topology, "topology", cfg.TopologyURL, "county topology URL or path")
	f.StringVar(&o.scale, "scale", cfg.ColorScale, "color scale: linear|threshold")
	f.Float64Var(&o.width, "width", cfg.MapWidth, "canvas width")
	f.Float64Var(&o.height, "height", cfg.MapHeight, "canvas height")
	f.DurationVar(&o.timeout, "timeout", cfg.FetchTimeout, "fetch timeout (0 = none)")

	root.AddCommand(newRenderCmd(o))
	root.AddCommand(newLookupCmd(o))
	root.AddCommand(newHoverCmd(o))
	root.AddCommand(newLegendCmd(o))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// load：一次性加载快照；失败时返回 ErrDataUnavailable 包装的错误
func (o *options) load(ctx context.Context) (*dataset.Snapshot, error) {
	h := &dataset.Holder{}
	if err := h.Run(ctx, dataset.NewLoader(o.education, o.topology, o.timeout)); err != nil {
		return nil, err
	}
	return h.Current(), nil
}

func (o *options) viewport() scene.Viewport {
	return scene.Viewport{Width: o.width, Height: o.height}
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
