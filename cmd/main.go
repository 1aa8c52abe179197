// Package main provides the CLI entrypoint for the formula plotter.
// It wires subcommands (plot, serve, window), loads configuration, and initializes logging.
package main

import (
	"context"
	"fmt"
	"grapher/internal/config"
	"grapher/internal/plotter"
	"grapher/internal/render"
	"grapher/pkg/logger"
	"log"
	"os"

	"github.com/gogpu/gg"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newRenderer creates the PNG renderer from configuration values.
func newRenderer(ctx context.Context, cfg *config.Config) *render.Renderer {
	renderer, err := render.New(render.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create renderer", zap.Error(err))
	}

	return renderer
}

// newPlotter creates the plotting pipeline from configuration values.
func newPlotter(ctx context.Context, cfg *config.Config) plotter.Plotter {
	p, err := plotter.New(plotter.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create plotter", zap.Error(err))
	}

	return p
}

// main sets up the root Cobra command, loads configuration and logging before
// any subcommand runs, and registers subcommands before executing the CLI.
func main() {
	var (
		cfg        config.Config
		configPath string
	)

	ctx := context.Background()

	rootCmd := &cobra.Command{
		Use:           "grapher",
		Short:         "Plots one-variable formulas over x in [-2, 2)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Println("loading config ...")
			loaded, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("could not load config file: %w", err)
			}
			cfg = *loaded

			logger.Setup(cfg.Environment)
			cmd.SetContext(logger.Named(cmd.Context(), cmd.Name()))
			gg.SetLogger(logger.Slog(cmd.Context(), "gg"))

			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "Config File Path")

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		plotCommand(&cfg),
		serveCommand(&cfg),
		windowCommand(&cfg),
	)

	err := rootCmd.ExecuteContext(ctx)
	_ = logger.Get(ctx).Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1) //nolint: gocritic
	}
}
