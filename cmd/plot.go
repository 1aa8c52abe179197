package main

import (
	"errors"
	"fmt"
	"grapher/internal/config"
	"grapher/internal/plotter"
	"grapher/pkg/logger"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// writeTable prints one "x<TAB>y" row per sample.
func writeTable(w io.Writer, plot *plotter.Plot) error {
	for i := range plot.X {
		if _, err := fmt.Fprintf(w, "%.2f\t%g\n", plot.X[i], plot.Y[i]); err != nil {
			return err
		}
	}

	return nil
}

func plotCommand(cfg *config.Config) *cobra.Command {
	var (
		formula string
		out     string
		table   bool
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Plots a formula into a PNG file",
		Example: `  grapher plot --formula "y = 2x^2 + x" --out graph.png
  grapher plot -f "x^3 - x" --table --out ""`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			plot, err := newPlotter(ctx, cfg).Plot(ctx, formula)
			if err != nil {
				logger.Debug(ctx, "plot failed", zap.Error(err))

				return errors.New(plotter.UserMessage(err))
			}

			if table {
				if err := writeTable(cmd.OutOrStdout(), plot); err != nil {
					return fmt.Errorf("could not write table: %w", err)
				}
			}

			if out == "" {
				return nil
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("could not create %s: %w", out, err)
			}
			defer f.Close() //nolint: errcheck

			if err := newRenderer(ctx, cfg).EncodePNG(ctx, f, plot); err != nil {
				return fmt.Errorf("could not render %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("could not write %s: %w", out, err)
			}

			logger.Info(ctx, "graph written",
				zap.String("path", out),
				zap.String("expression", plot.Expression),
				zap.Float64("y_min", plot.Range.Min),
				zap.Float64("y_max", plot.Range.Max))

			return nil
		},
	}

	cmd.Flags().StringVarP(&formula, "formula", "f", "", `formula to plot, e.g. "y = 2x^2 + x"`)
	cmd.Flags().StringVarP(&out, "out", "o", "graph.png", "output PNG path, empty to skip rendering")
	cmd.Flags().BoolVar(&table, "table", false, "print the sampled x/y values")

	return cmd
}
