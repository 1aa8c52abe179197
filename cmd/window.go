package main

import (
	"grapher/internal/config"
	"grapher/internal/shell"
	"grapher/internal/ui"
	"grapher/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func windowCommand(cfg *config.Config) *cobra.Command {
	var formula string

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Opens the desktop plotting window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s := shell.New(newPlotter(ctx, cfg), newRenderer(ctx, cfg))
			if formula != "" {
				if !s.SetText(formula) {
					logger.Warn(ctx, "ignoring initial formula with unsupported characters", zap.String("formula", formula))
				} else if err := s.Submit(ctx); err != nil {
					logger.Warn(ctx, "could not plot initial formula", zap.Error(err))
				}
			}

			return ui.Run(ctx, s, ui.NewOptions(cfg))
		},
	}

	cmd.Flags().StringVarP(&formula, "formula", "f", "", "formula to enter and plot on start")

	return cmd
}
