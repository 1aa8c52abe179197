package plotter

import "context"

// Plotter turns raw user input into a sampled, ready-to-draw Plot.
//
//go:generate mockgen -package mockplotter -source=interface.go -destination=mock/mockplotter.go *
type Plotter interface {
	// Plot normalizes, parses and samples input over the fixed domain. Every
	// failure carries one of the error kinds of this package.
	Plot(ctx context.Context, input string) (*Plot, error)
}
