// Package shell holds the state of the interactive plotting session: the text
// being typed, the message shown to the user and the latest rendered graph.
// It knows nothing about windows or widgets; front ends read and drive it.
package shell

import (
	"context"
	"grapher/internal/plotter"
	"grapher/pkg/logger"
	"image"
	"regexp"
	"sync"

	"go.uber.org/zap"
)

// allowedInput is the set of characters the entry box accepts.
var allowedInput = regexp.MustCompile(`^[0-9+\-*/^xy\s=]*$`) //nolint: gochecknoglobals

// AllowedInput reports whether s only contains characters that may be typed
// into the entry box.
func AllowedInput(s string) bool {
	return allowedInput.MatchString(s)
}

// Renderer draws a plot.
type Renderer interface {
	Render(ctx context.Context, plot *plotter.Plot) (image.Image, error)
}

// Snapshot is a consistent view of the session.
type Snapshot struct {
	Text    string
	Message string
	Plot    *plotter.Plot
	Image   image.Image
	// Version grows by one every time Image is replaced.
	Version uint64
}

// Shell is the session state. The zero value is not usable; create one with New.
type Shell struct {
	plotter  plotter.Plotter
	renderer Renderer

	mu      sync.RWMutex
	text    string
	message string
	plot    *plotter.Plot
	image   image.Image
	version uint64
}

// New creates an empty session backed by p and r.
func New(p plotter.Plotter, r Renderer) *Shell {
	return &Shell{plotter: p, renderer: r}
}

// Snapshot returns the current state.
func (s *Shell) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Text:    s.text,
		Message: s.message,
		Plot:    s.plot,
		Image:   s.image,
		Version: s.version,
	}
}

// Text returns the entry text.
func (s *Shell) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.text
}

// Message returns the message for the user, empty when there is nothing to report.
func (s *Shell) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.message
}

// SetText replaces the entry text. It returns false and keeps the old text
// when text contains a character outside the accepted set.
func (s *Shell) SetText(text string) bool {
	if !AllowedInput(text) {
		return false
	}

	s.mu.Lock()
	s.text = text
	s.mu.Unlock()

	return true
}

// Insert appends r to the entry text if the result is still acceptable.
func (s *Shell) Insert(r rune) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.text + string(r)
	if !AllowedInput(next) {
		return false
	}
	s.text = next

	return true
}

// Backspace removes the last character of the entry text.
func (s *Shell) Backspace() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.text == "" {
		return
	}
	runes := []rune(s.text)
	s.text = string(runes[:len(runes)-1])
}

// Submit plots the current entry text. On success the graph is replaced and
// the message cleared. On failure the message describes the problem and the
// previous graph stays as it was. The returned error is informational; the
// session remains usable either way.
func (s *Shell) Submit(ctx context.Context) error {
	input := s.Text()

	plot, err := s.plotter.Plot(ctx, input)
	if err != nil {
		return s.fail(ctx, input, err)
	}

	img, err := s.renderer.Render(ctx, plot)
	if err != nil {
		return s.fail(ctx, input, err)
	}

	s.mu.Lock()
	s.plot = plot
	s.image = img
	s.version++
	s.message = ""
	s.mu.Unlock()

	logger.Info(ctx, "plotted", zap.String("input", input), zap.String("expression", plot.Expression))

	return nil
}

func (s *Shell) fail(ctx context.Context, input string, err error) error {
	message := plotter.UserMessage(err)
	if plotter.IsPlotError(err) {
		logger.Warn(ctx, message, zap.String("input", input), zap.Error(err))
	} else {
		logger.Error(ctx, "could not plot", zap.String("input", input), zap.Error(err))
	}

	s.mu.Lock()
	s.message = message
	s.mu.Unlock()

	return err
}
