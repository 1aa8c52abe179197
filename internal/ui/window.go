// Package ui runs the desktop window of the plotter: the graph on top, the
// Plot and Exit buttons, a hint, the entry box and the message label.
package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"grapher/internal/config"
	"grapher/internal/shell"
	"grapher/pkg/logger"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"
)

// Hint is shown above the entry box.
const Hint = "Enter a formula (e.g. y = 2x^2 + x)"

const (
	padding    = 20
	fontSize   = 16
	rowHeight  = 36
	buttonSize = 110
)

var ( //nolint: gochecknoglobals
	background  = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	foreground  = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	errorColor  = color.RGBA{R: 0xc0, G: 0x20, B: 0x20, A: 0xff}
	buttonColor = color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	borderColor = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
)

// Options configure the window.
type Options struct {
	Title       string
	Width       int
	Height      int
	GraphWidth  int
	GraphHeight int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Title:       cfg.Window.Title,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		GraphWidth:  cfg.Render.Width,
		GraphHeight: cfg.Render.Height,
	}
}

// Run opens the window and blocks until it is closed with the Exit button,
// the Escape key or the window manager.
func Run(ctx context.Context, s *shell.Shell, options Options) error {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return fmt.Errorf("could not load font: %w", err)
	}

	w := newWindow(ctx, s, options, &text.GoTextFace{Source: source, Size: fontSize})

	ebiten.SetWindowTitle(options.Title)
	ebiten.SetWindowSize(options.Width, options.Height)
	ebiten.SetTPS(30)

	logger.Info(ctx, "opening window", zap.String("title", options.Title))

	err = ebiten.RunGame(w)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}

	return err
}

// window implements ebiten.Game on top of a shell session.
type window struct {
	ctx     context.Context //nolint: containedctx
	shell   *shell.Shell
	options Options
	face    *text.GoTextFace

	graph, plotButton, exitButton, hint, entry, message image.Rectangle

	graphImage   *ebiten.Image
	graphVersion uint64
}

func newWindow(ctx context.Context, s *shell.Shell, options Options, face *text.GoTextFace) *window {
	w := &window{ctx: ctx, shell: s, options: options, face: face}

	y := padding
	w.graph = image.Rect(padding, y, padding+options.GraphWidth, y+options.GraphHeight)
	y = w.graph.Max.Y + padding/2

	center := options.Width / 2
	w.plotButton = image.Rect(center-buttonSize-padding/2, y, center-padding/2, y+rowHeight)
	w.exitButton = image.Rect(center+padding/2, y, center+padding/2+buttonSize, y+rowHeight)
	y += rowHeight + padding/2

	w.hint = image.Rect(padding, y, options.Width-padding, y+rowHeight)
	y += rowHeight

	w.entry = image.Rect(center-150, y, center+150, y+rowHeight)
	y += rowHeight + padding/2

	w.message = image.Rect(padding, y, options.Width-padding, y+rowHeight)

	return w
}

func (w *window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || w.clicked(w.exitButton) {
		return ebiten.Termination
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		w.shell.Insert(r)
	}
	if repeating(ebiten.KeyBackspace) {
		w.shell.Backspace()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) ||
		w.clicked(w.plotButton) {
		// failures are reported through the message label
		_ = w.shell.Submit(w.ctx)
	}

	return nil
}

func (w *window) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	snap := w.shell.Snapshot()

	if snap.Image != nil && (w.graphImage == nil || snap.Version != w.graphVersion) {
		if w.graphImage != nil {
			w.graphImage.Deallocate()
		}
		w.graphImage = ebiten.NewImageFromImage(snap.Image)
		w.graphVersion = snap.Version
	}
	if w.graphImage != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(w.graph.Min.X), float64(w.graph.Min.Y))
		screen.DrawImage(w.graphImage, op)
	}

	w.drawBox(screen, w.plotButton, buttonColor)
	w.drawText(screen, "Plot", w.plotButton, foreground, true)
	w.drawBox(screen, w.exitButton, buttonColor)
	w.drawText(screen, "Exit", w.exitButton, foreground, true)

	w.drawText(screen, Hint, w.hint, foreground, true)

	w.drawBox(screen, w.entry, color.White)
	w.drawText(screen, snap.Text+"_", w.entry.Inset(6), foreground, false)

	if snap.Message != "" {
		w.drawText(screen, snap.Message, w.message, errorColor, true)
	}
}

func (w *window) Layout(int, int) (int, int) {
	return w.options.Width, w.options.Height
}

func (w *window) clicked(r image.Rectangle) bool {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}

	return image.Pt(ebiten.CursorPosition()).In(r)
}

func (w *window) drawBox(screen *ebiten.Image, r image.Rectangle, fill color.Color) {
	x, y := float32(r.Min.X), float32(r.Min.Y)
	width, height := float32(r.Dx()), float32(r.Dy())

	vector.DrawFilledRect(screen, x, y, width, height, fill, false)
	vector.StrokeRect(screen, x, y, width, height, 1, borderColor, false)
}

func (w *window) drawText(screen *ebiten.Image, s string, r image.Rectangle, clr color.Color, centered bool) {
	width, height := text.Measure(s, w.face, w.face.Size*1.2)

	x := float64(r.Min.X)
	if centered {
		x += (float64(r.Dx()) - width) / 2
	}
	y := float64(r.Min.Y) + (float64(r.Dy())-height)/2

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, w.face, op)
}

// repeating reports a key press on the first frame and then periodically
// while the key is held.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)

	return d == 1 || (d >= 15 && d%3 == 0)
}
