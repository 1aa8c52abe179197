// Package render draws a sampled plot as a raster graph: white background,
// framed plot area with a grid at round tick values, dashed reference lines
// through the origin, the curve, a title and a legend. Drawing is done with
// gogpu/gg on the CPU.
package render

import (
	"context"
	"fmt"
	"grapher/internal/config"
	"grapher/internal/plotter"
	"grapher/pkg/logger"
	"grapher/pkg/serrors"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	// xPaddingRatio is the share of the x span added left and right of the curve.
	xPaddingRatio = 0.05

	maxXTicks = 8
	maxYTicks = 6

	zeroLineWidth = 0.8
	gridLineWidth = 0.5
	frameWidth    = 1.0

	gridColor  = "#e0e0e0"
	frameColor = "#333333"
	textColor  = "#222222"
)

// Options configure the rendering surface.
type Options struct {
	Width     int
	Height    int
	FontSize  float64
	LineWidth float64
	LineColor string
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Width:     cfg.Render.Width,
		Height:    cfg.Render.Height,
		FontSize:  cfg.Render.FontSize,
		LineWidth: cfg.Render.LineWidth,
		LineColor: cfg.Render.LineColor,
	}
}

// Renderer turns plots into images. It is safe for concurrent use.
type Renderer struct {
	options Options
	font    *text.FontSource
}

// New validates options and loads the bundled font.
func New(options Options) (*Renderer, error) {
	if options.Width <= 0 || options.Height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", options.Width, options.Height)
	}
	if options.FontSize <= 0 {
		return nil, fmt.Errorf("invalid font size %v", options.FontSize)
	}
	if options.LineWidth <= 0 {
		return nil, fmt.Errorf("invalid line width %v", options.LineWidth)
	}

	font, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("could not load font: %w", err)
	}

	return &Renderer{options: options, font: font}, nil
}

// Render draws plot and returns the resulting image.
func (r *Renderer) Render(ctx context.Context, plot *plotter.Plot) (image.Image, error) {
	dc, err := r.draw(ctx, plot)
	if err != nil {
		return nil, err
	}
	defer dc.Close() //nolint: errcheck

	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("could not flush surface: %w", err)
	}

	return dc.Image(), nil
}

// EncodePNG draws plot and writes it to w as PNG.
func (r *Renderer) EncodePNG(ctx context.Context, w io.Writer, plot *plotter.Plot) error {
	dc, err := r.draw(ctx, plot)
	if err != nil {
		return err
	}
	defer dc.Close() //nolint: errcheck

	if err := dc.FlushGPU(); err != nil {
		return fmt.Errorf("could not flush surface: %w", err)
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("could not encode png: %w", err)
	}

	return nil
}

// view maps data coordinates onto the plot area in pixels.
type view struct {
	left, top, width, height float64
	xMin, xMax, yMin, yMax   float64
}

func (v view) px(x float64) float64 {
	return v.left + (x-v.xMin)/(v.xMax-v.xMin)*v.width
}

func (v view) py(y float64) float64 {
	return v.top + (v.yMax-y)/(v.yMax-v.yMin)*v.height
}

func (v view) right() float64  { return v.left + v.width }
func (v view) bottom() float64 { return v.top + v.height }

func (r *Renderer) newView(plot *plotter.Plot) view {
	fs := r.options.FontSize
	left, right := 5.5*fs, 2*fs
	top, bottom := 3.5*fs, 4*fs

	xMin, xMax := math.Inf(1), math.Inf(-1)
	for _, x := range plot.X {
		xMin, xMax = math.Min(xMin, x), math.Max(xMax, x)
	}
	pad := xPaddingRatio * (xMax - xMin)
	if pad == 0 {
		pad = 1
	}

	return view{
		left:   left,
		top:    top,
		width:  float64(r.options.Width) - left - right,
		height: float64(r.options.Height) - top - bottom,
		xMin:   xMin - pad,
		xMax:   xMax + pad,
		yMin:   plot.Range.Min,
		yMax:   plot.Range.Max,
	}
}

func (r *Renderer) draw(ctx context.Context, plot *plotter.Plot) (*gg.Context, error) {
	if plot == nil || len(plot.X) == 0 || len(plot.X) != len(plot.Y) {
		return nil, serrors.With(plotter.ErrEmptySeries, "nothing to draw")
	}
	if !(plot.Range.Max > plot.Range.Min) || !isFinite(plot.Range.Max-plot.Range.Min) {
		return nil, serrors.With(serrors.ErrBadRequest, "unusable display range [%g, %g]", plot.Range.Min, plot.Range.Max)
	}

	dc := gg.NewContext(r.options.Width, r.options.Height)
	dc.ClearWithColor(gg.White)

	v := r.newView(plot)
	steps := []func(*gg.Context, view, *plotter.Plot) error{
		r.drawGrid,
		r.drawZeroLines,
		r.drawCurve,
		r.drawFrame,
		r.drawLabels,
		r.drawLegend,
	}
	for _, step := range steps {
		if err := step(dc, v, plot); err != nil {
			_ = dc.Close()

			return nil, fmt.Errorf("could not draw plot: %w", err)
		}
	}

	logger.Debug(ctx, "rendered",
		zap.String("input", plot.Input),
		zap.Int("points", len(plot.X)),
		zap.Int("width", r.options.Width),
		zap.Int("height", r.options.Height))

	return dc, nil
}

func (r *Renderer) drawGrid(dc *gg.Context, v view, _ *plotter.Plot) error {
	dc.SetHexColor(gridColor)
	dc.SetLineWidth(gridLineWidth)

	xs, _ := ticks(v.xMin, v.xMax, maxXTicks)
	for _, x := range xs {
		dc.DrawLine(v.px(x), v.top, v.px(x), v.bottom())
	}
	ys, _ := ticks(v.yMin, v.yMax, maxYTicks)
	for _, y := range ys {
		dc.DrawLine(v.left, v.py(y), v.right(), v.py(y))
	}

	return dc.Stroke()
}

func (r *Renderer) drawZeroLines(dc *gg.Context, v view, _ *plotter.Plot) error {
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(zeroLineWidth)
	dc.SetDash(4, 3)
	defer dc.SetDash()

	if v.yMin < 0 && v.yMax > 0 {
		dc.DrawLine(v.left, v.py(0), v.right(), v.py(0))
	}
	if v.xMin < 0 && v.xMax > 0 {
		dc.DrawLine(v.px(0), v.top, v.px(0), v.bottom())
	}

	return dc.Stroke()
}

func (r *Renderer) drawCurve(dc *gg.Context, v view, plot *plotter.Plot) error {
	dc.SetHexColor(r.options.LineColor)
	dc.SetLineWidth(r.options.LineWidth)

	dc.MoveTo(v.px(plot.X[0]), v.py(plot.Y[0]))
	for i := 1; i < len(plot.X); i++ {
		dc.LineTo(v.px(plot.X[i]), v.py(plot.Y[i]))
	}

	return dc.Stroke()
}

func (r *Renderer) drawFrame(dc *gg.Context, v view, _ *plotter.Plot) error {
	dc.SetHexColor(frameColor)
	dc.SetLineWidth(frameWidth)
	dc.DrawRectangle(v.left, v.top, v.width, v.height)

	return dc.Stroke()
}

func (r *Renderer) drawLabels(dc *gg.Context, v view, plot *plotter.Plot) error {
	fs := r.options.FontSize
	dc.SetHexColor(textColor)

	dc.SetFont(r.font.Face(fs))
	xs, xStep := ticks(v.xMin, v.xMax, maxXTicks)
	for _, x := range xs {
		dc.DrawStringAnchored(tickLabel(x, xStep), v.px(x), v.bottom()+fs*0.6, 0.5, 1)
	}
	ys, yStep := ticks(v.yMin, v.yMax, maxYTicks)
	for _, y := range ys {
		dc.DrawStringAnchored(tickLabel(y, yStep), v.left-fs*0.6, v.py(y), 1, 0.5)
	}

	dc.SetFont(r.font.Face(fs * 1.2))
	dc.DrawStringAnchored("x", v.left+v.width/2, v.bottom()+fs*2.4, 0.5, 1)
	dc.DrawStringAnchored("y", fs*0.8, v.top+v.height/2, 0, 0.5)

	dc.DrawStringAnchored(plot.Input, v.left+v.width/2, v.top-fs*1.2, 0.5, 0)

	return nil
}

func (r *Renderer) drawLegend(dc *gg.Context, v view, plot *plotter.Plot) error {
	fs := r.options.FontSize
	dc.SetFont(r.font.Face(fs))

	textWidth, textHeight := dc.MeasureString(plot.Input)
	swatch := 2 * fs
	boxWidth := swatch + textWidth + 1.5*fs
	boxHeight := textHeight + fs
	x := v.right() - boxWidth - fs*0.8
	y := v.top + fs*0.8

	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(x, y, boxWidth, boxHeight)
	if err := dc.Fill(); err != nil {
		return err
	}
	dc.SetHexColor(gridColor)
	dc.SetLineWidth(frameWidth)
	dc.DrawRectangle(x, y, boxWidth, boxHeight)
	if err := dc.Stroke(); err != nil {
		return err
	}

	mid := y + boxHeight/2
	dc.SetHexColor(r.options.LineColor)
	dc.SetLineWidth(r.options.LineWidth)
	dc.DrawLine(x+fs*0.5, mid, x+fs*0.5+swatch, mid)
	if err := dc.Stroke(); err != nil {
		return err
	}

	dc.SetHexColor(textColor)
	dc.DrawStringAnchored(plot.Input, x+swatch+fs, mid, 0, 0.5)

	return nil
}
