package v1handler

import (
	"bytes"
	"context"
	"grapher/internal/plotter"
	"grapher/pkg/controller"
	"grapher/pkg/logger"
	"grapher/pkg/metrics"
	"grapher/pkg/serrors"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// MaxRequestBodySize caps the size of a plot request body.
const MaxRequestBodySize = 64 << 10

// PlotRequest is the body of POST /v1/plots.
type PlotRequest struct {
	Formula string
}

// DecodePlotRequest reads a PlotRequest. The formula field is required;
// unknown fields are ignored.
func DecodePlotRequest(r io.Reader) (*PlotRequest, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not read body")
	}

	var (
		req  PlotRequest
		seen bool
	)
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "formula":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.Formula = v
			seen = true

			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid JSON body")
	}
	if !seen {
		return nil, serrors.With(serrors.ErrBadRequest, `missing field "formula"`)
	}

	return &req, nil
}

// EncodePlot writes plot in its JSON representation.
func EncodePlot(e *jx.Encoder, plot *plotter.Plot) {
	e.ObjStart()
	e.FieldStart("input")
	e.Str(plot.Input)
	e.FieldStart("expression")
	e.Str(plot.Expression)
	e.FieldStart("x")
	encodeFloats(e, plot.X)
	e.FieldStart("y")
	encodeFloats(e, plot.Y)
	e.FieldStart("range")
	e.ObjStart()
	e.FieldStart("min")
	e.Float64(plot.Range.Min)
	e.FieldStart("max")
	e.Float64(plot.Range.Max)
	e.ObjEnd()
	e.ObjEnd()
}

func encodeFloats(e *jx.Encoder, values []float64) {
	e.ArrStart()
	for _, v := range values {
		e.Float64(v)
	}
	e.ArrEnd()
}

// EncodeError writes the error body.
func EncodeError(e *jx.Encoder, body Error) {
	e.ObjStart()
	e.FieldStart("code")
	e.Str(body.Code)
	e.FieldStart("message")
	e.Str(body.Message)
	e.ObjEnd()
}

// CreatePlot handles POST /v1/plots.
func (h *Handler) CreatePlot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := DecodePlotRequest(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))
	if err != nil {
		h.writeError(ctx, w, err)

		return
	}

	plot, err := h.plot(ctx, req.Formula)
	if err != nil {
		h.writeError(ctx, w, err)

		return
	}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	EncodePlot(e, plot)

	writeJSON(ctx, w, http.StatusOK, e.Bytes())
}

// PlotImage handles GET /v1/plots/image?formula=...
func (h *Handler) PlotImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	if !query.Has("formula") {
		h.writeError(ctx, w, serrors.With(serrors.ErrBadRequest, `missing query parameter "formula"`))

		return
	}

	plot, err := h.plot(ctx, query.Get("formula"))
	if err != nil {
		h.writeError(ctx, w, err)

		return
	}

	var buf bytes.Buffer
	if err := h.deps.Renderer.EncodePNG(ctx, &buf, plot); err != nil {
		h.writeError(ctx, w, err)

		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn(ctx, "could not write image", zap.Error(err))
	}
}

func (h *Handler) plot(ctx context.Context, input string) (*plotter.Plot, error) {
	start := time.Now()

	plot, err := h.deps.Plotter.Plot(ctx, input)

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = serrors.ErrInternal.Error()
		if kind := serrors.KindOf(err); kind != "" {
			outcome = kind.Error()
		}
	}
	if h.deps.Metrics != nil {
		h.deps.Metrics.Record(ctx, outcome, time.Since(start))
	}
	controller.Annotate(ctx, zap.String("formula", input), zap.String("outcome", outcome))

	return plot, err
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	res := h.NewError(ctx, err)

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	EncodeError(e, res.Response)

	writeJSON(ctx, w, res.StatusCode, e.Bytes())
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logger.Warn(ctx, "could not write response", zap.Error(err))
	}
}
