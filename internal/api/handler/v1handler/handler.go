// Package v1handler implements the v1 plotting endpoints.
package v1handler

import (
	"context"
	"errors"
	"grapher/internal/plotter"
	"grapher/pkg/logger"
	"grapher/pkg/metrics"
	"grapher/pkg/serrors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// PNGEncoder draws a plot as PNG.
type PNGEncoder interface {
	EncodePNG(ctx context.Context, w io.Writer, plot *plotter.Plot) error
}

// Deps are the services the handlers are built on.
type Deps struct {
	Plotter  plotter.Plotter
	Renderer PNGEncoder
	Metrics  *metrics.PlotMetrics
}

type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// Register mounts the v1 routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/plots", h.CreatePlot)
	mux.HandleFunc("GET /v1/plots/image", h.PlotImage)
}

// Error is the body of every failed response.
type Error struct {
	Code    string
	Message string
}

// ErrorStatusCode pairs an error body with its HTTP status.
type ErrorStatusCode struct {
	StatusCode int
	Response   Error
}

// NewError maps err to the response sent to the client. Plot failures are the
// client's formula being unusable and map to 422 with the user message.
func (h Handler) NewError(ctx context.Context, err error) *ErrorStatusCode {
	if plotter.IsPlotError(err) {
		logger.Info(ctx, "plot rejected", zap.Error(err))

		return &ErrorStatusCode{
			StatusCode: http.StatusUnprocessableEntity,
			Response: Error{
				Code:    serrors.KindOf(err).Error(),
				Message: plotter.UserMessage(err),
			},
		}
	}

	var se *serrors.Error
	message := ""
	if errors.As(err, &se) {
		message = se.Detail
	}

	switch {
	case errors.Is(err, serrors.ErrBadRequest):
		return newErrorStatusCode(http.StatusBadRequest, serrors.ErrBadRequest, message, "bad request")
	case errors.Is(err, serrors.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return newErrorStatusCode(http.StatusGatewayTimeout, serrors.ErrTimeout, "", "request timed out")
	}

	logger.Error(ctx, err.Error())

	return newErrorStatusCode(http.StatusInternalServerError, serrors.ErrInternal, "", "internal error")
}

func newErrorStatusCode(status int, kind serrors.Kind, message, fallback string) *ErrorStatusCode {
	if message == "" {
		message = fallback
	}

	return &ErrorStatusCode{
		StatusCode: status,
		Response:   Error{Code: kind.Error(), Message: message},
	}
}
