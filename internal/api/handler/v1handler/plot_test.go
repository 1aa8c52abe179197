package v1handler_test

import (
	"context"
	"errors"
	"grapher/internal/api/handler/v1handler"
	"grapher/internal/plotter"
	mockplotter "grapher/internal/plotter/mock"
	"grapher/pkg/controller"
	"grapher/pkg/logger"
	"grapher/pkg/metrics"
	"grapher/pkg/serrors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type pngFunc func(ctx context.Context, w io.Writer, plot *plotter.Plot) error

func (f pngFunc) EncodePNG(ctx context.Context, w io.Writer, plot *plotter.Plot) error {
	return f(ctx, w, plot)
}

func fakePNG(context.Context, io.Writer, *plotter.Plot) error { return nil }

func noopMetrics(t *testing.T) *metrics.PlotMetrics {
	t.Helper()

	m, err := metrics.NewPlotMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	return m
}

func newMux(h *v1handler.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	h.Register(mux)

	return mux
}

var samplePlot = &plotter.Plot{ //nolint: gochecknoglobals
	Input:      "y = 2x",
	Expression: "2 * x",
	X:          []float64{-1, 0.5},
	Y:          []float64{-2, 1},
	Range:      plotter.Range{Min: -2.45, Max: 1.45},
}

func TestDecodePlotRequest(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "formula", body: `{"formula":"y = 2x^2 + x"}`, want: "y = 2x^2 + x"},
		{name: "unknown fields", body: `{"extra":[1,{"a":null}],"formula":"x"}`, want: "x"},
		{name: "empty formula", body: `{"formula":""}`, want: ""},
		{name: "missing formula", body: `{}`, wantErr: true},
		{name: "not an object", body: `["x"]`, wantErr: true},
		{name: "wrong type", body: `{"formula":2}`, wantErr: true},
		{name: "truncated", body: `{"formula":"x`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := v1handler.DecodePlotRequest(strings.NewReader(tc.body))
			if tc.wantErr {
				require.ErrorIs(t, err, serrors.ErrBadRequest)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, req.Formula)
		})
	}
}

func TestEncodePlot(t *testing.T) {
	var e jx.Encoder
	v1handler.EncodePlot(&e, samplePlot)

	require.JSONEq(t,
		`{"input":"y = 2x","expression":"2 * x","x":[-1,0.5],"y":[-2,1],"range":{"min":-2.45,"max":1.45}}`,
		e.String())
}

func TestCreatePlot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mockplotter.NewMockPlotter(ctrl)
	mock.EXPECT().Plot(gomock.Any(), "y = 2x").Return(samplePlot, nil)

	mux := newMux(v1handler.New(v1handler.Deps{Plotter: mock, Renderer: pngFunc(fakePNG), Metrics: noopMetrics(t)}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/plots", strings.NewReader(`{"formula":"y = 2x"}`))
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t,
		`{"input":"y = 2x","expression":"2 * x","x":[-1,0.5],"y":[-2,1],"range":{"min":-2.45,"max":1.45}}`,
		rec.Body.String())
}

func TestCreatePlot_Errors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		setup  func(m *mockplotter.MockPlotter)
		status int
		want   string
	}{
		{
			name:   "malformed json",
			body:   `{"formula":`,
			setup:  func(*mockplotter.MockPlotter) {},
			status: http.StatusBadRequest,
			want:   `{"code":"BAD_REQUEST","message":"invalid JSON body"}`,
		},
		{
			name: "invalid formula",
			body: `{"formula":"x +"}`,
			setup: func(m *mockplotter.MockPlotter) {
				m.EXPECT().Plot(gomock.Any(), "x +").Return(nil, serrors.With(plotter.ErrInvalidFormula, "bad"))
			},
			status: http.StatusUnprocessableEntity,
			want:   `{"code":"INVALID_FORMULA","message":"invalid formula"}`,
		},
		{
			name: "empty input",
			body: `{"formula":"   "}`,
			setup: func(m *mockplotter.MockPlotter) {
				m.EXPECT().Plot(gomock.Any(), "   ").Return(nil, serrors.With(plotter.ErrEmptyInput, ""))
			},
			status: http.StatusUnprocessableEntity,
			want:   `{"code":"EMPTY_INPUT","message":"no value entered"}`,
		},
		{
			name: "unexpected failure",
			body: `{"formula":"x"}`,
			setup: func(m *mockplotter.MockPlotter) {
				m.EXPECT().Plot(gomock.Any(), "x").Return(nil, errors.New("boom"))
			},
			status: http.StatusInternalServerError,
			want:   `{"code":"INTERNAL","message":"internal error"}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mock := mockplotter.NewMockPlotter(ctrl)
			tc.setup(mock)
			mux := newMux(v1handler.New(v1handler.Deps{Plotter: mock, Renderer: pngFunc(fakePNG), Metrics: noopMetrics(t)}))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/plots", strings.NewReader(tc.body))
			mux.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			require.JSONEq(t, tc.want, rec.Body.String())
		})
	}
}

func TestCreatePlot_MethodNotAllowed(t *testing.T) {
	mux := newMux(v1handler.New(v1handler.Deps{}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/plots", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPlotImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mockplotter.NewMockPlotter(ctrl)
	mock.EXPECT().Plot(gomock.Any(), "y = 2x^2 + x").Return(samplePlot, nil)

	var encoded *plotter.Plot
	renderer := pngFunc(func(_ context.Context, w io.Writer, plot *plotter.Plot) error {
		encoded = plot
		_, err := w.Write([]byte("\x89PNG"))

		return err
	})
	mux := newMux(v1handler.New(v1handler.Deps{Plotter: mock, Renderer: renderer, Metrics: noopMetrics(t)}))

	target := "/v1/plots/image?formula=" + url.QueryEscape("y = 2x^2 + x")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, "\x89PNG", rec.Body.String())
	require.Same(t, samplePlot, encoded)
}

func TestPlotImage_Errors(t *testing.T) {
	t.Run("missing formula", func(t *testing.T) {
		mux := newMux(v1handler.New(v1handler.Deps{Metrics: noopMetrics(t)}))

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/plots/image", nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"code":"BAD_REQUEST","message":"missing query parameter \"formula\""}`, rec.Body.String())
	})

	t.Run("evaluation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mock := mockplotter.NewMockPlotter(ctrl)
		mock.EXPECT().Plot(gomock.Any(), "1/x").Return(nil, serrors.With(plotter.ErrEvaluation, "pole"))
		mux := newMux(v1handler.New(v1handler.Deps{Plotter: mock, Renderer: pngFunc(fakePNG), Metrics: noopMetrics(t)}))

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/plots/image?formula=1%2Fx", nil))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.JSONEq(t, `{"code":"EVALUATION_ERROR","message":"y value computation error"}`, rec.Body.String())
	})

	t.Run("render failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mock := mockplotter.NewMockPlotter(ctrl)
		mock.EXPECT().Plot(gomock.Any(), "x").Return(samplePlot, nil)
		renderer := pngFunc(func(context.Context, io.Writer, *plotter.Plot) error { return errors.New("surface lost") })
		mux := newMux(v1handler.New(v1handler.Deps{Plotter: mock, Renderer: renderer, Metrics: noopMetrics(t)}))

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/plots/image?formula=x", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})
}

func TestPlot_RecordsMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mockplotter.NewMockPlotter(ctrl)
	gomock.InOrder(
		mock.EXPECT().Plot(gomock.Any(), "x").Return(samplePlot, nil),
		mock.EXPECT().Plot(gomock.Any(), "x +").Return(nil, serrors.With(plotter.ErrInvalidFormula, "")),
	)

	reader := sdkmetric.NewManualReader()
	m, err := metrics.NewPlotMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)
	mux := newMux(v1handler.New(v1handler.Deps{Plotter: mock, Renderer: pngFunc(fakePNG), Metrics: m}))

	for _, body := range []string{`{"formula":"x"}`, `{"formula":"x +"}`} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/plots", strings.NewReader(body)))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	outcomes := map[string]int64{}
	for _, metric := range rm.ScopeMetrics[0].Metrics {
		if metric.Name != "plot_requests" {
			continue
		}
		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		for _, dp := range sum.DataPoints {
			outcome, _ := dp.Attributes.Value("outcome")
			outcomes[outcome.AsString()] += dp.Value
		}
	}
	require.Equal(t, map[string]int64{"OK": 1, "INVALID_FORMULA": 1}, outcomes)
}

func TestPlot_AnnotatesAccessLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mockplotter.NewMockPlotter(ctrl)
	mock.EXPECT().Plot(gomock.Any(), "x +").Return(nil, serrors.With(plotter.ErrInvalidFormula, ""))
	handler := controller.WithLogger(newMux(v1handler.New(v1handler.Deps{Plotter: mock, Metrics: noopMetrics(t)})))

	core, logs := observer.New(zapcore.InfoLevel)
	req := httptest.NewRequest(http.MethodPost, "/v1/plots", strings.NewReader(`{"formula":"x +"}`))
	req = req.WithContext(logger.WithLogger(req.Context(), zap.New(core)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	entries := logs.FilterMessage("access log").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, "x +", entries[0].ContextMap()["formula"])
	require.Equal(t, "INVALID_FORMULA", entries[0].ContextMap()["outcome"])
}
