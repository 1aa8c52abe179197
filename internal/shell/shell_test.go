package shell_test

import (
	"context"
	"errors"
	"grapher/internal/plotter"
	mockplotter "grapher/internal/plotter/mock"
	"grapher/internal/shell"
	"grapher/pkg/logger"
	"grapher/pkg/serrors"
	"image"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)

	os.Exit(m.Run())
}

type renderFunc func(ctx context.Context, plot *plotter.Plot) (image.Image, error)

func (f renderFunc) Render(ctx context.Context, plot *plotter.Plot) (image.Image, error) {
	return f(ctx, plot)
}

func blankRenderer(width int) renderFunc {
	return func(context.Context, *plotter.Plot) (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, width, 1)), nil
	}
}

func TestAllowedInput(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{in: "", want: true},
		{in: "y = 2x^2 + x", want: true},
		{in: "1/x - 3*x", want: true},
		{in: "x\t+ 1", want: true},
		{in: "sin(x)", want: false},
		{in: "2.5x", want: false},
		{in: "z", want: false},
		{in: "(x)", want: false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, shell.AllowedInput(tc.in), "input %q", tc.in)
	}
}

func TestShell_Editing(t *testing.T) {
	s := shell.New(nil, nil)

	for _, r := range "y = 2x" {
		require.True(t, s.Insert(r))
	}
	require.False(t, s.Insert('a'))
	require.False(t, s.Insert('('))
	require.Equal(t, "y = 2x", s.Text())

	s.Backspace()
	require.Equal(t, "y = 2", s.Text())

	require.False(t, s.SetText("cos(x)"))
	require.Equal(t, "y = 2", s.Text())
	require.True(t, s.SetText("x^2"))
	require.Equal(t, "x^2", s.Text())

	require.True(t, s.SetText(""))
	s.Backspace()
	require.Empty(t, s.Text())
}

func TestShell_Submit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	plot := &plotter.Plot{Input: "y = 2x", Expression: "2 * x", X: []float64{0}, Y: []float64{0}}
	mock := mockplotter.NewMockPlotter(ctrl)
	mock.EXPECT().Plot(gomock.Any(), "y = 2x").Return(plot, nil)

	var rendered *plotter.Plot
	s := shell.New(mock, renderFunc(func(_ context.Context, p *plotter.Plot) (image.Image, error) {
		rendered = p

		return image.NewRGBA(image.Rect(0, 0, 3, 2)), nil
	}))
	require.True(t, s.SetText("y = 2x"))

	require.NoError(t, s.Submit(context.Background()))

	snap := s.Snapshot()
	require.Same(t, plot, rendered)
	require.Same(t, plot, snap.Plot)
	require.Equal(t, uint64(1), snap.Version)
	require.Equal(t, 3, snap.Image.Bounds().Dx())
	require.Empty(t, snap.Message)
}

func TestShell_Submit_KeepsPreviousGraph(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	good := &plotter.Plot{Input: "x", Expression: "x", X: []float64{0}, Y: []float64{0}}
	mock := mockplotter.NewMockPlotter(ctrl)
	gomock.InOrder(
		mock.EXPECT().Plot(gomock.Any(), "x").Return(good, nil),
		mock.EXPECT().Plot(gomock.Any(), "x +").
			Return(nil, serrors.With(plotter.ErrInvalidFormula, "bad")),
		mock.EXPECT().Plot(gomock.Any(), "").
			Return(nil, serrors.With(plotter.ErrEmptyInput, "empty")),
		mock.EXPECT().Plot(gomock.Any(), "1/x").
			Return(nil, serrors.With(plotter.ErrEvaluation, "pole")),
	)

	s := shell.New(mock, blankRenderer(5))
	require.True(t, s.SetText("x"))
	require.NoError(t, s.Submit(context.Background()))
	before := s.Snapshot()

	cases := []struct {
		text    string
		kind    error
		message string
	}{
		{text: "x +", kind: plotter.ErrInvalidFormula, message: "invalid formula"},
		{text: "", kind: plotter.ErrEmptyInput, message: "no value entered"},
		{text: "1/x", kind: plotter.ErrEvaluation, message: "y value computation error"},
	}
	for _, tc := range cases {
		require.True(t, s.SetText(tc.text))
		err := s.Submit(context.Background())
		require.ErrorIs(t, err, tc.kind)

		after := s.Snapshot()
		require.Equal(t, tc.message, after.Message)
		require.Same(t, before.Plot, after.Plot)
		require.Equal(t, before.Image, after.Image)
		require.Equal(t, before.Version, after.Version)
	}
}

func TestShell_Submit_RenderFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mockplotter.NewMockPlotter(ctrl)
	mock.EXPECT().Plot(gomock.Any(), "x").Return(&plotter.Plot{Input: "x"}, nil)

	renderErr := errors.New("surface lost")
	s := shell.New(mock, renderFunc(func(context.Context, *plotter.Plot) (image.Image, error) {
		return nil, renderErr
	}))
	require.True(t, s.SetText("x"))

	require.ErrorIs(t, s.Submit(context.Background()), renderErr)
	snap := s.Snapshot()
	require.Equal(t, plotter.UnknownErrorMessage, snap.Message)
	require.Nil(t, snap.Image)
	require.Zero(t, snap.Version)
}

func TestShell_Submit_ClearsMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := mockplotter.NewMockPlotter(ctrl)
	gomock.InOrder(
		mock.EXPECT().Plot(gomock.Any(), "").Return(nil, serrors.With(plotter.ErrEmptyInput, "")),
		mock.EXPECT().Plot(gomock.Any(), "x").Return(&plotter.Plot{Input: "x"}, nil),
	)

	s := shell.New(mock, blankRenderer(1))
	require.Error(t, s.Submit(context.Background()))
	require.Equal(t, "no value entered", s.Message())

	require.True(t, s.SetText("x"))
	require.NoError(t, s.Submit(context.Background()))
	require.Empty(t, s.Message())
}
