package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, plotting, rendering, the desktop
// window, the HTTP server and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// Plot contains the sampling settings
	Plot struct {
		// MarginRatio is the share of the y span added above and below the curve
		MarginRatio float64 `env:"PLOT_MARGIN_RATIO" env-default:"0.15" yaml:"marginRatio"`
	} `yaml:"plot"`

	// Render contains the settings of the PNG rendering surface
	Render struct {
		// Width of the rendered graph in pixels
		Width int `env:"RENDER_WIDTH" env-default:"600" yaml:"width"`
		// Height of the rendered graph in pixels
		Height int `env:"RENDER_HEIGHT" env-default:"400" yaml:"height"`
		// FontSize is the legend font size in points; title and labels are scaled from it
		FontSize float64 `env:"RENDER_FONT_SIZE" env-default:"10" yaml:"fontSize"`
		// LineWidth is the stroke width of the curve
		LineWidth float64 `env:"RENDER_LINE_WIDTH" env-default:"1.5" yaml:"lineWidth"`
		// LineColor is the hex color of the curve
		LineColor string `env:"RENDER_LINE_COLOR" env-default:"#1f77b4" yaml:"lineColor"`
	} `yaml:"render"`

	// Window contains the desktop window settings
	Window struct {
		// Title is shown in the window title bar
		Title string `env:"WINDOW_TITLE" env-default:"Formula Graph" yaml:"title"`
		// Width of the window in pixels
		Width int `env:"WINDOW_WIDTH" env-default:"640" yaml:"width"`
		// Height of the window in pixels
		Height int `env:"WINDOW_HEIGHT" env-default:"620" yaml:"height"`
	} `yaml:"window"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:"127.0.0.1:8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
// A missing file is not an error: the configuration then comes from the
// environment and the defaults alone.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from environment: %w", err)
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
