package observability

import (
	"context"
	"errors"
	"time"

	"github.com/kbukum/adminkit/config"
)

// Config configures OTLP export.
type Config struct {
	ServiceName     string
	ServiceVersion  string
	Environment     string
	Endpoint        string
	Insecure        bool
	SampleRate      float64
	MetricsInterval time.Duration
}

// FromAppConfig derives the export settings from the application config.
func FromAppConfig(cfg *config.AppConfig, version string) Config {
	return Config{
		ServiceName:     cfg.Name,
		ServiceVersion:  version,
		Environment:     cfg.Environment,
		Endpoint:        cfg.Tracing.Endpoint,
		Insecure:        cfg.Tracing.Insecure,
		SampleRate:      cfg.Tracing.SampleRate,
		MetricsInterval: cfg.Tracing.MetricsInterval,
	}
}

// Shutdown flushes and stops the installed providers.
type Shutdown func(ctx context.Context) error

// Setup installs tracer and meter providers. When enabled is false it
// installs nothing and returns a no-op Shutdown; spans and instruments
// then go to the global no-op providers.
func Setup(ctx context.Context, cfg Config, enabled bool) (Shutdown, error) {
	if !enabled {
		return func(context.Context) error { return nil }, nil
	}

	tp, err := InitTracer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
