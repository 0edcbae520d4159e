package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/adminkit/logger"
)

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.MetricsInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricsInterval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get("observability").Debug("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricsInterval.String(),
	))

	return mp, nil
}

// Metrics holds the instruments adminkit records.
type Metrics struct {
	mutationTotal    metric.Int64Counter
	mutationDuration metric.Float64Histogram
	queryFetchTotal  metric.Int64Counter
	queryDuration    metric.Float64Histogram
	queryCacheHits   metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	mutationTotal, err := meter.Int64Counter("adminkit.mutation.total",
		metric.WithDescription("Mutations by verb and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating adminkit.mutation.total counter: %w", err)
	}

	mutationDuration, err := meter.Float64Histogram("adminkit.mutation.duration",
		metric.WithDescription("Mutation round-trip time in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating adminkit.mutation.duration histogram: %w", err)
	}

	queryFetchTotal, err := meter.Int64Counter("adminkit.query.fetch.total",
		metric.WithDescription("Query fetches by key and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating adminkit.query.fetch.total counter: %w", err)
	}

	queryDuration, err := meter.Float64Histogram("adminkit.query.fetch.duration",
		metric.WithDescription("Query fetch time in seconds, retries included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating adminkit.query.fetch.duration histogram: %w", err)
	}

	queryCacheHits, err := meter.Int64Counter("adminkit.query.cache.hits",
		metric.WithDescription("Query reads served from a fresh cache entry"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating adminkit.query.cache.hits counter: %w", err)
	}

	return &Metrics{
		mutationTotal:    mutationTotal,
		mutationDuration: mutationDuration,
		queryFetchTotal:  queryFetchTotal,
		queryDuration:    queryDuration,
		queryCacheHits:   queryCacheHits,
	}, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns instruments bound to the global meter provider.
// Instruments created before InitMeter forward to it once installed.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		m, err := NewMetrics(otel.Meter(InstrumentationName))
		if err != nil {
			logger.Get("observability").Warn("metrics disabled", logger.ErrorFields("new_metrics", err))
			return
		}
		defaultMetrics = m
	})
	return defaultMetrics
}

// RecordMutation records one mutation outcome.
func (m *Metrics) RecordMutation(ctx context.Context, verb, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.mutationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("verb", verb),
		attribute.String("outcome", outcome),
	))
	m.mutationDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("verb", verb),
	))
}

// RecordQueryFetch records one network fetch for a query key.
func (m *Metrics) RecordQueryFetch(ctx context.Context, key, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.queryFetchTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key", key),
		attribute.String("outcome", outcome),
	))
	m.queryDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("key", key),
	))
}

// RecordCacheHit records a read served without I/O.
func (m *Metrics) RecordCacheHit(ctx context.Context, key string) {
	if m == nil {
		return
	}
	m.queryCacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key", key)))
}
