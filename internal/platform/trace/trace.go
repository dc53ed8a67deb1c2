// Package trace installs the process tracer provider and W3C propagators
package trace

import (
	"context"
	"time"

	"bookable/internal/platform/config"
	"bookable/internal/platform/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Config controls OTLP export
type Config struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string // host:port of a collector, e.g. otel-collector:4317
	SampleRatio  float64
}

// FromConfig reads the OTEL_ view: ENABLED, SERVICE_NAME, EXPORTER_OTLP_ENDPOINT, SAMPLING_RATIO
func FromConfig(cfg config.Conf) Config {
	ratio := cfg.MayFloat64("SAMPLING_RATIO", 1)
	if ratio < 0 || ratio > 1 {
		logger.Named("trace").Warn().Float64("ratio", ratio).Msg("sampling ratio out of range; using 1")
		ratio = 1
	}
	return Config{
		Enabled:      cfg.MayBool("ENABLED", false),
		ServiceName:  cfg.MayString("SERVICE_NAME", "bookable-api"),
		OTLPEndpoint: cfg.MayString("EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		SampleRatio:  ratio,
	}
}

// Shutdown flushes and stops the provider
type Shutdown func(context.Context) error

// Setup installs propagators always and an exporting provider when enabled.
// The returned Shutdown is safe to call either way.
func Setup(ctx context.Context, cfg Config) (Shutdown, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithTimeout(3*time.Second),
	)
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", cfg.ServiceName),
	))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	logger.Named("trace").Info().
		Str("endpoint", cfg.OTLPEndpoint).
		Float64("ratio", cfg.SampleRatio).
		Msg("otlp trace export enabled")
	return tp.Shutdown, nil
}

// Tracer returns a named tracer from the global provider
func Tracer(name string) oteltrace.Tracer { return otel.Tracer(name) }

// Inject writes the W3C trace context of ctx into carrier
func Inject(ctx context.Context, carrier propagation.TextMapCarrier) {
	otel.GetTextMapPropagator().Inject(ctx, carrier)
}
