package tracing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTracerName  = "solitaire-cipher"
	defaultSampleRatio = 0.25
)

// Span attributes for cipher operations. Text never goes on a span, only its
// size.
const (
	DeckIDKey  = attribute.Key("solitaire.deck_id")
	LettersKey = attribute.Key("solitaire.letters")
)

var tracer trace.Tracer

// Config selects the exporter and resource for InitTracer. Empty Environment
// and TracesExport fall back to APP_ENV and OTEL_TRACES_EXPORTER.
type Config struct {
	ServiceName  string
	Environment  string
	PrettyPrint  bool
	TracesExport string // "stdout" or "none"
}

// InitTracer installs the global tracer provider and propagators. The
// returned function flushes and stops the provider.
func InitTracer(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	if cfg.ServiceName == "" {
		return nil, errors.New("tracing: ServiceName is required")
	}
	if cfg.Environment == "" {
		cfg.Environment = envOr("APP_ENV", "development")
	}
	if cfg.TracesExport == "" {
		cfg.TracesExport = envOr("OTEL_TRACES_EXPORTER", "stdout")
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.Environment, os.Getenv("OTEL_TRACES_SAMPLER"), os.Getenv("OTEL_TRACES_SAMPLER_ARG"))),
	}
	exp, err := newExporter(cfg)
	if err != nil {
		return nil, err
	}
	if exp != nil {
		opts = append(opts, sdktrace.WithBatcher(exp))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	tracer = tp.Tracer(cfg.ServiceName)
	return tp.Shutdown, nil
}

func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tracing: resource: %w", err)
	}
	return res, nil
}

// newExporter returns nil when spans should not leave the process.
func newExporter(cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.TracesExport {
	case "none", "noop":
		return nil, nil
	case "stdout":
	default:
		log.Printf("tracing: unknown OTEL_TRACES_EXPORTER=%q, using stdout", cfg.TracesExport)
	}
	var opts []stdouttrace.Option
	if cfg.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exp, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("tracing: stdout exporter: %w", err)
	}
	return exp, nil
}

// newSampler follows the OTEL_TRACES_SAMPLER names. Unset or unrecognised
// names sample every root span in development and a quarter of them elsewhere.
func newSampler(appEnv, name, arg string) sdktrace.Sampler {
	switch name {
	case "always_on":
		return sdktrace.AlwaysSample()
	case "always_off":
		return sdktrace.NeverSample()
	case "traceidratio", "parentbased_traceidratio":
		ratio, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			log.Printf("tracing: bad OTEL_TRACES_SAMPLER_ARG=%q, sampling everything", arg)
			ratio = 1
		}
		ratio = min(max(ratio, 0), 1)
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	case "", "parentbased_always_on":
	default:
		log.Printf("tracing: unsupported OTEL_TRACES_SAMPLER=%q, sampling everything", name)
	}
	if appEnv == "development" {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(defaultSampleRatio))
}

func GetTracer() trace.Tracer {
	if tracer == nil {
		return otel.Tracer(defaultTracerName)
	}
	return tracer
}

func StartSpan(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// StartCipherSpan opens "cipher.<op>" tagged with the deck and the number of
// letters processed.
func StartCipherSpan(ctx context.Context, op string, deckID int64, letters int) (context.Context, trace.Span) {
	return StartSpan(ctx, "cipher."+op, DeckIDKey.Int64(deckID), LettersKey.Int(letters))
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
