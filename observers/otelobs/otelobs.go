// Package otelobs reports Executor run progress as an OpenTelemetry
// trace: one root span per run, with one event per observed iteration,
// grounded on the teacher's telemetry package (Config/Provider shape,
// OTLP gRPC exporter, resource/sampler wiring).
package otelobs

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-argmin/argmin/kv"
	"github.com/go-argmin/argmin/observer"
)

// Config controls whether and where traces are exported.
type Config struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Version     string
	Environment string
	SampleRate  float64
}

// Provider wraps the TracerProvider so the caller controls its lifetime
// independent of any one run's Observer.
type Provider struct {
	tp     *sdktrace.TracerProvider
	tracer trace.Tracer
}

// Init builds a Provider from cfg. When cfg.Enabled is false it returns
// a no-op tracer rather than failing, so tracing can be toggled without
// branching caller code.
func Init(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tracer: otel.Tracer(cfg.ServiceName)}, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	var sampler sdktrace.Sampler
	switch {
	case cfg.SampleRate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	case cfg.SampleRate <= 0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(cfg.SampleRate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{tp: tp, tracer: tp.Tracer(cfg.ServiceName)}, nil
}

// Shutdown flushes and stops the underlying TracerProvider, a no-op for
// a disabled Provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp != nil {
		return p.tp.Shutdown(ctx)
	}
	return nil
}

// Observer opens one root span at ObserveInit, records one event per
// ObserveIter, and must be closed by the caller once the run's Executor
// returns — the Observer contract has no lifecycle hook for "run over",
// so the span's end is the caller's responsibility rather than an
// implicit side effect of a termination state this package cannot see.
type Observer struct {
	provider *Provider
	ctx      context.Context
	span     trace.Span
}

// New returns an Observer that starts spans against provider's tracer.
func New(ctx context.Context, provider *Provider) *Observer {
	return &Observer{provider: provider, ctx: ctx}
}

func (o *Observer) ObserveInit(name string, st observer.StateView, snapshot *kv.KV) error {
	o.ctx, o.span = o.provider.tracer.Start(o.ctx, "argmin.run",
		trace.WithAttributes(
			attribute.String("argmin.solver", name),
			attribute.Float64("argmin.init_best_cost", st.BestCostF64()),
		),
	)
	return nil
}

func (o *Observer) ObserveIter(st observer.StateView, snapshot *kv.KV) error {
	attrs := []attribute.KeyValue{
		attribute.Int64("argmin.iter", int64(st.Iter())),
		attribute.Bool("argmin.is_best", st.IsBest()),
		attribute.Float64("argmin.best_cost", st.BestCostF64()),
	}
	for _, key := range snapshot.Keys() {
		v, _ := snapshot.Get(key)
		attrs = append(attrs, attribute.String("argmin.snapshot."+key, v.Render()))
	}
	o.span.AddEvent("iteration", trace.WithAttributes(attrs...))
	return nil
}

// Close ends the root span, marking it as failed if err is non-nil. Call
// this once after the Executor's Run call returns.
func (o *Observer) Close(err error) {
	if o.span == nil {
		return
	}
	if err != nil {
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
	}
	o.span.End()
}
