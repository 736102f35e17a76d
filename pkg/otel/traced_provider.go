// Package otel provides observability integration for TokenGate
package otel

import (
	"context"
	"time"

	"github.com/easyops/tokengate/pkg/core/llm"
	"go.opentelemetry.io/otel/attribute"
)

// TracedProvider wraps an LLM provider with tracing support
type TracedProvider struct {
	provider llm.Provider
	tracer   Tracer
	metrics  Metrics
}

// TracedProviderOption configures the traced provider
type TracedProviderOption func(*TracedProvider)

// WithTracedProviderTracer sets the tracer
func WithTracedProviderTracer(tracer Tracer) TracedProviderOption {
	return func(p *TracedProvider) {
		p.tracer = tracer
	}
}

// WithTracedProviderMetrics sets the metrics
func WithTracedProviderMetrics(metrics Metrics) TracedProviderOption {
	return func(p *TracedProvider) {
		p.metrics = metrics
	}
}

// NewTracedProvider creates a traced LLM provider wrapper
func NewTracedProvider(provider llm.Provider, opts ...TracedProviderOption) *TracedProvider {
	tp := &TracedProvider{
		provider: provider,
		tracer:   NewNoopTracer(),
		metrics:  NewNoopMetrics(),
	}

	for _, opt := range opts {
		opt(tp)
	}

	return tp
}

// Generate generates a response with tracing
func (p *TracedProvider) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	ctx, span := p.tracer.Start(ctx, "llm.generate",
		WithSpanKind(SpanKindClient),
		WithAttributes(
			LLMProvider(p.provider.Name()),
			LLMModel(p.provider.Model()),
		),
	)
	defer span.End()

	startTime := time.Now()

	resp, err := p.provider.Generate(ctx, req)
	duration := time.Since(startTime)

	p.recordMetrics(ctx, resp, err, duration)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(StatusError, err.Error())
		return resp, err
	}

	span.SetAttributes(
		attribute.Int(AttrLLMPromptTokens, resp.TokenUsage.PromptTokens),
		attribute.Int(AttrLLMCompletionTokens, resp.TokenUsage.CompletionTokens),
		attribute.Int(AttrLLMTotalTokens, resp.TokenUsage.TotalTokens),
	)
	span.AddEvent("llm.response",
		attribute.String("finish_reason", resp.FinishReason),
	)
	span.SetStatus(StatusOK, "")

	return resp, nil
}

// Embed generates embeddings with tracing
func (p *TracedProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, span := p.tracer.Start(ctx, "llm.embed",
		WithSpanKind(SpanKindClient),
		WithAttributes(
			LLMProvider(p.provider.Name()),
			LLMModel(p.provider.Model()),
			attribute.Int("input_count", len(texts)),
		),
	)
	defer span.End()

	startTime := time.Now()
	result, err := p.provider.Embed(ctx, texts)
	duration := time.Since(startTime)

	p.metrics.Histogram(MetricLLMRequestDuration).Record(ctx, duration.Seconds()*1000,
		NewAttr("provider", p.provider.Name()),
		NewAttr("operation", "embed"),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(StatusError, err.Error())
		p.metrics.Counter(MetricLLMErrors).Add(ctx, 1,
			NewAttr("provider", p.provider.Name()),
			NewAttr("operation", "embed"),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("output_count", len(result)))
	span.SetStatus(StatusOK, "")
	return result, nil
}

// Name returns the provider name
func (p *TracedProvider) Name() string {
	return p.provider.Name()
}

// Model returns the model name
func (p *TracedProvider) Model() string {
	return p.provider.Model()
}

// Close closes the underlying provider
func (p *TracedProvider) Close() error {
	return p.provider.Close()
}

// recordMetrics records LLM call metrics
func (p *TracedProvider) recordMetrics(ctx context.Context, resp llm.Response, err error, duration time.Duration) {
	if err != nil {
		p.metrics.Counter(MetricLLMRequests).Add(ctx, 1,
			NewAttr("provider", p.provider.Name()),
			NewAttr("model", p.provider.Model()),
			NewAttr("status", "error"),
		)
		p.metrics.Counter(MetricLLMErrors).Add(ctx, 1,
			NewAttr("provider", p.provider.Name()),
			NewAttr("model", p.provider.Model()),
		)
	} else {
		p.metrics.Counter(MetricLLMRequests).Add(ctx, 1,
			NewAttr("provider", p.provider.Name()),
			NewAttr("model", p.provider.Model()),
			NewAttr("status", "success"),
		)
		p.metrics.Counter(MetricLLMTokensPrompt).Add(ctx, int64(resp.TokenUsage.PromptTokens),
			NewAttr("provider", p.provider.Name()),
			NewAttr("model", p.provider.Model()),
		)
		p.metrics.Counter(MetricLLMTokensCompletion).Add(ctx, int64(resp.TokenUsage.CompletionTokens),
			NewAttr("provider", p.provider.Name()),
			NewAttr("model", p.provider.Model()),
		)
	}

	p.metrics.Histogram(MetricLLMRequestDuration).Record(ctx, duration.Seconds()*1000,
		NewAttr("provider", p.provider.Name()),
		NewAttr("model", p.provider.Model()),
	)
}

// PipelineTracer provides helper functions for tracing pipeline runs
type PipelineTracer struct {
	tracer  Tracer
	metrics Metrics
}

// NewPipelineTracer creates a new pipeline tracer
func NewPipelineTracer(tracer Tracer, metrics Metrics) *PipelineTracer {
	if tracer == nil {
		tracer = NewNoopTracer()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	return &PipelineTracer{
		tracer:  tracer,
		metrics: metrics,
	}
}

// StartRun starts a trace span for a pipeline run
func (pt *PipelineTracer) StartRun(ctx context.Context, totalBudget, maxSteps int) (context.Context, Span) {
	return pt.tracer.Start(ctx, "pipeline.run",
		WithSpanKind(SpanKindInternal),
		WithAttributes(
			attribute.Int(AttrBudgetTotal, totalBudget),
			attribute.Int(AttrPipelineMaxSteps, maxSteps),
		),
	)
}

// RecordStage records a stage completion event
func (pt *PipelineTracer) RecordStage(ctx context.Context, stage string, cost, remaining int) {
	span := pt.tracer.SpanFromContext(ctx)
	span.AddEvent("pipeline.stage",
		attribute.String(AttrPipelineStage, stage),
		attribute.Int(AttrBudgetCost, cost),
		attribute.Int(AttrBudgetRemaining, remaining),
	)
	pt.metrics.Counter(MetricBudgetConsumed).Add(ctx, int64(cost),
		NewAttr("stage", stage),
	)
}

// RecordDecision records a routing decision event
func (pt *PipelineTracer) RecordDecision(ctx context.Context, action string, step int, quality float64) {
	span := pt.tracer.SpanFromContext(ctx)
	span.AddEvent("router.decision",
		attribute.String(AttrRouterAction, action),
		attribute.Int(AttrPipelineStep, step),
		attribute.Float64(AttrQualityScore, quality),
	)
	pt.metrics.Counter(MetricRouterDecisions).Add(ctx, 1,
		NewAttr("action", action),
	)
}

// FinishRun finishes the pipeline run span
func (pt *PipelineTracer) FinishRun(ctx context.Context, span Span, status string, steps, remaining, overdraft int, durationMs int64) {
	span.SetAttributes(
		attribute.String(AttrPipelineStatus, status),
		attribute.Int(AttrPipelineStep, steps),
		attribute.Int(AttrBudgetRemaining, remaining),
		attribute.Int64("duration_ms", durationMs),
	)
	span.SetStatus(StatusOK, "")
	span.End()

	pt.metrics.Counter(MetricPipelineRuns).Add(ctx, 1,
		NewAttr("status", status),
	)
	pt.metrics.Histogram(MetricPipelineRunDuration).Record(ctx, float64(durationMs))
	pt.metrics.Histogram(MetricPipelineSteps).Record(ctx, float64(steps))
	pt.metrics.Gauge(MetricBudgetRemaining).Set(ctx, float64(remaining))
	if overdraft > 0 {
		pt.metrics.Counter(MetricBudgetOverdraft).Add(ctx, int64(overdraft))
	}
}

// compile-time interface check
var _ llm.Provider = (*TracedProvider)(nil)
