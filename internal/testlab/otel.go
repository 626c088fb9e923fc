package testlab

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"motorlab/pkg/contracts/domain"
)

const (
	TracerName = "testlab-loader"
	MeterName  = "testlab-loader"
)

// LoaderMetrics holds the loader-specific OpenTelemetry metrics.
type LoaderMetrics struct {
	Lookups            metric.Int64Counter
	LookupHits         metric.Int64Counter
	LookupMisses       metric.Int64Counter
	ConversionFailures metric.Int64Counter
	ExtractionDuration metric.Float64Histogram
}

// InitializeLoaderMetrics creates the loader metrics on meter.
func InitializeLoaderMetrics(meter metric.Meter) (*LoaderMetrics, error) {
	metrics := &LoaderMetrics{}

	var err error

	metrics.Lookups, err = meter.Int64Counter(
		"testlab_lookups_total",
		metric.WithDescription("Total number of test-lab summary lookups"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookups counter: %w", err)
	}

	metrics.LookupHits, err = meter.Int64Counter(
		"testlab_lookup_hits_total",
		metric.WithDescription("Total number of lookups that produced a summary, by match strategy"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup hits counter: %w", err)
	}

	metrics.LookupMisses, err = meter.Int64Counter(
		"testlab_lookup_misses_total",
		metric.WithDescription("Total number of lookups that produced no data"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup misses counter: %w", err)
	}

	metrics.ConversionFailures, err = meter.Int64Counter(
		"testlab_conversion_failures_total",
		metric.WithDescription("Total number of legacy workbook conversions that failed"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversion failures counter: %w", err)
	}

	metrics.ExtractionDuration, err = meter.Float64Histogram(
		"testlab_extraction_duration_seconds",
		metric.WithDescription("End-to-end lookup and extraction duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction duration histogram: %w", err)
	}

	return metrics, nil
}

// traceLookup wraps one summary lookup in a span and records the lookup
// metrics. Misses are an expected outcome, never span errors.
func (l *SummaryLoader) traceLookup(ctx context.Context, operation, testNumber string, fn func(context.Context) *domain.TestLabSummary) *domain.TestLabSummary {
	tracer := otel.Tracer(TracerName)

	ctx, span := tracer.Start(ctx, "testlab."+operation,
		trace.WithAttributes(
			attribute.String("testlab.operation", operation),
			attribute.String("testlab.test_number", testNumber),
			attribute.String("component", "summary_loader"),
		),
	)
	defer span.End()

	start := time.Now()
	summary := fn(ctx)
	duration := time.Since(start)

	if l.metrics != nil {
		l.recordLookupMetrics(ctx, operation, summary, duration)
	}

	span.SetAttributes(
		attribute.Float64("testlab.duration_ms", float64(duration.Milliseconds())),
		attribute.Bool("testlab.hit", summary != nil),
	)
	if summary != nil {
		span.SetAttributes(attribute.String("testlab.match_strategy", string(summary.MatchStrategy)))
		span.SetStatus(codes.Ok, "Summary extracted")
	} else {
		span.SetStatus(codes.Ok, "No summary data")
	}

	return summary
}

// traceRawExport wraps a raw-sheet export in a span and counts it against
// the lookup metrics.
func (l *SummaryLoader) traceRawExport(ctx context.Context, testNumber string, fn func(context.Context) []domain.RawSheetBlock) []domain.RawSheetBlock {
	tracer := otel.Tracer(TracerName)

	ctx, span := tracer.Start(ctx, "testlab.raw_sheets",
		trace.WithAttributes(
			attribute.String("testlab.operation", "raw_sheets"),
			attribute.String("testlab.test_number", testNumber),
			attribute.String("component", "summary_loader"),
		),
	)
	defer span.End()

	start := time.Now()
	blocks := fn(ctx)
	duration := time.Since(start)

	if l.metrics != nil {
		labels := metric.WithAttributes(
			attribute.String("operation", "raw_sheets"),
			attribute.String("component", "summary_loader"),
		)
		l.metrics.Lookups.Add(ctx, 1, labels)
		l.metrics.ExtractionDuration.Record(ctx, duration.Seconds(), labels)
		if len(blocks) == 0 {
			l.metrics.LookupMisses.Add(ctx, 1, labels)
		}
	}

	span.SetAttributes(
		attribute.Float64("testlab.duration_ms", float64(duration.Milliseconds())),
		attribute.Int("testlab.sheets", len(blocks)),
	)
	span.SetStatus(codes.Ok, "Raw sheets exported")

	return blocks
}

// recordLookupMetrics records one lookup outcome.
func (l *SummaryLoader) recordLookupMetrics(ctx context.Context, operation string, summary *domain.TestLabSummary, duration time.Duration) {
	labels := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("component", "summary_loader"),
	)

	l.metrics.Lookups.Add(ctx, 1, labels)
	l.metrics.ExtractionDuration.Record(ctx, duration.Seconds(), labels)

	if summary == nil {
		l.metrics.LookupMisses.Add(ctx, 1, labels)
		return
	}
	l.metrics.LookupHits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("strategy", string(summary.MatchStrategy)),
		attribute.String("component", "summary_loader"),
	))
}

// recordConversionFailure counts one failed legacy conversion.
func (l *SummaryLoader) recordConversionFailure(ctx context.Context) {
	if l.metrics == nil {
		return
	}
	l.metrics.ConversionFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component", "summary_loader"),
	))
}
