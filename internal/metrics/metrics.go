package metrics

import (
	"context"
	"dropwatch/pkg/domain"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// meterName identifies the watch instruments on the meter provider.
const meterName = "dropwatch/watch"

// Lookup outcome labels recorded per cycle.
const (
	OutcomeMatch       = "match"
	OutcomeNoMatch     = "no_match"
	OutcomeError       = "error"
	OutcomeRateLimited = "rate_limited"
)

// Recorder holds the OpenTelemetry instruments for the polling loop. A nil
// Recorder is valid and drops every observation, so callers never need to
// branch on whether metrics are enabled.
type Recorder struct {
	cycles        metric.Int64Counter
	lookups       metric.Int64Counter
	lookupSeconds metric.Float64Histogram
	notifications metric.Int64Counter
}

// NewRecorder creates a Recorder on the given meter provider. A nil provider
// returns a nil (no-op) Recorder.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	if provider == nil {
		return nil, nil //nolint: nilnil
	}

	meter := provider.Meter(meterName)

	cycles, err := meter.Int64Counter(
		"dropwatch_cycles_total",
		metric.WithDescription("Number of polling cycles, by phase"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create cycles counter: %w", err)
	}

	lookups, err := meter.Int64Counter(
		"dropwatch_lookups_total",
		metric.WithDescription("Number of whois lookups, by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create lookups counter: %w", err)
	}

	lookupSeconds, err := meter.Float64Histogram(
		"dropwatch_lookup_duration_seconds",
		metric.WithDescription("Duration of whois lookups in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create lookup duration histogram: %w", err)
	}

	notifications, err := meter.Int64Counter(
		"dropwatch_notifications_total",
		metric.WithDescription("Number of notification attempts, by backend and result"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create notifications counter: %w", err)
	}

	return &Recorder{
		cycles:        cycles,
		lookups:       lookups,
		lookupSeconds: lookupSeconds,
		notifications: notifications,
	}, nil
}

// Cycle records one polling cycle in the given phase.
func (r *Recorder) Cycle(ctx context.Context, phase domain.Phase) {
	if r == nil || r.cycles == nil {
		return
	}

	r.cycles.Add(ctx, 1, metric.WithAttributes(attribute.String("phase", string(phase))))
}

// Lookup records one whois lookup with its outcome and duration.
func (r *Recorder) Lookup(ctx context.Context, outcome string, elapsed time.Duration) {
	if r == nil || r.lookups == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	r.lookups.Add(ctx, 1, attrs)
	r.lookupSeconds.Record(ctx, elapsed.Seconds(), attrs)
}

// Notification records one delivery attempt through a backend.
func (r *Recorder) Notification(ctx context.Context, backend string, delivered bool) {
	if r == nil || r.notifications == nil {
		return
	}

	r.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.Bool("delivered", delivered),
	))
}
