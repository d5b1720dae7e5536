// Package metrics records run statistics with OpenTelemetry instruments
// exported through a private Prometheus registry. The registry can be written
// to a node_exporter textfile at the end of a run.
package metrics

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
	"typewriter/pkg/domain"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 300} //nolint: gochecknoglobals

const meterName = "typewriter"

// Recorder collects the statistics of a single run.
type Recorder struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider

	candidates metric.Int64Counter
	tokens     metric.Int64Counter
	seeds      metric.Int64Counter
	duration   metric.Float64Histogram

	emitted atomic.Int64
}

// New creates a Recorder backed by a fresh Prometheus registry.
func New() (*Recorder, error) {
	registry := prometheus.NewRegistry()
	exp, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	meter := provider.Meter(meterName)

	r := &Recorder{registry: registry, provider: provider}
	if r.candidates, err = meter.Int64Counter("typewriter.candidates.emitted",
		metric.WithDescription("Number of candidate names written to the output.")); err != nil {
		return nil, fmt.Errorf("could not create candidates counter: %w", err)
	}
	if r.tokens, err = meter.Int64Counter("typewriter.tokens.loaded",
		metric.WithDescription("Number of permutation tokens after wordlist expansion.")); err != nil {
		return nil, fmt.Errorf("could not create tokens counter: %w", err)
	}
	if r.seeds, err = meter.Int64Counter("typewriter.seeds.loaded",
		metric.WithDescription("Number of known domains used as seeds.")); err != nil {
		return nil, fmt.Errorf("could not create seeds counter: %w", err)
	}
	if r.duration, err = meter.Float64Histogram("typewriter.run.duration",
		metric.WithDescription("Duration of the permutation run."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...)); err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}

	return r, nil
}

// CandidateEmitted counts one emitted candidate of the given kind.
func (r *Recorder) CandidateEmitted(ctx context.Context, kind domain.CandidateKind) {
	r.candidates.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(kind))))
	r.emitted.Add(1)
}

// TokensLoaded records the size of the token set.
func (r *Recorder) TokensLoaded(ctx context.Context, n int) {
	r.tokens.Add(ctx, int64(n))
}

// SeedsLoaded records the size of the known domain set.
func (r *Recorder) SeedsLoaded(ctx context.Context, n int) {
	r.seeds.Add(ctx, int64(n))
}

// RunFinished records the duration of the permutation run.
func (r *Recorder) RunFinished(ctx context.Context, d time.Duration) {
	r.duration.Record(ctx, d.Seconds())
}

// Emitted returns the number of candidates counted so far.
func (r *Recorder) Emitted() int64 { return r.emitted.Load() }

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.registry }

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("could not write metrics to %s: %w", path, err)
	}

	return nil
}

// Shutdown releases the meter provider.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if err := r.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not shut down meter provider: %w", err)
	}

	return nil
}
