package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// NewConsoleMetricsExporter installs a global meter provider that
// pushes the collected metrics to w as JSON every interval.
// The returned callback flushes the last collection and shuts the
// provider down.
func NewConsoleMetricsExporter(
	w io.Writer,
	interval, timeout time.Duration,
	opts ...stdoutmetric.Option,
) (func(ctx context.Context) error, error) {
	if w != nil {
		opts = append([]stdoutmetric.Option{stdoutmetric.WithWriter(w)}, opts...)
	}
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	callback := mp.Shutdown
	otel.SetMeterProvider(mp)
	return callback, nil
}
