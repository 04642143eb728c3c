package observability

import (
	"context"
	"runtime"
	"strings"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const appStatsVersion = "v0.1.0"

type AppStats struct {
	name       string
	goroutines metric.Int64ObservableUpDownCounter
	processes  metric.Int64ObservableUpDownCounter
}

func (stats *AppStats) Name() string {
	return stats.name
}

// NewAppStats registers the runtime observers on the current global
// meter provider, so it has to be called after the exporter is set.
func NewAppStats(name string) *AppStats {
	builder := &strings.Builder{}
	builder.WriteString("xpq/app/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	meter := otel.Meter(builder.String(), metric.WithInstrumentationVersion(appStatsVersion))
	return &AppStats{
		name: builder.String(),
		goroutines: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
			"app.core.goroutines",
			metric.WithDescription(`The application goroutines' info.`),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(int64(runtime.NumGoroutine()))
				return nil
			}),
		)),
		processes: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
			"app.core.processes",
			metric.WithDescription(`The application processes' info.`),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(int64(runtime.GOMAXPROCS(0)))
				return nil
			}),
		)),
	}
}
