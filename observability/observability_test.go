package observability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewConsoleMetricsExporter(t *testing.T) {
	buf := &bytes.Buffer{}
	shutdown, err := NewConsoleMetricsExporter(buf, time.Hour, 5*time.Second)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	counter, err := otel.Meter("xpq/test").Int64Counter("test.exporter.count")
	require.NoError(t, err)
	counter.Add(context.Background(), 3, metric.WithAttributes())

	require.NoError(t, shutdown(context.Background()))
	require.Contains(t, buf.String(), "test.exporter.count")
	require.Contains(t, buf.String(), "xpq/test")
}

func TestNewAppStats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	defer func() {
		_ = mp.Shutdown(context.Background())
	}()

	stats := NewAppStats("")
	require.Equal(t, "xpq/app/default", stats.Name())
	require.Equal(t, "xpq/app/walk", NewAppStats("walk").Name())

	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != "xpq/app/default" {
			continue
		}
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, sum.DataPoints, 1)
			found[m.Name] = sum.DataPoints[0].Value
		}
	}
	require.Greater(t, found["app.core.goroutines"], int64(0))
	require.Greater(t, found["app.core.processes"], int64(0))
}
