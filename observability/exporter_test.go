package observability

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/lib/infra"
)

func TestNewConsoleMetricsExporter(t *testing.T) {
	_, err := NewConsoleMetricsExporter(0, time.Second)
	require.Error(t, err)
	var es infra.ErrorStack
	require.ErrorAs(t, err, &es)

	shutdown, err := NewConsoleMetricsExporter(
		50*time.Millisecond,
		time.Second,
		stdoutmetric.WithWriter(io.Discard),
	)
	require.NoError(t, err)
	m := NewTreeMetrics("console")
	m.Observe(0, 0, 1)
	require.NoError(t, shutdown(context.Background()))
}

func TestNewPrometheusMetricsExporter(t *testing.T) {
	shutdown, err := NewPrometheusMetricsExporter()
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitAppStats(t *testing.T) {
	require.Equal(t, "xtree/app/default", appMeterName(" "))
	require.Equal(t, "xtree/app/cli", appMeterName("cli"))

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)

	ctx, cancel := context.WithCancel(context.Background())
	shutdown := make(chan struct{})
	InitAppStats(ctx, "stats", func(ctx context.Context) error {
		defer close(shutdown)
		return mp.Shutdown(ctx)
	})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	names := make(map[string]struct{})
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = struct{}{}
		}
	}
	require.Contains(t, names, "app.core.goroutines")
	require.Contains(t, names, "app.core.processes")

	cancel()
	select {
	case <-shutdown:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown callback not called")
	}
}
