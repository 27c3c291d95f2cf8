package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/lib/infra"
)

// ShutdownCallback flushes the pending metrics and releases the exporter.
type ShutdownCallback func(ctx context.Context) error

func installMeterProvider(reader metric.Reader) ShutdownCallback {
	mp := metric.NewMeterProvider(metric.WithReader(reader))
	otel.SetMeterProvider(mp)
	return mp.Shutdown
}

// NewConsoleMetricsExporter serves for test/dev environment, the metrics
// are printed periodically.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (ShutdownCallback, error) {
	if interval <= 0 || timeout <= 0 {
		return nil, infra.NewErrorStackf("[observability] invalid console exporter interval %s or timeout %s", interval, timeout)
	}
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[observability] console exporter")
	}
	return installMeterProvider(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)), nil
}

// NewPrometheusMetricsExporter serves for the product environment, the
// metrics are fetched by HTTP from the default prometheus registry.
func NewPrometheusMetricsExporter(opts ...prometheus.Option) (ShutdownCallback, error) {
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[observability] prometheus exporter")
	}
	return installMeterProvider(exporter), nil
}
