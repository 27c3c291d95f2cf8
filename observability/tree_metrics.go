package observability

import (
	"context"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/lib/tree"
)

const (
	treeOpsMetric   = "xtree.tree.ops"
	treeNodesMetric = "xtree.tree.nodes"
)

var (
	treeStrategies = []tree.Strategy{tree.Unbalanced, tree.HeightBalanced, tree.MoveToRoot}
	treeOps        = []tree.Op{tree.OpInsert, tree.OpReject, tree.OpRemove, tree.OpSearch, tree.OpRotate, tree.OpRelease}
)

type treeMetricsKey struct {
	strategy tree.Strategy
	op       tree.Op
}

var _ tree.Observer = (*TreeMetrics)(nil)

// TreeMetrics exports the tree operation counters. The attribute sets are
// built once, so Observe is safe to call from concurrent trees.
type TreeMetrics struct {
	ops        metric.Int64Counter
	nodes      metric.Int64UpDownCounter
	attrs      map[treeMetricsKey]metric.MeasurementOption
	nodesAttrs map[tree.Strategy]metric.MeasurementOption
}

type treeMetricsCfg struct {
	provider metric.MeterProvider
}

type TreeMetricsOption func(*treeMetricsCfg)

// WithTreeMetricsMeterProvider replaces the global meter provider.
func WithTreeMetricsMeterProvider(mp metric.MeterProvider) TreeMetricsOption {
	return func(cfg *treeMetricsCfg) {
		cfg.provider = mp
	}
}

func NewTreeMetrics(meterName string, opts ...TreeMetricsOption) *TreeMetrics {
	cfg := &treeMetricsCfg{}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	if cfg.provider == nil {
		cfg.provider = otel.GetMeterProvider()
	}
	meter := cfg.provider.Meter(appMeterName(meterName))

	m := &TreeMetrics{
		ops: lo.Must[metric.Int64Counter](meter.Int64Counter(
			treeOpsMetric,
			metric.WithDescription(`The tree operations by balancing strategy.`),
			metric.WithUnit("{operation}"),
		)),
		nodes: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			treeNodesMetric,
			metric.WithDescription(`The live tree nodes by balancing strategy.`),
			metric.WithUnit("{node}"),
		)),
		attrs:      make(map[treeMetricsKey]metric.MeasurementOption, len(treeStrategies)*len(treeOps)),
		nodesAttrs: make(map[tree.Strategy]metric.MeasurementOption, len(treeStrategies)),
	}
	for _, s := range treeStrategies {
		m.nodesAttrs[s] = metric.WithAttributeSet(attribute.NewSet(attribute.String("strategy", s.String())))
		for _, op := range treeOps {
			m.attrs[treeMetricsKey{s, op}] = treeMetricsAttrs(s, op)
		}
	}
	return m
}

func treeMetricsAttrs(strategy tree.Strategy, op tree.Op) metric.MeasurementOption {
	return metric.WithAttributeSet(attribute.NewSet(
		attribute.String("strategy", strategy.String()),
		attribute.String("op", op.String()),
	))
}

func (m *TreeMetrics) Observe(strategy tree.Strategy, op tree.Op, delta int64) {
	if m == nil || delta == 0 {
		return
	}
	attrs, ok := m.attrs[treeMetricsKey{strategy, op}]
	if !ok {
		attrs = treeMetricsAttrs(strategy, op)
	}
	ctx := context.Background()
	m.ops.Add(ctx, delta, attrs)

	switch op {
	case tree.OpInsert:
	case tree.OpRemove, tree.OpRelease:
		delta = -delta
	default:
		return
	}
	nodesAttrs, ok := m.nodesAttrs[strategy]
	if !ok {
		nodesAttrs = metric.WithAttributeSet(attribute.NewSet(attribute.String("strategy", strategy.String())))
	}
	m.nodes.Add(ctx, delta, nodesAttrs)
}
