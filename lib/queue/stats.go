package queue

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	BSTPriorityQueueStatsName = "xpq/bstpq"
)

type bstStats struct {
	length      metric.Int64UpDownCounter
	pushCount   metric.Int64Counter
	popCount    metric.Int64Counter
	emptyCount  metric.Int64Counter
	pushDepth   metric.Int64Histogram
	chainLength metric.Int64Histogram
}

// RecordPush records the depth the descent stopped at and the length of
// the chain the value ended up in. A long depth on few distinct
// priorities means the tree degenerated towards a list.
func (stats *bstStats) RecordPush(depth, chainLen int64) {
	if stats == nil {
		return
	}
	ctx := context.Background()
	stats.length.Add(ctx, 1)
	stats.pushCount.Add(ctx, 1)
	stats.pushDepth.Record(ctx, depth)
	stats.chainLength.Record(ctx, chainLen)
}

func (stats *bstStats) RecordPop() {
	if stats == nil {
		return
	}
	ctx := context.Background()
	stats.length.Add(ctx, -1)
	stats.popCount.Add(ctx, 1)
}

func (stats *bstStats) RecordClear(count int64) {
	if stats == nil || count == 0 {
		return
	}
	stats.length.Add(context.Background(), -count)
}

func (stats *bstStats) IncreaseEmptyAccessCount() {
	if stats == nil {
		return
	}
	stats.emptyCount.Add(context.Background(), 1)
}

func newBSTStats(name string) *bstStats {
	meterName := BSTPriorityQueueStatsName
	if len(name) > 0 {
		meterName = fmt.Sprintf("%s/%s", BSTPriorityQueueStatsName, name)
	}
	meter := otel.Meter(meterName)
	return &bstStats{
		length: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			"bstpq.length",
			metric.WithDescription("The number of values in the queue."),
		)),
		pushCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"bstpq.push.count",
			metric.WithDescription("The number of values pushed into the queue."),
		)),
		popCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"bstpq.pop.count",
			metric.WithDescription("The number of values popped from the queue."),
		)),
		emptyCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"bstpq.empty.access.count",
			metric.WithDescription("The number of pop or peek calls on an empty queue."),
		)),
		pushDepth: lo.Must[metric.Int64Histogram](meter.Int64Histogram(
			"bstpq.push.depth",
			metric.WithDescription("The tree depth reached by a push."),
		)),
		chainLength: lo.Must[metric.Int64Histogram](meter.Int64Histogram(
			"bstpq.chain.length",
			metric.WithDescription("The chain length of the priority a value was pushed to."),
		)),
	}
}
