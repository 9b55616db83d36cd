package metrics_test

import (
	"sync"
	"testing"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorAggregates(t *testing.T) {
	c := metrics.NewCollector()

	c.RecordTiming(metrics.OpRouting, 2*time.Millisecond)
	c.RecordTiming(metrics.OpRouting, 4*time.Millisecond)
	c.RecordError(metrics.OpChat, 10*time.Millisecond)

	snap := c.Snapshot()

	routing, ok := snap.Operations[metrics.OpRouting]
	require.True(t, ok, "routing op should be present")
	assert.Equal(t, int64(2), routing.Count)
	assert.Equal(t, int64(0), routing.Errors)
	assert.Equal(t, int64(2), routing.MinTimeMs)
	assert.Equal(t, int64(4), routing.MaxTimeMs)
	assert.InDelta(t, 3.0, routing.AvgTimeMs, 0.001)

	chat, ok := snap.Operations[metrics.OpChat]
	require.True(t, ok)
	assert.Equal(t, int64(1), chat.Count)
	assert.Equal(t, int64(1), chat.Errors)
}

func TestCollectorEmptySnapshot(t *testing.T) {
	c := metrics.NewCollector()
	snap := c.Snapshot()
	assert.Empty(t, snap.Operations)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}

func TestCollectorConcurrentAccess(t *testing.T) {
	c := metrics.NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordTiming(metrics.OpDBQuery, time.Millisecond)
			_ = c.Snapshot()
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, int64(50), snap.Operations[metrics.OpDBQuery].Count)
}
