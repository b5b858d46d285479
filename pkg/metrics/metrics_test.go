package metrics_test

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboxlab/mailroom/pkg/metrics"
)

func TestMemory_Inc(t *testing.T) {
	t.Parallel()

	m := metrics.NewMemory()
	m.Inc(metrics.CounterSent)
	m.Inc(metrics.CounterSent)
	m.Inc(metrics.CounterBounced)

	assert.Equal(t, uint64(2), m.Get(metrics.CounterSent))
	assert.Equal(t, uint64(1), m.Get(metrics.CounterBounced))
	assert.Zero(t, m.Get(metrics.CounterClicked))
}

func TestMemory_ConcurrentInc(t *testing.T) {
	t.Parallel()

	m := metrics.NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Inc(metrics.CounterDelivered)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(5000), m.Get(metrics.CounterDelivered))
}

func TestMemory_Snapshot(t *testing.T) {
	t.Parallel()

	m := metrics.NewMemory()
	m.Inc(metrics.CounterOpened)

	snap := m.Snapshot()
	snap[metrics.CounterOpened] = 99

	assert.Equal(t, uint64(1), m.Get(metrics.CounterOpened), "snapshot must be a copy")
}

func TestPrometheus_Inc(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	p := metrics.NewPrometheus(reg)

	p.Inc(metrics.CounterComplained)
	p.Inc(metrics.CounterComplained)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "mailroom_email_events_total", families[0].GetName())

	ms := families[0].GetMetric()
	require.Len(t, ms, 1)
	assert.Equal(t, metrics.CounterComplained, ms[0].GetLabel()[0].GetValue())
	assert.InDelta(t, 2.0, ms[0].GetCounter().GetValue(), 0.001)
}
