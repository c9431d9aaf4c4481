package monitoring

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestProgressMonitorCounts(t *testing.T) {
	pm := NewProgressMonitor("test", 100, time.Millisecond, zerolog.Nop())
	pm.Start()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				pm.RecordTurn()
				pm.RecordTurn()
				pm.RecordTrial(i%5 == 0)
			}
		}()
	}
	wg.Wait()
	time.Sleep(5 * time.Millisecond)
	pm.Stop()
	pm.Stop()

	m := pm.GetMetrics()
	assert.Equal(t, int64(100), m.Completed)
	assert.Equal(t, int64(20), m.Failed)
	assert.Equal(t, int64(200), m.Turns)
	assert.Greater(t, m.TurnsPerSecond, 0.0)
	assert.Equal(t, 100.0, m.Percent)
	assert.Greater(t, m.PeakGoroutines, 0)
	assert.Greater(t, m.Elapsed, time.Duration(0))
}

func TestProgressMonitorDefaults(t *testing.T) {
	pm := NewProgressMonitor("idle", 0, 0, zerolog.Nop())
	assert.Equal(t, DefaultInterval, pm.interval)
	m := pm.GetMetrics()
	assert.Zero(t, m.Percent)
	assert.Zero(t, m.TrialsPerSecond)
}
