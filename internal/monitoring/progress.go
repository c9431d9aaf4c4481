package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is how often progress is logged
const DefaultInterval = 5 * time.Second

// ProgressMonitor tracks trial throughput of a run and logs it periodically.
// Record methods are safe to call from any worker goroutine.
type ProgressMonitor struct {
	name     string
	total    int64
	interval time.Duration
	logger   zerolog.Logger

	completed atomic.Int64
	failed    atomic.Int64
	turns     atomic.Int64

	mu            sync.Mutex
	started       time.Time
	peakGoroutine int
	stopChan      chan struct{}
	stopOnce      sync.Once
	done          chan struct{}
}

// NewProgressMonitor creates a monitor for a run of total trials. A zero
// interval takes DefaultInterval.
func NewProgressMonitor(name string, total int, interval time.Duration, logger zerolog.Logger) *ProgressMonitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &ProgressMonitor{
		name:     name,
		total:    int64(total),
		interval: interval,
		logger:   logger.With().Str("component", "progress").Str("run", name).Logger(),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins periodic logging
func (pm *ProgressMonitor) Start() {
	pm.mu.Lock()
	pm.started = time.Now()
	pm.peakGoroutine = runtime.NumGoroutine()
	pm.mu.Unlock()

	go pm.monitor()
	pm.logger.Info().
		Int64("trials", pm.total).
		Msg("Started run")
}

// Stop ends periodic logging and logs the final totals. It is safe to call
// more than once.
func (pm *ProgressMonitor) Stop() {
	pm.stopOnce.Do(func() {
		pm.mu.Lock()
		running := !pm.started.IsZero()
		pm.mu.Unlock()
		close(pm.stopChan)
		if running {
			<-pm.done
		}
		m := pm.GetMetrics()
		pm.logger.Info().
			Int64("completed", m.Completed).
			Int64("failed", m.Failed).
			Int64("turns", m.Turns).
			Float64("trials_per_sec", m.TrialsPerSecond).
			Dur("elapsed", m.Elapsed).
			Msg("Run finished")
	})
}

// RecordTurn counts one played turn
func (pm *ProgressMonitor) RecordTurn() {
	pm.turns.Add(1)
}

// RecordTrial counts one finished trial
func (pm *ProgressMonitor) RecordTrial(failed bool) {
	pm.completed.Add(1)
	if failed {
		pm.failed.Add(1)
	}
}

func (pm *ProgressMonitor) monitor() {
	defer close(pm.done)
	defer func() {
		if r := recover(); r != nil {
			pm.logger.Error().
				Interface("panic", r).
				Msg("Progress monitor panicked")
		}
	}()

	ticker := time.NewTicker(pm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pm.report()
		case <-pm.stopChan:
			return
		}
	}
}

func (pm *ProgressMonitor) report() {
	current := runtime.NumGoroutine()
	pm.mu.Lock()
	if current > pm.peakGoroutine {
		pm.peakGoroutine = current
	}
	pm.mu.Unlock()

	m := pm.GetMetrics()
	pm.logger.Info().
		Int64("completed", m.Completed).
		Int64("total", m.Total).
		Float64("percent", m.Percent).
		Float64("trials_per_sec", m.TrialsPerSecond).
		Float64("turns_per_sec", m.TurnsPerSecond).
		Int("goroutines", current).
		Msg("Run progress")
}

// GetMetrics returns current progress metrics
func (pm *ProgressMonitor) GetMetrics() ProgressMetrics {
	pm.mu.Lock()
	started, peak := pm.started, pm.peakGoroutine
	pm.mu.Unlock()

	m := ProgressMetrics{
		Completed:      pm.completed.Load(),
		Failed:         pm.failed.Load(),
		Turns:          pm.turns.Load(),
		Total:          pm.total,
		PeakGoroutines: peak,
	}
	if m.Total > 0 {
		m.Percent = float64(m.Completed) / float64(m.Total) * 100
	}
	if !started.IsZero() {
		m.Elapsed = time.Since(started)
		if secs := m.Elapsed.Seconds(); secs > 0 {
			m.TrialsPerSecond = float64(m.Completed) / secs
			m.TurnsPerSecond = float64(m.Turns) / secs
		}
	}
	return m
}

// ProgressMetrics contains run progress statistics
type ProgressMetrics struct {
	Completed       int64         `json:"completed"`
	Failed          int64         `json:"failed"`
	Turns           int64         `json:"turns"`
	Total           int64         `json:"total"`
	Percent         float64       `json:"percent"`
	TrialsPerSecond float64       `json:"trials_per_sec"`
	TurnsPerSecond  float64       `json:"turns_per_sec"`
	Elapsed         time.Duration `json:"elapsed"`
	PeakGoroutines  int           `json:"peak_goroutines"`
}
