package experiment

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/events"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/metrics"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/monitoring"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/strategy"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/trial"
)

// Summary is the aggregate result of one experiment
type Summary struct {
	RunID     string          `json:"run_id"`
	Name      string          `json:"name,omitempty"`
	Seed      int64           `json:"seed"`
	Strategy  string          `json:"strategy"`
	Trials    int             `json:"trials"`
	Completed int             `json:"completed"`
	Failed    int             `json:"failed"`
	Errors    []string        `json:"errors,omitempty"`
	Metrics   metrics.Summary `json:"metrics"`
}

// Runner executes experiments
type Runner struct {
	logger zerolog.Logger
}

// NewRunner creates a new experiment runner
func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{logger: logger.With().Str("component", "ExperimentRunner").Logger()}
}

// worker holds one goroutine's partial results
type worker struct {
	agg       *metrics.Aggregator
	failed    int
	errors    map[string]struct{}
	completed int
}

// Run validates cfg and plays every trial. A cancelled context stops the
// run between trials and returns ctx.Err(); an invalid config returns an
// error wrapping ErrConfigurationInvalid before any trial starts.
func (r *Runner) Run(ctx context.Context, cfg Config) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	strat, err := strategy.New(cfg.Strategy, cfg.strategyOptions())
	if err != nil {
		return Summary{}, err
	}

	runID := RunID(cfg)
	logger := r.logger.With().Str("run_id", runID).Str("experiment", cfg.Name).Logger()
	executor := trial.NewExecutor(cfg.Deck, strat, cfg.Trial, logger)
	collector := metrics.NewCollector(cfg.Metrics).TrackCards(spellNames(cfg.Deck)...)

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if workers > cfg.TrialCount {
		workers = cfg.TrialCount
	}

	var progress *monitoring.ProgressMonitor
	if cfg.Progress {
		progress = monitoring.NewProgressMonitor(runID, cfg.TrialCount, cfg.ProgressInterval, logger)
		progress.Start()
		defer progress.Stop()
		executor.Observe(events.TypeTurnEnded, func(events.Event) { progress.RecordTurn() })
	}

	logger.Info().
		Int("trials", cfg.TrialCount).
		Int("workers", workers).
		Int64("seed", cfg.Seed).
		Str("strategy", strat.Name()).
		Msg("Experiment started")
	start := time.Now()

	var (
		next    atomic.Int64
		mu      sync.Mutex
		results = make([]*worker, 0, workers)
	)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			local := &worker{agg: metrics.NewAggregator(), errors: make(map[string]struct{})}
			defer func() {
				mu.Lock()
				results = append(results, local)
				mu.Unlock()
			}()
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				i := int(next.Add(1) - 1)
				if i >= cfg.TrialCount {
					return nil
				}
				res := executor.Run(i, TrialSeeds(cfg.Seed, i))
				local.completed++
				if progress != nil {
					progress.RecordTrial(res.Err != nil)
				}
				if res.Err != nil {
					local.failed++
					local.errors[failureMessage(res.Err)] = struct{}{}
					continue
				}
				local.agg.Add(collector.Collect(res.Trace))
			}
		})
	}
	if err := g.Wait(); err != nil {
		logger.Info().Err(err).Msg("Experiment cancelled")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Summary{}, ctxErr
		}
		return Summary{}, err
	}

	agg := metrics.NewAggregator()
	distinct := make(map[string]struct{})
	summary := Summary{
		RunID:    runID,
		Name:     cfg.Name,
		Seed:     cfg.Seed,
		Strategy: strat.Name(),
		Trials:   cfg.TrialCount,
	}
	for _, w := range results {
		agg.Merge(w.agg)
		summary.Completed += w.completed
		summary.Failed += w.failed
		for msg := range w.errors {
			distinct[msg] = struct{}{}
		}
	}
	summary.Metrics = agg.Summary()
	summary.Errors = capErrors(distinct)

	logger.Info().
		Int("completed", summary.Completed).
		Int("failed", summary.Failed).
		Dur("duration", time.Since(start)).
		Msg("Experiment finished")
	return summary, nil
}

// runNamespace scopes the name-based UUIDs of experiment runs
var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("goldfish/experiment"))

// RunID derives a run ID from every setting that affects the results, so
// two runs of the same config share an ID. Workers and event logging are
// left out.
func RunID(cfg Config) string {
	var sb strings.Builder
	tc := cfg.Trial
	tc.LogEvents = false
	fmt.Fprintf(&sb, "%s|%d|%d|%s|%s|%+v|%+v|%+v",
		cfg.Name, cfg.Seed, cfg.TrialCount, cfg.Strategy, cfg.MulliganPolicy,
		cfg.StrategyOptions, tc, cfg.Metrics)
	if cfg.Deck != nil {
		for _, e := range cfg.Deck.Entries {
			fmt.Fprintf(&sb, "|%d×%+v", e.Quantity, *cfg.Deck.Catalog.Card(e.Card))
		}
		for _, id := range cfg.Deck.Commanders {
			fmt.Fprintf(&sb, "|commander %+v", *cfg.Deck.Catalog.Card(id))
		}
	}
	return uuid.NewSHA1(runNamespace, []byte(sb.String())).String()
}

// failureMessage drops the trial index so identical failures across trials
// collapse to one message
func failureMessage(err error) string {
	if inner := errors.Unwrap(err); inner != nil {
		return inner.Error()
	}
	return err.Error()
}

func capErrors(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for msg := range set {
		out = append(out, msg)
	}
	sort.Strings(out)
	if len(out) > MaxErrors {
		out = out[:MaxErrors]
	}
	return out
}
