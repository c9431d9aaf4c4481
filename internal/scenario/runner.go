package scenario

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/experiment"
)

// Row is the result of one grid point
type Row struct {
	Index   int                `json:"index"`
	Params  []ParamValue       `json:"params"`
	Summary experiment.Summary `json:"summary"`
}

// Param returns the value of the named parameter at this point
func (r Row) Param(name string) (string, bool) {
	for _, p := range r.Params {
		if p.Parameter == name {
			return p.Value, true
		}
	}
	return "", false
}

// Table holds one row per grid point, in grid order
type Table struct {
	Scenario   string   `json:"scenario"`
	Seed       int64    `json:"seed"`
	SeedPolicy string   `json:"seed_policy"`
	Parameters []string `json:"parameters"`
	Rows       []Row    `json:"rows"`
}

// Runner executes scenarios
type Runner struct {
	experiments *experiment.Runner
	logger      zerolog.Logger
}

// NewRunner creates a new scenario runner
func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{
		experiments: experiment.NewRunner(logger),
		logger:      logger.With().Str("component", "ScenarioRunner").Logger(),
	}
}

// Run expands the grid, validates every point and then runs them. No point
// runs when any point is invalid.
func (r *Runner) Run(ctx context.Context, s Scenario) (Table, error) {
	points, err := Expand(s)
	if err != nil {
		return Table{}, err
	}

	parallelism := s.Parallelism
	if parallelism == 0 {
		parallelism = 1
	}
	r.logger.Info().
		Str("scenario", s.Name).
		Int("points", len(points)).
		Int("parallelism", parallelism).
		Str("seed_policy", s.SeedPolicy.String()).
		Msg("Scenario started")

	rows := make([]Row, len(points))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, p := range points {
		p := p
		g.Go(func() error {
			summary, err := r.experiments.Run(gctx, p.Config)
			if err != nil {
				return err
			}
			rows[p.Index] = Row{Index: p.Index, Params: p.Params, Summary: summary}
			r.logger.Info().
				Int("point", p.Index).
				Str("name", p.Config.Name).
				Int("failed", summary.Failed).
				Msg("Scenario point finished")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Table{}, ctxErr
		}
		return Table{}, err
	}

	params := make([]string, 0, len(s.Sweeps))
	for _, sw := range s.Sweeps {
		params = append(params, sw.Parameter)
	}
	return Table{
		Scenario:   s.Name,
		Seed:       s.Base.Seed,
		SeedPolicy: s.SeedPolicy.String(),
		Parameters: params,
		Rows:       rows,
	}, nil
}
