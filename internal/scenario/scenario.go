package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/experiment"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/trial"
)

// Sweepable parameters
const (
	ParamLandCount       = "land_count"
	ParamMulliganPolicy  = "mulligan_policy"
	ParamMulliganRule    = "mulligan_rule"
	ParamMulliganMax     = "mulligan_max"
	ParamStrategy        = "strategy"
	ParamTurnLimit       = "turn_limit"
	ParamDrawPolicy      = "draw_policy"
	ParamOpeningHandSize = "opening_hand_size"
)

// Parameters lists every sweepable parameter
var Parameters = []string{
	ParamLandCount, ParamMulliganPolicy, ParamMulliganRule, ParamMulliganMax,
	ParamStrategy, ParamTurnLimit, ParamDrawPolicy, ParamOpeningHandSize,
}

// SeedPolicy chooses the experiment seed of each grid point
type SeedPolicy int

const (
	// SeedDerived gives every point its own seed derived from the scenario seed
	SeedDerived SeedPolicy = iota
	// SeedShared runs every point on the scenario seed (common random numbers)
	SeedShared
)

func (p SeedPolicy) String() string {
	switch p {
	case SeedDerived:
		return "derived"
	case SeedShared:
		return "shared"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// ParseSeedPolicy converts a config name to a SeedPolicy. The empty string
// means derived.
func ParseSeedPolicy(s string) (SeedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "derived":
		return SeedDerived, nil
	case "shared":
		return SeedShared, nil
	default:
		return SeedDerived, fmt.Errorf("unknown seed policy %q", s)
	}
}

// Sweep varies one parameter over a list of values
type Sweep struct {
	Parameter string   `json:"parameter" mapstructure:"parameter"`
	Values    []string `json:"values" mapstructure:"values"`
}

// Scenario is a grid of experiments around a base config
type Scenario struct {
	Name       string
	Base       experiment.Config
	Sweeps     []Sweep
	SeedPolicy SeedPolicy
	// Parallelism is the number of points run at once, default 1
	Parallelism int
	// LandSlot and FillerSlot are resized by land_count sweeps
	LandSlot   core.CardID
	FillerSlot core.CardID
}

// ParamValue is one parameter setting of a grid point
type ParamValue struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

// Point is one fully built experiment of the grid
type Point struct {
	Index  int
	Params []ParamValue
	Config experiment.Config
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", experiment.ErrConfigurationInvalid, fmt.Sprintf(format, args...))
}

// Expand builds and validates every point of the grid. The first sweep
// varies slowest. A scenario without sweeps has a single point.
func Expand(s Scenario) ([]Point, error) {
	if s.Parallelism < 0 {
		return nil, invalid("parallelism must not be negative")
	}
	seen := make(map[string]bool, len(s.Sweeps))
	total := 1
	for _, sw := range s.Sweeps {
		if !isParameter(sw.Parameter) {
			return nil, invalid("unknown sweep parameter %q", sw.Parameter)
		}
		if seen[sw.Parameter] {
			return nil, invalid("parameter %s is swept twice", sw.Parameter)
		}
		seen[sw.Parameter] = true
		if len(sw.Values) == 0 {
			return nil, invalid("sweep over %s has no values", sw.Parameter)
		}
		total *= len(sw.Values)
	}

	points := make([]Point, 0, total)
	idx := make([]int, len(s.Sweeps))
	for n := 0; n < total; n++ {
		params := make([]ParamValue, len(s.Sweeps))
		for i, sw := range s.Sweeps {
			params[i] = ParamValue{Parameter: sw.Parameter, Value: sw.Values[idx[i]]}
		}
		cfg, err := s.build(n, params)
		if err != nil {
			return nil, err
		}
		points = append(points, Point{Index: n, Params: params, Config: cfg})

		// odometer, last sweep fastest
		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(s.Sweeps[i].Values) {
				break
			}
			idx[i] = 0
		}
	}
	return points, nil
}

func (s Scenario) build(n int, params []ParamValue) (experiment.Config, error) {
	cfg := s.Base
	cfg.Metrics.CheckpointTurns = append([]int(nil), s.Base.Metrics.CheckpointTurns...)
	for _, p := range params {
		if err := s.apply(&cfg, p); err != nil {
			return cfg, fmt.Errorf("point %d (%s=%s): %w", n, p.Parameter, p.Value, err)
		}
	}
	switch s.SeedPolicy {
	case SeedDerived:
		cfg.Seed = experiment.PointSeed(s.Base.Seed, n)
	case SeedShared:
		cfg.Seed = s.Base.Seed
	}
	if cfg.Name == "" || len(params) > 0 {
		cfg.Name = pointName(s.Name, params)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("point %d: %w", n, err)
	}
	return cfg, nil
}

func (s Scenario) apply(cfg *experiment.Config, p ParamValue) error {
	v := strings.TrimSpace(p.Value)
	switch p.Parameter {
	case ParamLandCount:
		n, err := atoi(p.Parameter, v)
		if err != nil {
			return err
		}
		if cfg.Deck == nil {
			return invalid("land_count needs a deck")
		}
		deck, err := cfg.Deck.WithLandCount(n, s.LandSlot, s.FillerSlot)
		if err != nil {
			return fmt.Errorf("%w: %w", experiment.ErrConfigurationInvalid, err)
		}
		cfg.Deck = deck
	case ParamMulliganPolicy:
		cfg.MulliganPolicy = v
	case ParamMulliganRule:
		rule, err := trial.ParseMulliganRule(v)
		if err != nil {
			return fmt.Errorf("%w: %w", experiment.ErrConfigurationInvalid, err)
		}
		cfg.Trial.MulliganRule = rule
	case ParamMulliganMax:
		n, err := atoi(p.Parameter, v)
		if err != nil {
			return err
		}
		cfg.Trial.MulliganMax = n
	case ParamStrategy:
		cfg.Strategy = v
	case ParamTurnLimit:
		n, err := atoi(p.Parameter, v)
		if err != nil {
			return err
		}
		cfg.Trial.TurnLimit = n
	case ParamDrawPolicy:
		policy, err := trial.ParseDrawPolicy(v)
		if err != nil {
			return fmt.Errorf("%w: %w", experiment.ErrConfigurationInvalid, err)
		}
		cfg.Trial.DrawPolicy = policy
	case ParamOpeningHandSize:
		n, err := atoi(p.Parameter, v)
		if err != nil {
			return err
		}
		cfg.Trial.OpeningHandSize = n
	default:
		return invalid("unknown sweep parameter %q", p.Parameter)
	}
	return nil
}

func atoi(param, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, invalid("%s value %q is not an integer", param, v)
	}
	return n, nil
}

func isParameter(name string) bool {
	for _, p := range Parameters {
		if p == name {
			return true
		}
	}
	return false
}

func pointName(scenario string, params []ParamValue) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.Parameter+"="+p.Value)
	}
	if scenario == "" {
		return strings.Join(parts, ",")
	}
	if len(parts) == 0 {
		return scenario
	}
	return scenario + "/" + strings.Join(parts, ",")
}
