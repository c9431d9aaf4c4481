package simserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/config"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/experiment"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/scenario"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/store"
)

// Options configure a Server
type Options struct {
	// MaxTrials caps the trials one request may run across all grid points
	MaxTrials int
	// Store persists scenario tables on request. Nil disables saving.
	Store store.Store
}

// Server implements SimulationServiceServer
type Server struct {
	mu       sync.RWMutex
	settings map[string]any

	opts        Options
	experiments *experiment.Runner
	scenarios   *scenario.Runner
	idempotency *IdempotencyManager
	logger      zerolog.Logger
}

var _ SimulationServiceServer = (*Server)(nil)

// NewServer creates a simulation server. Requests overlay settings, the
// resolved config as config.Settings returns it.
func NewServer(settings map[string]any, opts Options, logger zerolog.Logger) *Server {
	return &Server{
		settings:    settings,
		opts:        opts,
		experiments: experiment.NewRunner(logger),
		scenarios:   scenario.NewRunner(logger),
		idempotency: NewIdempotencyManager(),
		logger:      logger.With().Str("component", "SimulationServer").Logger(),
	}
}

// UpdateSettings replaces the base settings, for example after a config reload
func (s *Server) UpdateSettings(settings map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

func (s *Server) baseSettings() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// runRequest is the envelope of RunExperiment and RunScenario
type runRequest struct {
	Config         map[string]any `mapstructure:"config"`
	Save           bool           `mapstructure:"save"`
	IdempotencyKey string         `mapstructure:"idempotency_key"`
}

type listRequest struct {
	Limit int `mapstructure:"limit"`
}

type getRequest struct {
	ID string `mapstructure:"id"`
}

// decodeRequest decodes a request struct into out, rejecting unknown fields
func decodeRequest(in *structpb.Struct, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in.AsMap()); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

// RunExperiment runs one experiment from the config overlay and returns its
// summary
func (s *Server) RunExperiment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req runRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	if req.Save {
		return nil, status.Error(codes.InvalidArgument, "only scenarios can be saved")
	}
	if cached := s.idempotency.Check(MethodRunExperiment, req.IdempotencyKey); cached != nil {
		return cached, nil
	}

	c, err := config.Overlay(s.baseSettings(), req.Config)
	if err != nil {
		return nil, toStatus(err)
	}
	exp, err := config.BuildExperiment(c)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.checkBudget(exp.TrialCount, 1); err != nil {
		return nil, err
	}

	summary, err := s.experiments.Run(ctx, exp)
	if err != nil {
		return nil, toStatus(err)
	}
	resp, err := toStruct(map[string]any{
		"summary":     summary,
		"finished_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	s.idempotency.Store(MethodRunExperiment, req.IdempotencyKey, resp)
	return resp, nil
}

// RunScenario runs the configured grid and returns its table. With save set
// the table is stored and the response carries its run_id.
func (s *Server) RunScenario(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req runRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	if req.Save && s.opts.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "result store is not configured")
	}
	if cached := s.idempotency.Check(MethodRunScenario, req.IdempotencyKey); cached != nil {
		return cached, nil
	}

	c, err := config.Overlay(s.baseSettings(), req.Config)
	if err != nil {
		return nil, toStatus(err)
	}
	sc, err := config.BuildScenario(c)
	if err != nil {
		return nil, toStatus(err)
	}
	points, err := scenario.Expand(sc)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.checkBudget(sc.Base.TrialCount, len(points)); err != nil {
		return nil, err
	}

	table, err := s.scenarios.Run(ctx, sc)
	if err != nil {
		return nil, toStatus(err)
	}
	out := map[string]any{
		"table":       table,
		"finished_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if req.Save {
		runID, err := s.opts.Store.SaveScenario(ctx, table)
		if err != nil {
			s.logger.Error().Err(err).Str("scenario", table.Scenario).Msg("Failed to save scenario")
			return nil, status.Errorf(codes.Internal, "saving scenario: %v", err)
		}
		out["run_id"] = runID
		s.logger.Info().Str("run_id", runID).Str("scenario", table.Scenario).Msg("Scenario saved")
	}

	resp, err := toStruct(out)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	s.idempotency.Store(MethodRunScenario, req.IdempotencyKey, resp)
	return resp, nil
}

// ListRuns returns the most recent saved runs
func (s *Server) ListRuns(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.opts.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "result store is not configured")
	}
	var req listRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	runs, err := s.opts.Store.ListRuns(ctx, req.Limit)
	if err != nil {
		return nil, toStatus(err)
	}
	if runs == nil {
		runs = []store.Run{}
	}
	resp, err := toStruct(map[string]any{"runs": runs})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return resp, nil
}

// GetRun returns a saved run with its rows
func (s *Server) GetRun(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.opts.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "result store is not configured")
	}
	var req getRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	run, err := s.opts.Store.GetRun(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	rows, err := s.opts.Store.GetRows(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	if rows == nil {
		rows = []scenario.Row{}
	}
	resp, err := toStruct(map[string]any{"run": run, "rows": rows})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return resp, nil
}

func (s *Server) checkBudget(trials, points int) error {
	if s.opts.MaxTrials > 0 && trials*points > s.opts.MaxTrials {
		return status.Errorf(codes.ResourceExhausted,
			"request needs %d trials (%d points of %d), limit is %d", trials*points, points, trials, s.opts.MaxTrials)
	}
	return nil
}

// toStatus maps domain errors onto gRPC codes
func toStatus(err error) error {
	switch {
	case errors.Is(err, experiment.ErrConfigurationInvalid):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, store.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// toStruct converts v to a Struct through its JSON form
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("response is not an object: %w", err)
	}
	return structpb.NewStruct(m)
}
