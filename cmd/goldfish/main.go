package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/config"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/experiment"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/scenario"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/store"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/strategy"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", "", "Environment overlay to merge (loads config.<env>.yaml)")
	trials := flag.Int("trials", -1, "Trials per experiment (-1 to use config default)")
	seed := flag.Int64("seed", 0, "Base seed (unset to use config default)")
	strat := flag.String("strategy", "", "Strategy name (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	storePath := flag.String("store", "", "SQLite file to save the table in (empty to use config default)")
	single := flag.Bool("experiment", false, "Run the simulation section as one experiment and ignore sweeps")
	listRuns := flag.Int("list-runs", 0, "List the N most recent saved runs and exit")
	listStrategies := flag.Bool("list-strategies", false, "List registered strategies and exit")
	flag.Parse()

	if *listStrategies {
		fmt.Println(strings.Join(strategy.Names(), "\n"))
		return
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(*env); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}

	// Flags override the file and environment
	if *trials != -1 {
		config.Set("simulation.trial_count", *trials)
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			config.Set("simulation.seed", *seed)
		}
	})
	if *strat != "" {
		config.Set("simulation.strategy", *strat)
	}
	if *storePath != "" {
		config.Set("store.path", *storePath)
	}
	cfg := config.Get()
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	logger := config.SetupLogging(*logLevel, cfg.Logging.Format)
	if path := config.ConfigFilePath(); path != "" {
		logger.Info().Str("file", path).Msg("Loaded config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		results *store.SQLiteStore
		err     error
	)
	if cfg.Store.Path != "" {
		results, err = store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to open result store")
		}
		defer results.Close()
		if err := results.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to migrate result store")
		}
	}

	if *listRuns > 0 {
		if results == nil {
			logger.Fatal().Msg("-list-runs needs a store (-store or store.path)")
		}
		runs, err := results.ListRuns(ctx, *listRuns)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to list runs")
		}
		if err := printJSON(os.Stdout, runs); err != nil {
			logger.Fatal().Err(err).Msg("Failed to write output")
		}
		return
	}

	if *single || len(cfg.Scenario.Sweeps) == 0 {
		exp, err := config.BuildExperiment(cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("Invalid experiment")
		}
		summary, err := experiment.NewRunner(logger).Run(ctx, exp)
		if err != nil {
			logger.Fatal().Err(err).Msg("Experiment failed")
		}
		if err := printJSON(os.Stdout, summary); err != nil {
			logger.Fatal().Err(err).Msg("Failed to write output")
		}
		return
	}

	sc, err := config.BuildScenario(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid scenario")
	}
	table, err := scenario.NewRunner(logger).Run(ctx, sc)
	if err != nil {
		logger.Fatal().Err(err).Msg("Scenario failed")
	}
	if results != nil {
		runID, err := results.SaveScenario(ctx, table)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to save scenario")
		}
		logger.Info().Str("run_id", runID).Str("store", cfg.Store.Path).Msg("Scenario saved")
	}
	if err := printJSON(os.Stdout, table); err != nil {
		logger.Fatal().Err(err).Msg("Failed to write output")
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
