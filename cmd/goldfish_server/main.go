package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/config"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/grpc/simserver"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/store"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	port := flag.Int("port", -1, "The server port (-1 to use config default)")
	host := flag.String("host", "", "The server host (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	maxTrials := flag.Int("max-trials", -1, "Maximum trials per request (-1 to use config default)")
	storePath := flag.String("store", "", "SQLite file for saved scenarios (empty to use config default)")
	enableReflection := flag.Bool("enable-reflection", false, "Enable gRPC reflection for debugging")
	watch := flag.Bool("watch", false, "Reload the config file when it changes")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()

	// Use config defaults if not overridden by flags
	if *port == -1 {
		*port = cfg.Server.Port
	}
	if *host == "" {
		*host = cfg.Server.Host
	}
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	if *maxTrials == -1 {
		*maxTrials = cfg.Server.MaxTrials
	}
	if *storePath == "" {
		*storePath = cfg.Store.Path
	}
	if !*enableReflection {
		*enableReflection = cfg.Server.EnableReflection
	}

	logger := config.SetupLogging(*logLevel, cfg.Logging.Format)
	logger.Info().
		Int("port", *port).
		Str("host", *host).
		Int("max_trials", *maxTrials).
		Str("store", *storePath).
		Msg("Starting gRPC simulation server")

	opts := simserver.Options{MaxTrials: *maxTrials}
	if *storePath != "" {
		results, err := store.NewSQLiteStore(*storePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to open result store")
		}
		defer results.Close()
		if err := results.Migrate(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("Failed to migrate result store")
		}
		opts.Store = results
	}

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", *host, *port))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to listen")
	}

	srv := simserver.NewServer(config.Settings(), opts, logger)
	grpcServer, healthServer := simserver.NewGRPCServer(srv, logger, *enableReflection)

	if *watch {
		config.WatchConfig(logger, func(*config.Config) {
			srv.UpdateSettings(config.Settings())
			logger.Info().Msg("Simulation settings reloaded")
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")
		serveErr <- grpcServer.Serve(lis)
	}()

	select {
	case err := <-serveErr:
		logger.Fatal().Err(err).Msg("Failed to serve")
	case <-ctx.Done():
	}

	logger.Info().Msg("Received shutdown signal")
	simserver.SetNotServing(healthServer)

	// Give ongoing requests time to complete
	time.Sleep(time.Duration(cfg.Server.GracefulShutdownDelay) * time.Second)

	logger.Info().Msg("Gracefully stopping gRPC server")
	grpcServer.GracefulStop()
	logger.Info().Msg("Server shutdown complete")
}
