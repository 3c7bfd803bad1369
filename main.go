package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"elevsim/source/config"
	"elevsim/source/logger"
	"elevsim/source/simulation"
)

// sampleTrips runs when the configuration names no batch.
var sampleTrips = []config.Trip{
	{From: 1, To: 4, Passengers: 1},
	{From: 1, To: 15, Passengers: 60},
	{From: 12, To: 2, Passengers: 6},
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	envPath := flag.String("env", ".env", "env file with ELEVSIM_* overrides")
	concurrent := flag.Bool("concurrent", false, "submit every trip at once")
	flag.Parse()

	log := logger.GetLogger()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}
	if err := cfg.ApplyEnv(*envPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply env overrides")
	}
	if *concurrent {
		cfg.Batch.Concurrent = true
	}
	log = logger.GetLoggerConfigured(cfg.Level())

	trips := cfg.Batch.Trips
	if len(trips) == 0 {
		log.Info().Msg("No trips configured, running the sample batch")
		trips = sampleTrips
	}
	requests, err := simulation.Requests(trips)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid trip")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := simulation.New(cfg)
	result, err := sim.RunBatch(ctx, requests, cfg.Batch.Concurrent)
	if err != nil {
		log.Error().Err(err).Msg("Batch stopped early")
	}

	for _, s := range sim.GetElevators() {
		log.Info().
			Int("elevator", s.ID).
			Str("type", s.Type.String()).
			Int("floor", s.Floor).
			Str("state", s.State.String()).
			Int("passengers", s.Passengers).
			Int("capacity", s.MaxCapacity).
			Msg("Final state")
	}
	log.Info().
		Int("trips", result.Trips).
		Int("passengers", result.Passengers).
		Int("queued", result.Queued).
		Int("pending", sim.GetRequestQueue().PendingCount()).
		Int("out_of_service", result.OutOfService).
		Dur("elapsed", result.Elapsed).
		Msg("Simulation finished")

	if err != nil {
		os.Exit(1)
	}
}
