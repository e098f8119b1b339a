// Package main provides the critter daemon, which keeps every active creature
// advancing through time on a fixed schedule.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/critter/internal/config"
	"github.com/cory-johannsen/critter/internal/game/battle"
	"github.com/cory-johannsen/critter/internal/game/dice"
	"github.com/cory-johannsen/critter/internal/game/evolution"
	"github.com/cory-johannsen/critter/internal/game/keeper"
	"github.com/cory-johannsen/critter/internal/observability"
	"github.com/cory-johannsen/critter/internal/scheduler"
	"github.com/cory-johannsen/critter/internal/server"
	"github.com/cory-johannsen/critter/internal/storage"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	formsPath := flag.String("forms", "", "path to a form catalog YAML file; empty = embedded catalog")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "critterd")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting critter daemon",
		zap.String("storage", cfg.Storage.Driver),
		zap.Duration("tick_interval", cfg.Simulation.TickInterval),
	)

	table, err := loadTable(*formsPath)
	if err != nil {
		logger.Fatal("loading form catalog", zap.Error(err))
	}
	logger.Info("form table built", zap.Int("forms", len(table.Forms())))

	repo, closeRepo, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("opening storage", zap.Error(err))
	}
	defer closeRepo()

	roller := dice.NewRoller(dice.NewCryptoSource(), logger)
	engine := battle.NewEngine(roller, logger)
	k := keeper.New(repo, table, engine, time.Now, logger)

	ticks := scheduler.NewTickManager(cfg.Simulation.TickInterval, logger)
	ticks.RegisterTick("time_passage", k.TickAll)

	if cfg.Simulation.CatchUpOnStart {
		catchUp := time.Now()
		if err := ticks.RunOnce(ctx); err != nil {
			logger.Warn("catch-up tick incomplete", zap.Error(err))
		}
		logger.Info("catch-up complete", zap.Duration("elapsed", time.Since(catchUp)))
	}

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("scheduler", ticks.Service())

	logger.Info("critter daemon ready", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("lifecycle error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func loadTable(path string) (*evolution.Table, error) {
	if path == "" {
		return evolution.DefaultTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cat, err := evolution.LoadCatalog(f)
	if err != nil {
		return nil, err
	}
	return evolution.NewTable(cat), nil
}
