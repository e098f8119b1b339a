// Package main runs a batch of seeded battles between two encoded snapshots and
// prints matchup statistics.
//
// Usage:
//
//	battlesim -player 'Ember|FLAME|TEEN|STRONG|30|18|22|140|flame_teen_strong' \
//	          -opponent 'Tide|AQUA|TEEN|WISE|24|24|20|160|aqua_teen_wise' -n 1000 -csv first.csv
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/critter/internal/battlesim"
	"github.com/cory-johannsen/critter/internal/config"
	"github.com/cory-johannsen/critter/internal/game/battle"
	"github.com/cory-johannsen/critter/internal/observability"
)

func main() {
	start := time.Now()

	playerRaw := flag.String("player", "", "encoded snapshot of the player creature")
	opponentRaw := flag.String("opponent", "", "encoded snapshot of the opponent creature")
	n := flag.Int("n", 100, "number of battles to simulate")
	seed := flag.Uint64("seed", 1, "seed of the first battle; battle i uses seed+i")
	csvPath := flag.String("csv", "", "write the first battle's turn log to this CSV file")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	logger, err := observability.NewLogger(config.LoggingConfig{Level: *logLevel, Format: "console"}, "battlesim")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	player, ok := battle.Decode(*playerRaw)
	if !ok {
		logger.Fatal("invalid player snapshot", zap.String("raw", *playerRaw))
	}
	opponent, ok := battle.Decode(*opponentRaw)
	if !ok {
		logger.Fatal("invalid opponent snapshot", zap.String("raw", *opponentRaw))
	}

	rep, err := battlesim.Run(player, opponent, *n, *seed, logger)
	if err != nil {
		logger.Fatal("running simulation", zap.Error(err))
	}

	fmt.Fprintf(os.Stdout, "%s vs %s: %d battles\n", player.Name, opponent.Name, rep.Battles)
	fmt.Fprintf(os.Stdout, "  wins=%d losses=%d draws=%d win_rate=%.3f\n", rep.Wins, rep.Losses, rep.Draws, rep.WinRate)
	fmt.Fprintf(os.Stdout, "  turns mean=%.2f stddev=%.2f\n", rep.MeanTurns, rep.StdDevTurns)

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			logger.Fatal("creating csv file", zap.Error(err))
		}
		if err := battlesim.WriteTurnsCSV(f, rep.First.Turns); err != nil {
			f.Close()
			logger.Fatal("writing csv", zap.Error(err))
		}
		if err := f.Close(); err != nil {
			logger.Fatal("closing csv file", zap.Error(err))
		}
		fmt.Fprintf(os.Stdout, "  first battle (%s, %d turns) written to %s\n",
			rep.First.Outcome, len(rep.First.Turns), *csvPath)
	}

	logger.Info("simulation finished", zap.Duration("elapsed", time.Since(start)))
}
