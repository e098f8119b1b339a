// Package main provides the owner CLI: adopt, inspect, care for, battle and
// release creatures in the configured store.
//
// Usage:
//
//	critter [-config path] <command> [flags]
//
// Commands: adopt, status, act, tick, tick-all, snapshot, battle, replay, release.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cory-johannsen/critter/internal/config"
	"github.com/cory-johannsen/critter/internal/game/battle"
	"github.com/cory-johannsen/critter/internal/game/care"
	"github.com/cory-johannsen/critter/internal/game/creature"
	"github.com/cory-johannsen/critter/internal/game/dice"
	"github.com/cory-johannsen/critter/internal/game/evolution"
	"github.com/cory-johannsen/critter/internal/game/keeper"
	"github.com/cory-johannsen/critter/internal/observability"
	"github.com/cory-johannsen/critter/internal/storage"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging, "critter")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, closeRepo, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("opening storage: %v", err)
	}
	defer closeRepo()

	engine := battle.NewEngine(dice.NewRoller(dice.NewCryptoSource(), logger), logger)
	k := keeper.New(repo, evolution.DefaultTable(), engine, time.Now, logger)

	if err := run(ctx, k, flag.Args(), os.Stdout); err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
}

// run executes one CLI command against k, writing human output to out.
func run(ctx context.Context, k *keeper.Keeper, args []string, out io.Writer) error {
	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	id := fs.String("id", "", "creature id")

	switch cmd {
	case "adopt":
		name := fs.String("name", "", "creature name (required)")
		kind := fs.String("kind", "FLAME", "creature kind: FLAME, AQUA or LEAF")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		parsed, err := creature.ParseKind(strings.ToUpper(*kind))
		if err != nil {
			return err
		}
		c, err := k.Adopt(ctx, *name, parsed)
		if err != nil {
			return err
		}
		printCreature(out, c, k.Form(c))
		return nil

	case "status", "tick", "release", "snapshot":
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == "" {
			return fmt.Errorf("-id is required")
		}
		var (
			c   creature.Creature
			err error
		)
		switch cmd {
		case "status":
			c, err = k.Get(ctx, *id)
		case "tick":
			c, err = k.Tick(ctx, *id)
		case "release":
			c, err = k.Release(ctx, *id)
		case "snapshot":
			snap, serr := k.Snapshot(ctx, *id)
			if serr != nil {
				return serr
			}
			fmt.Fprintln(out, snap.Encode())
			return nil
		}
		if err != nil {
			return err
		}
		printCreature(out, c, k.Form(c))
		return nil

	case "tick-all":
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return k.TickAll(ctx)

	case "act":
		action := fs.String("action", "", "care action, e.g. feed, play, train_speed")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		a, err := care.ParseAction(strings.ToLower(*action))
		if err != nil {
			return err
		}
		c, err := k.Act(ctx, *id, a)
		if err != nil {
			return err
		}
		printCreature(out, c, k.Form(c))
		return nil

	case "battle":
		opponent := fs.String("opponent", "", "encoded opponent snapshot")
		logPath := fs.String("log", "", "write the encoded turn log to this file")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		opp, ok := battle.Decode(*opponent)
		if !ok {
			return fmt.Errorf("invalid opponent snapshot %q", *opponent)
		}
		res, err := k.Battle(ctx, *id, opp)
		if err != nil {
			return err
		}
		printResult(out, res)
		if *logPath != "" {
			return os.WriteFile(*logPath, []byte(battle.EncodeLog(res.Turns)), 0o644)
		}
		return nil

	case "replay":
		self := fs.String("self", "", "encoded snapshot this creature sent to the authority")
		authority := fs.String("authority", "", "encoded snapshot of the creature that ran the battle")
		logPath := fs.String("log", "", "file holding the authority's encoded turn log (required)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		selfSnap, ok := battle.Decode(*self)
		if !ok {
			return fmt.Errorf("invalid self snapshot %q", *self)
		}
		authSnap, ok := battle.Decode(*authority)
		if !ok {
			return fmt.Errorf("invalid authority snapshot %q", *authority)
		}
		raw, err := os.ReadFile(*logPath)
		if err != nil {
			return fmt.Errorf("reading turn log: %w", err)
		}
		res, err := k.RecordRemoteBattle(ctx, *id, selfSnap, authSnap, string(raw))
		if err != nil {
			return err
		}
		printResult(out, res)
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printCreature(out io.Writer, c creature.Creature, f evolution.Form) {
	state := "active"
	if !c.Active {
		state = "released"
	}
	fmt.Fprintf(out, "%s %s (%s) %s/%s form=%s [%s]\n",
		c.ID, c.Name, c.Kind, c.Stage, c.Path, c.FormID, state)
	fmt.Fprintf(out, "  %s: %s\n", f.Name, f.Description)
	fmt.Fprintf(out, "  str=%d def=%d spd=%d hp=%d/%d\n",
		c.Combat.Strength, c.Combat.Defense, c.Combat.Speed, c.Condition.CurrentHP, c.Combat.MaxHP)
	fmt.Fprintf(out, "  hunger=%d happiness=%d cleanliness=%d fatigue=%d sick=%v sleeping=%v\n",
		c.Condition.Hunger, c.Condition.Happiness, c.Condition.Cleanliness, c.Condition.Fatigue,
		c.Condition.Sick, c.Condition.Sleeping)
	fmt.Fprintf(out, "  record=%d-%d\n", c.History.BattleWins, c.History.BattleLosses)
}

func printResult(out io.Writer, r battle.Result) {
	for _, t := range r.Turns {
		fmt.Fprintf(out, "%2d. %s\n", t.Number, t.Message)
	}
	fmt.Fprintf(out, "%s after %d turns (hp %d vs %d)\n", r.Outcome, len(r.Turns), r.PlayerHP, r.OpponentHP)
}
