// Package battlesim runs many seeded battles between two snapshots and
// summarises how the matchup plays out.
package battlesim

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/cory-johannsen/critter/internal/game/battle"
	"github.com/cory-johannsen/critter/internal/game/dice"
)

// Report summarises a batch of battles from the player's point of view.
type Report struct {
	Battles     int
	Wins        int
	Losses      int
	Draws       int
	WinRate     float64
	MeanTurns   float64
	StdDevTurns float64
	// First is the full result of the battle fought with the base seed.
	First battle.Result
}

// Run fights n battles, battle i seeded with seed+i.
//
// Precondition: n >= 1.
// Postcondition: Wins+Losses+Draws == n. Identical inputs give identical reports.
func Run(player, opponent battle.Snapshot, n int, seed uint64, logger *zap.Logger) (Report, error) {
	if n < 1 {
		return Report{}, fmt.Errorf("battle count must be >= 1, got %d", n)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rep := Report{Battles: n}
	turns := make([]float64, n)
	wins := make([]float64, n)
	for i := range n {
		roller := dice.NewRoller(dice.NewSeededSource(seed+uint64(i)), logger)
		res := battle.Resolve(player, opponent, roller)
		if i == 0 {
			rep.First = res
		}
		turns[i] = float64(len(res.Turns))
		switch res.Outcome {
		case battle.OutcomeWin:
			rep.Wins++
			wins[i] = 1
		case battle.OutcomeLose:
			rep.Losses++
		default:
			rep.Draws++
		}
	}

	rep.WinRate = stat.Mean(wins, nil)
	rep.MeanTurns = stat.Mean(turns, nil)
	if n > 1 {
		rep.StdDevTurns = stat.StdDev(turns, nil)
	}
	logger.Debug("simulation complete",
		zap.String("player", player.Name),
		zap.String("opponent", opponent.Name),
		zap.Int("battles", n),
		zap.Float64("win_rate", rep.WinRate),
	)
	return rep, nil
}

// TurnRecord is one CSV row of a battle log.
type TurnRecord struct {
	Number     int    `csv:"turn"`
	Attacker   string `csv:"attacker"`
	Defender   string `csv:"defender"`
	Damage     int    `csv:"damage"`
	Critical   bool   `csv:"critical"`
	AttackerHP int    `csv:"attacker_hp"`
	DefenderHP int    `csv:"defender_hp"`
	Message    string `csv:"message"`
}

// WriteTurnsCSV writes turns as CSV with a header row.
func WriteTurnsCSV(w io.Writer, turns []battle.Turn) error {
	records := make([]TurnRecord, 0, len(turns))
	for _, t := range turns {
		records = append(records, TurnRecord{
			Number:     t.Number,
			Attacker:   t.Attacker,
			Defender:   t.Defender,
			Damage:     t.Damage,
			Critical:   t.Critical,
			AttackerHP: t.AttackerHP,
			DefenderHP: t.DefenderHP,
			Message:    t.Message,
		})
	}
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("writing turn log csv: %w", err)
	}
	return nil
}

// ReadTurnsCSV reads a log written by WriteTurnsCSV.
func ReadTurnsCSV(r io.Reader) ([]battle.Turn, error) {
	var records []TurnRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("reading turn log csv: %w", err)
	}
	turns := make([]battle.Turn, 0, len(records))
	for _, rec := range records {
		turns = append(turns, battle.Turn{
			Number:     rec.Number,
			Attacker:   rec.Attacker,
			Defender:   rec.Defender,
			Damage:     rec.Damage,
			AttackerHP: rec.AttackerHP,
			DefenderHP: rec.DefenderHP,
			Critical:   rec.Critical,
			Message:    rec.Message,
		})
	}
	return turns, nil
}
