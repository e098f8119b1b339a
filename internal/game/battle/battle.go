// Package battle resolves turn-based combat between two creature snapshots and
// carries the resulting turn log between an authority and its replayers.
package battle

import (
	"fmt"

	"github.com/cory-johannsen/critter/internal/game/dice"
)

// MaxTurns bounds every battle.
const MaxTurns = 20

var (
	coinFlip = dice.MustParse("d2")
	critRoll = dice.MustParse("d100")
)

// Roller is the part of the dice roller the battle engine needs.
// *dice.Roller satisfies it.
type Roller interface {
	Roll(expr dice.Expression) dice.RollResult
}

// Outcome is the result of a battle from the player's perspective.
type Outcome int

const (
	OutcomeWin Outcome = iota
	OutcomeLose
	OutcomeDraw
)

// String returns the outcome token.
func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "WIN"
	case OutcomeLose:
		return "LOSE"
	case OutcomeDraw:
		return "DRAW"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Invert returns the same outcome seen from the other side.
func (o Outcome) Invert() Outcome {
	switch o {
	case OutcomeWin:
		return OutcomeLose
	case OutcomeLose:
		return OutcomeWin
	default:
		return o
	}
}

// Turn records one attack.
type Turn struct {
	Number     int
	Attacker   string
	Defender   string
	Damage     int
	AttackerHP int
	DefenderHP int
	Critical   bool
	Message    string
}

// Result is the classified outcome of a battle plus its full turn log.
type Result struct {
	Outcome     Outcome
	Turns       []Turn
	PlayerHP    int
	OpponentHP  int
	PlayerFirst bool
}

// Invert returns r as the opponent would see it. The turn log is shared.
func (r Result) Invert() Result {
	return Result{
		Outcome:     r.Outcome.Invert(),
		Turns:       r.Turns,
		PlayerHP:    r.OpponentHP,
		OpponentHP:  r.PlayerHP,
		PlayerFirst: !r.PlayerFirst,
	}
}

// BaseDamage is max(1, strength - defense/3) with integer division.
func BaseDamage(attackerStrength, defenderDefense int) int {
	return max(1, attackerStrength-defenderDefense/3)
}

// CriticalDamage multiplies dmg by 1.5, truncating toward zero, and never returns less than 1.
func CriticalDamage(dmg int) int {
	return max(1, int(float64(dmg)*1.5))
}

// Classify decides the outcome from final hit points.
//
// Postcondition: both sides at or below zero is a draw; otherwise a side at zero
// loses; otherwise the higher remaining HP ratio wins and equal ratios draw.
func Classify(playerHP, playerMaxHP, opponentHP, opponentMaxHP int) Outcome {
	switch {
	case playerHP <= 0 && opponentHP <= 0:
		return OutcomeDraw
	case opponentHP <= 0:
		return OutcomeWin
	case playerHP <= 0:
		return OutcomeLose
	}
	// playerHP/playerMaxHP vs opponentHP/opponentMaxHP without floating point.
	lhs := int64(playerHP) * int64(opponentMaxHP)
	rhs := int64(opponentHP) * int64(playerMaxHP)
	switch {
	case lhs > rhs:
		return OutcomeWin
	case lhs < rhs:
		return OutcomeLose
	default:
		return OutcomeDraw
	}
}

type fighter struct {
	snap Snapshot
	hp   int
}

// Resolve runs a complete battle between player and opponent.
//
// The faster side attacks first; equal speeds are settled by a d2 (1 means the
// player). Each attack rolls a d100 and is critical when the roll is at most
// the attacker's speed. Attacks strictly alternate until one side reaches 0 HP
// or MaxTurns attacks have been made.
//
// Precondition: roller must be non-nil.
// Postcondition: len(result.Turns) <= MaxTurns; turns are numbered 1..N.
func Resolve(player, opponent Snapshot, roller Roller) Result {
	p := &fighter{snap: player, hp: player.MaxHP}
	o := &fighter{snap: opponent, hp: opponent.MaxHP}

	playerFirst := playerActsFirst(player, opponent, roller)
	attacker, defender := o, p
	if playerFirst {
		attacker, defender = p, o
	}

	var turns []Turn
	for n := 1; n <= MaxTurns && p.hp > 0 && o.hp > 0; n++ {
		dmg := BaseDamage(attacker.snap.Strength, defender.snap.Defense)
		crit := roller.Roll(critRoll).Total() <= attacker.snap.Speed
		if crit {
			dmg = CriticalDamage(dmg)
		}
		defender.hp = max(0, defender.hp-dmg)

		turns = append(turns, Turn{
			Number:     n,
			Attacker:   attacker.snap.Name,
			Defender:   defender.snap.Name,
			Damage:     dmg,
			AttackerHP: attacker.hp,
			DefenderHP: defender.hp,
			Critical:   crit,
			Message:    narrate(attacker.snap.Name, defender.snap.Name, dmg, crit),
		})
		attacker, defender = defender, attacker
	}

	return Result{
		Outcome:     Classify(p.hp, player.MaxHP, o.hp, opponent.MaxHP),
		Turns:       turns,
		PlayerHP:    p.hp,
		OpponentHP:  o.hp,
		PlayerFirst: playerFirst,
	}
}

func playerActsFirst(player, opponent Snapshot, roller Roller) bool {
	if player.Speed != opponent.Speed {
		return player.Speed > opponent.Speed
	}
	return roller.Roll(coinFlip).Total() == 1
}

func narrate(attacker, defender string, dmg int, crit bool) string {
	if crit {
		return fmt.Sprintf("%s lands a critical hit on %s for %d damage!", attacker, defender, dmg)
	}
	return fmt.Sprintf("%s attacks %s for %d damage.", attacker, defender, dmg)
}
