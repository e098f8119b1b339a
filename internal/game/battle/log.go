package battle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const turnFields = 8

// ErrInvalidLog is returned by Replay when a received turn log could not have
// been produced by Resolve for the given snapshots.
var ErrInvalidLog = errors.New("invalid battle log")

// EncodeTurn renders t as number|attacker|defender|damage|attackerHp|defenderHp|critical|message.
//
// Precondition: names contain no '|' and the message contains no newline.
func EncodeTurn(t Turn) string {
	return strings.Join([]string{
		strconv.Itoa(t.Number),
		t.Attacker,
		t.Defender,
		strconv.Itoa(t.Damage),
		strconv.Itoa(t.AttackerHP),
		strconv.Itoa(t.DefenderHP),
		strconv.FormatBool(t.Critical),
		t.Message,
	}, "|")
}

// DecodeTurn parses the output of EncodeTurn. The message is the remainder of
// the line and may itself contain '|'.
func DecodeTurn(raw string) (Turn, bool) {
	f := strings.SplitN(raw, "|", turnFields)
	if len(f) != turnFields {
		return Turn{}, false
	}
	var nums [4]int
	for i, idx := range []int{0, 3, 4, 5} {
		n, err := strconv.Atoi(f[idx])
		if err != nil {
			return Turn{}, false
		}
		nums[i] = n
	}
	crit, err := strconv.ParseBool(f[6])
	if err != nil {
		return Turn{}, false
	}
	return Turn{
		Number:     nums[0],
		Attacker:   f[1],
		Defender:   f[2],
		Damage:     nums[1],
		AttackerHP: nums[2],
		DefenderHP: nums[3],
		Critical:   crit,
		Message:    f[7],
	}, true
}

// EncodeLog renders turns one per line.
func EncodeLog(turns []Turn) string {
	lines := make([]string, len(turns))
	for i, t := range turns {
		lines[i] = EncodeTurn(t)
	}
	return strings.Join(lines, "\n")
}

// DecodeLog parses the output of EncodeLog. A blank log decodes to no turns.
func DecodeLog(raw string) ([]Turn, bool) {
	raw = strings.TrimRight(raw, "\r\n")
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	lines := strings.Split(raw, "\n")
	turns := make([]Turn, 0, len(lines))
	for _, line := range lines {
		t, ok := DecodeTurn(strings.TrimSuffix(line, "\r"))
		if !ok {
			return nil, false
		}
		turns = append(turns, t)
	}
	return turns, true
}

// Replay reconstructs the Result of a battle from a turn log produced by the
// authority's Resolve, without rolling any dice. The log is checked against
// the snapshots: numbering, strict alternation, damage arithmetic, HP
// bookkeeping and termination must all agree.
//
// When the log is empty and the speeds are equal, PlayerFirst cannot be
// recovered and is reported as false.
//
// Postcondition: returns an error wrapping ErrInvalidLog when the log is inconsistent.
func Replay(player, opponent Snapshot, turns []Turn) (Result, error) {
	if len(turns) > MaxTurns {
		return Result{}, fmt.Errorf("%w: %d turns exceeds limit of %d", ErrInvalidLog, len(turns), MaxTurns)
	}
	if len(turns) == 0 {
		return replayAs(player, opponent, turns, player.Speed > opponent.Speed)
	}

	var candidates []bool
	if turns[0].Attacker == player.Name {
		candidates = append(candidates, true)
	}
	if turns[0].Attacker == opponent.Name {
		candidates = append(candidates, false)
	}
	if len(candidates) == 0 {
		return Result{}, fmt.Errorf("%w: turn 1 attacker %q is neither combatant", ErrInvalidLog, turns[0].Attacker)
	}

	var err error
	for _, playerFirst := range candidates {
		var r Result
		if r, err = replayAs(player, opponent, turns, playerFirst); err == nil {
			return r, nil
		}
	}
	return Result{}, err
}

func replayAs(player, opponent Snapshot, turns []Turn, playerFirst bool) (Result, error) {
	if player.Speed != opponent.Speed && (player.Speed > opponent.Speed) != playerFirst {
		return Result{}, fmt.Errorf("%w: slower combatant attacked first", ErrInvalidLog)
	}

	p := &fighter{snap: player, hp: player.MaxHP}
	o := &fighter{snap: opponent, hp: opponent.MaxHP}
	attacker, defender := o, p
	if playerFirst {
		attacker, defender = p, o
	}

	for i, t := range turns {
		if p.hp <= 0 || o.hp <= 0 {
			return Result{}, fmt.Errorf("%w: turn %d recorded after the battle ended", ErrInvalidLog, t.Number)
		}
		if t.Number != i+1 {
			return Result{}, fmt.Errorf("%w: turn %d found at position %d", ErrInvalidLog, t.Number, i+1)
		}
		if t.Attacker != attacker.snap.Name || t.Defender != defender.snap.Name {
			return Result{}, fmt.Errorf("%w: turn %d out of order (%s -> %s)", ErrInvalidLog, t.Number, t.Attacker, t.Defender)
		}
		if t.Critical && attacker.snap.Speed <= 0 {
			return Result{}, fmt.Errorf("%w: turn %d critical with zero speed", ErrInvalidLog, t.Number)
		}
		if !t.Critical && attacker.snap.Speed >= 100 {
			return Result{}, fmt.Errorf("%w: turn %d not critical with speed %d", ErrInvalidLog, t.Number, attacker.snap.Speed)
		}
		want := BaseDamage(attacker.snap.Strength, defender.snap.Defense)
		if t.Critical {
			want = CriticalDamage(want)
		}
		if t.Damage != want {
			return Result{}, fmt.Errorf("%w: turn %d damage %d, expected %d", ErrInvalidLog, t.Number, t.Damage, want)
		}
		defender.hp = max(0, defender.hp-t.Damage)
		if t.AttackerHP != attacker.hp || t.DefenderHP != defender.hp {
			return Result{}, fmt.Errorf("%w: turn %d hit points %d/%d, expected %d/%d",
				ErrInvalidLog, t.Number, t.AttackerHP, t.DefenderHP, attacker.hp, defender.hp)
		}
		attacker, defender = defender, attacker
	}

	if len(turns) < MaxTurns && p.hp > 0 && o.hp > 0 {
		return Result{}, fmt.Errorf("%w: log ends after %d turns with both combatants standing", ErrInvalidLog, len(turns))
	}

	return Result{
		Outcome:     Classify(p.hp, player.MaxHP, o.hp, opponent.MaxHP),
		Turns:       turns,
		PlayerHP:    p.hp,
		OpponentHP:  o.hp,
		PlayerFirst: playerFirst,
	}, nil
}
