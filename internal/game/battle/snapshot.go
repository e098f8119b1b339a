package battle

import (
	"strconv"
	"strings"

	"github.com/cory-johannsen/critter/internal/game/creature"
)

const snapshotFields = 9

// Snapshot is an immutable, transport-safe copy of a creature's combat-relevant attributes.
type Snapshot struct {
	Name     string
	Kind     creature.Kind
	Stage    creature.GrowthStage
	Path     creature.EvolutionPath
	Strength int
	Defense  int
	Speed    int
	MaxHP    int
	FormID   string
}

// FromCreature captures the combat view of c.
func FromCreature(c creature.Creature) Snapshot {
	return Snapshot{
		Name:     c.Name,
		Kind:     c.Kind,
		Stage:    c.Stage,
		Path:     c.Path,
		Strength: c.Combat.Strength,
		Defense:  c.Combat.Defense,
		Speed:    c.Combat.Speed,
		MaxHP:    c.Combat.MaxHP,
		FormID:   c.FormID,
	}
}

// Encode renders s as name|kind|stage|path|strength|defense|speed|maxHp|formId.
//
// Precondition: Name and FormID contain no '|' characters.
func (s Snapshot) Encode() string {
	return strings.Join([]string{
		s.Name,
		s.Kind.String(),
		s.Stage.String(),
		s.Path.String(),
		strconv.Itoa(s.Strength),
		strconv.Itoa(s.Defense),
		strconv.Itoa(s.Speed),
		strconv.Itoa(s.MaxHP),
		s.FormID,
	}, "|")
}

// Decode parses the output of Encode.
//
// Postcondition: ok is false when the field count is not nine, an enum token is
// unknown, or a numeric field is not an integer.
func Decode(raw string) (s Snapshot, ok bool) {
	f := strings.Split(raw, "|")
	if len(f) != snapshotFields {
		return Snapshot{}, false
	}

	kind, err := creature.ParseKind(f[1])
	if err != nil {
		return Snapshot{}, false
	}
	stage, err := creature.ParseGrowthStage(f[2])
	if err != nil {
		return Snapshot{}, false
	}
	path, err := creature.ParseEvolutionPath(f[3])
	if err != nil {
		return Snapshot{}, false
	}

	var nums [4]int
	for i := range nums {
		n, err := strconv.Atoi(f[4+i])
		if err != nil {
			return Snapshot{}, false
		}
		nums[i] = n
	}

	return Snapshot{
		Name:     f[0],
		Kind:     kind,
		Stage:    stage,
		Path:     path,
		Strength: nums[0],
		Defense:  nums[1],
		Speed:    nums[2],
		MaxHP:    nums[3],
		FormID:   f[8],
	}, true
}
