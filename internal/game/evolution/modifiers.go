package evolution

import "github.com/cory-johannsen/critter/internal/game/creature"

// StatModifiers holds signed deltas applied to combat stats on evolution.
type StatModifiers struct {
	Strength int
	Defense  int
	Speed    int
	MaxHP    int
}

// Add returns the field-wise sum of m and o.
func (m StatModifiers) Add(o StatModifiers) StatModifiers {
	return StatModifiers{
		Strength: m.Strength + o.Strength,
		Defense:  m.Defense + o.Defense,
		Speed:    m.Speed + o.Speed,
		MaxHP:    m.MaxHP + o.MaxHP,
	}
}

// ApplyTo returns stats with m added.
func (m StatModifiers) ApplyTo(stats creature.CombatStats) creature.CombatStats {
	stats.Strength += m.Strength
	stats.Defense += m.Defense
	stats.Speed += m.Speed
	stats.MaxHP += m.MaxHP
	return stats
}

// Saved creatures were evolved with these exact values; changing any of them
// breaks stat parity with existing data.
var (
	stageBaseline = map[creature.GrowthStage]StatModifiers{
		creature.StageBaby:  {0, 0, 0, 0},
		creature.StageChild: {5, 5, 5, 25},
		creature.StageTeen:  {10, 10, 10, 50},
		creature.StageAdult: {15, 15, 15, 75},
		creature.StageElder: {20, 20, 20, 100},
	}

	pathDelta = map[creature.EvolutionPath]StatModifiers{
		creature.PathNormal:    {0, 0, 0, 0},
		creature.PathHappy:     {2, 0, 4, 10},
		creature.PathStrong:    {6, 2, 2, 10},
		creature.PathWise:      {3, 3, 3, 20},
		creature.PathNeglected: {-3, -2, -3, -10},
		creature.PathSick:      {-2, -3, -2, -20},
		creature.PathAngry:     {4, -4, 0, -10},
	}

	kindFlavor = map[creature.Kind]StatModifiers{
		creature.KindFlame: {2, 0, 0, 0},
		creature.KindAqua:  {0, 2, 0, 5},
		creature.KindLeaf:  {0, 0, 2, 0},
	}
)

// CalculateModifiers returns the total modifier for a (kind, stage, path) cell:
// the stage baseline plus the path delta plus the kind flavor.
//
// Postcondition: unknown enum values contribute a zero delta.
func CalculateModifiers(k creature.Kind, s creature.GrowthStage, p creature.EvolutionPath) StatModifiers {
	return stageBaseline[s].Add(pathDelta[p]).Add(kindFlavor[k])
}
