// Package creature defines the creature aggregate and its pure creation logic.
package creature

import "time"

// StatMax is the upper bound of every 0-100 condition gauge.
const StatMax = 100

// CombatStats holds the battle-relevant attributes of a creature.
type CombatStats struct {
	Strength int
	Defense  int
	Speed    int
	MaxHP    int
}

// ConditionStats holds the moment-to-moment wellbeing of a creature.
//
// Invariant: Hunger, Happiness, Cleanliness and Fatigue are in [0, StatMax];
// CurrentHP is in [0, CombatStats.MaxHP].
type ConditionStats struct {
	CurrentHP   int
	Hunger      int
	Happiness   int
	Cleanliness int
	Fatigue     int
	Sick        bool
	Sleeping    bool
}

// CareHistory holds cumulative counters of owner actions and adverse events.
//
// Invariant: counters never decrease.
type CareHistory struct {
	Feedings      int
	Plays         int
	Trainings     int
	Cleanings     int
	Heals         int
	NeglectEvents int
	SickEvents    int
	BattleWins    int
	BattleLosses  int
}

// Creature is the aggregate root of the simulation.
//
// Creatures are plain values: every engine call returns a new Creature rather
// than mutating a shared one.
type Creature struct {
	ID   string
	Name string
	Kind Kind

	Stage  GrowthStage
	Path   EvolutionPath
	FormID string

	Combat    CombatStats
	Condition ConditionStats
	History   CareHistory

	Active bool

	CreatedAt     time.Time
	LastCaredAt   time.Time
	LastUpdatedAt time.Time
}

// Age returns the time elapsed since the creature hatched, never negative.
func (c Creature) Age(now time.Time) time.Duration {
	age := now.Sub(c.CreatedAt)
	if age < 0 {
		return 0
	}
	return age
}

// Clamp returns v bounded to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize re-establishes every bounded-field invariant.
//
// Postcondition: gauges are in [0, StatMax]; MaxHP >= 1; CurrentHP is in [0, MaxHP];
// combat stats are >= 0.
func (c Creature) Normalize() Creature {
	c.Combat.Strength = max(c.Combat.Strength, 0)
	c.Combat.Defense = max(c.Combat.Defense, 0)
	c.Combat.Speed = max(c.Combat.Speed, 0)
	c.Combat.MaxHP = max(c.Combat.MaxHP, 1)

	c.Condition.Hunger = Clamp(c.Condition.Hunger, 0, StatMax)
	c.Condition.Happiness = Clamp(c.Condition.Happiness, 0, StatMax)
	c.Condition.Cleanliness = Clamp(c.Condition.Cleanliness, 0, StatMax)
	c.Condition.Fatigue = Clamp(c.Condition.Fatigue, 0, StatMax)
	c.Condition.CurrentHP = Clamp(c.Condition.CurrentHP, 0, c.Combat.MaxHP)
	return c
}
