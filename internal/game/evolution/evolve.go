// Package evolution implements the evolution engine: age-gated stage advancement,
// care-history-driven path selection and the static form table.
package evolution

import (
	"time"

	"github.com/cory-johannsen/critter/internal/game/creature"
)

// Path selection thresholds.
const (
	neglectedMinEvents = 10
	sickMinEvents      = 5
	happyMinPlays      = 50
	strongMinTrainings = 30

	wiseMinFeedings  = 20
	wiseMinPlays     = 20
	wiseMinCleanings = 10
	wiseMaxNeglect   = 3
)

// CanEvolve reports whether the stage implied by c's age is strictly beyond its stored stage.
func CanEvolve(c creature.Creature, now time.Time) bool {
	return creature.StageForAge(c.Age(now)).Order() > c.Stage.Order()
}

// DetermineEvolutionPath picks the branch for the next evolution from care history.
// Rules are checked in a fixed priority order and the first match wins, so a
// neglected creature stays neglected no matter how much it was played with.
//
// PathAngry is never returned.
func DetermineEvolutionPath(h creature.CareHistory) creature.EvolutionPath {
	switch {
	case h.NeglectEvents >= neglectedMinEvents:
		return creature.PathNeglected
	case h.SickEvents >= sickMinEvents:
		return creature.PathSick
	case h.Plays >= happyMinPlays:
		return creature.PathHappy
	case h.Trainings >= strongMinTrainings:
		return creature.PathStrong
	case h.Feedings >= wiseMinFeedings &&
		h.Plays >= wiseMinPlays &&
		h.Cleanings >= wiseMinCleanings &&
		h.NeglectEvents < wiseMaxNeglect:
		return creature.PathWise
	default:
		return creature.PathNormal
	}
}

// Evolve advances c to the stage implied by its age, if that is beyond its current stage.
// The new form's modifiers are added on top of the current combat stats, so
// gains compound across stages, and the creature is fully healed.
//
// Postcondition: returns (c, false) unchanged when CanEvolve is false; otherwise
// the returned creature has a strictly greater stage order, FormID set and
// CurrentHP == MaxHP.
func (t *Table) Evolve(c creature.Creature, now time.Time) (creature.Creature, bool) {
	if !CanEvolve(c, now) {
		return c, false
	}

	stage := creature.StageForAge(c.Age(now))
	path := DetermineEvolutionPath(c.History)
	form := t.Lookup(c.Kind, stage, path)

	c.Stage = stage
	c.Path = path
	c.FormID = form.ID
	c.Combat = form.Modifiers.ApplyTo(c.Combat)
	c = c.Normalize()
	c.Condition.CurrentHP = c.Combat.MaxHP
	return c, true
}
