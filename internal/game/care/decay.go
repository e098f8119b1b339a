package care

import (
	"time"

	"github.com/cory-johannsen/critter/internal/game/creature"
)

// Awake drift: each rate applies once per full block of elapsed minutes.
const (
	hungerBlockMinutes = 30
	hungerPerBlock     = 5

	happinessBlockMinutes = 60
	happinessPerBlock     = 3

	cleanlinessBlockMinutes = 60
	cleanlinessPerBlock     = 5

	fatigueBlockMinutes = 120
	fatiguePerBlock     = 5

	starvingHunger = 90
	starvingHPLoss = 5

	miserableHappiness = 20
)

// Sleeping recovery.
const (
	restBlockMinutes = 10
	restPerBlock     = 5
)

// TimePassage applies elapsedMinutes of drift to c.
//
// A sleeping creature only recovers fatigue. An awake creature gets hungrier,
// sadder, dirtier and more tired; starving costs HP; sickness may set in; and a
// neglect event is tallied once per call while hunger is maxed or cleanliness is zero.
// The threshold checks run even when no full block has elapsed, so a zero-minute
// call on a starving creature still drains HP and tallies neglect.
//
// Precondition: elapsedMinutes >= 0; negative values are treated as zero.
// Postcondition: bounded fields are clamped; LastUpdatedAt == now; LastCaredAt is unchanged.
func TimePassage(c creature.Creature, elapsedMinutes int, now time.Time) creature.Creature {
	c.LastUpdatedAt = now
	elapsedMinutes = max(elapsedMinutes, 0)

	cond := &c.Condition
	if cond.Sleeping {
		cond.Fatigue -= (elapsedMinutes / restBlockMinutes) * restPerBlock
		return c.Normalize()
	}

	cond.Hunger += (elapsedMinutes / hungerBlockMinutes) * hungerPerBlock
	cond.Happiness -= (elapsedMinutes / happinessBlockMinutes) * happinessPerBlock
	cond.Cleanliness -= (elapsedMinutes / cleanlinessBlockMinutes) * cleanlinessPerBlock
	cond.Fatigue += (elapsedMinutes / fatigueBlockMinutes) * fatiguePerBlock
	c = c.Normalize()
	cond = &c.Condition

	if cond.Hunger >= starvingHunger {
		cond.CurrentHP = max(cond.CurrentHP-starvingHPLoss, 0)
	}

	starving := cond.Hunger == creature.StatMax
	filthy := cond.Cleanliness == 0
	exhausted := cond.Fatigue == creature.StatMax && cond.Happiness <= miserableHappiness

	if !cond.Sick && (starving || filthy || exhausted) {
		cond.Sick = true
		c.History.SickEvents++
	}
	if starving || filthy {
		c.History.NeglectEvents++
	}
	return c
}

// ElapsedMinutes returns the whole minutes between from and to, or zero when
// to precedes from.
func ElapsedMinutes(from, to time.Time) int {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}
