// Package care implements the decay and action engine: owner actions and
// elapsed-time drift applied to a creature value.
//
// Every function is pure. It takes a creature.Creature and returns the updated
// copy; bounded fields are clamped, never rejected.
package care

import (
	"fmt"
	"time"

	"github.com/cory-johannsen/critter/internal/game/creature"
)

const (
	feedHungerRelief = 30
	feedHPRestore    = 10

	playHappiness = 20
	playFatigue   = 10
	playHunger    = 5

	trainFatigue = 20
	trainHunger  = 10
)

// cared stamps an owner interaction.
func cared(c creature.Creature, now time.Time) creature.Creature {
	c.LastCaredAt = now
	c.LastUpdatedAt = now
	return c.Normalize()
}

// Feed lowers hunger by 30 and restores 10 HP.
//
// Postcondition: Hunger >= 0; CurrentHP <= MaxHP; Feedings incremented by 1.
func Feed(c creature.Creature, now time.Time) creature.Creature {
	c.Condition.Hunger -= feedHungerRelief
	c.Condition.CurrentHP += feedHPRestore
	c.History.Feedings++
	return cared(c, now)
}

// Play raises happiness by 20 at the cost of 10 fatigue and 5 hunger.
func Play(c creature.Creature, now time.Time) creature.Creature {
	c.Condition.Happiness += playHappiness
	c.Condition.Fatigue += playFatigue
	c.Condition.Hunger += playHunger
	c.History.Plays++
	return cared(c, now)
}

// Clean restores cleanliness to full.
func Clean(c creature.Creature, now time.Time) creature.Creature {
	c.Condition.Cleanliness = creature.StatMax
	c.History.Cleanings++
	return cared(c, now)
}

// Sleep puts the creature to bed.
func Sleep(c creature.Creature, now time.Time) creature.Creature {
	c.Condition.Sleeping = true
	return cared(c, now)
}

// Wake ends sleep and clears all fatigue.
func Wake(c creature.Creature, now time.Time) creature.Creature {
	c.Condition.Sleeping = false
	c.Condition.Fatigue = 0
	return cared(c, now)
}

func train(c creature.Creature, now time.Time, stat func(*creature.CombatStats) *int) creature.Creature {
	*stat(&c.Combat)++
	c.Condition.Fatigue += trainFatigue
	c.Condition.Hunger += trainHunger
	c.History.Trainings++
	return cared(c, now)
}

// TrainStrength raises strength by one.
func TrainStrength(c creature.Creature, now time.Time) creature.Creature {
	return train(c, now, func(s *creature.CombatStats) *int { return &s.Strength })
}

// TrainDefense raises defense by one.
func TrainDefense(c creature.Creature, now time.Time) creature.Creature {
	return train(c, now, func(s *creature.CombatStats) *int { return &s.Defense })
}

// TrainSpeed raises speed by one.
func TrainSpeed(c creature.Creature, now time.Time) creature.Creature {
	return train(c, now, func(s *creature.CombatStats) *int { return &s.Speed })
}

// Heal cures sickness and restores HP to full.
func Heal(c creature.Creature, now time.Time) creature.Creature {
	c.Condition.Sick = false
	c.Condition.CurrentHP = c.Combat.MaxHP
	c.History.Heals++
	return cared(c, now)
}

// Action names one discrete owner action.
type Action string

const (
	ActionFeed          Action = "feed"
	ActionPlay          Action = "play"
	ActionClean         Action = "clean"
	ActionSleep         Action = "sleep"
	ActionWake          Action = "wake"
	ActionTrainStrength Action = "train_strength"
	ActionTrainDefense  Action = "train_defense"
	ActionTrainSpeed    Action = "train_speed"
	ActionHeal          Action = "heal"
)

var actions = map[Action]func(creature.Creature, time.Time) creature.Creature{
	ActionFeed:          Feed,
	ActionPlay:          Play,
	ActionClean:         Clean,
	ActionSleep:         Sleep,
	ActionWake:          Wake,
	ActionTrainStrength: TrainStrength,
	ActionTrainDefense:  TrainDefense,
	ActionTrainSpeed:    TrainSpeed,
	ActionHeal:          Heal,
}

// ParseAction validates an action token.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := actions[a]; !ok {
		return "", fmt.Errorf("unknown care action %q", s)
	}
	return a, nil
}

// Apply dispatches action to its engine function.
//
// Precondition: action must come from ParseAction or be one of the Action constants.
// Postcondition: Returns the updated creature, or an error for an unknown action.
func Apply(c creature.Creature, action Action, now time.Time) (creature.Creature, error) {
	fn, ok := actions[action]
	if !ok {
		return c, fmt.Errorf("unknown care action %q", action)
	}
	return fn(c, now), nil
}
