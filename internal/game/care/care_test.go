package care_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/critter/internal/game/care"
	"github.com/cory-johannsen/critter/internal/game/creature"
)

var epoch = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func hatch(t require.TestingT) creature.Creature {
	c, err := creature.New("Pip", creature.KindFlame, epoch)
	require.NoError(t, err)
	return c
}

func TestFeed_HungerFiftyScenario(t *testing.T) {
	c := hatch(t)
	c.Condition.Hunger = 50
	before := c.Condition.CurrentHP
	require.Equal(t, c.Combat.MaxHP, before)

	later := epoch.Add(time.Hour)
	got := care.Feed(c, later)

	assert.Equal(t, 20, got.Condition.Hunger)
	assert.Equal(t, before, got.Condition.CurrentHP)
	assert.Equal(t, c.History.Feedings+1, got.History.Feedings)
	assert.Equal(t, later, got.LastCaredAt)
}

func TestFeed_FloorsHungerAndRestoresHP(t *testing.T) {
	c := hatch(t)
	c.Condition.Hunger = 10
	c.Condition.CurrentHP = 50
	got := care.Feed(c, epoch)
	assert.Equal(t, 0, got.Condition.Hunger)
	assert.Equal(t, 60, got.Condition.CurrentHP)

	c.Condition.CurrentHP = c.Combat.MaxHP - 3
	got = care.Feed(c, epoch)
	assert.Equal(t, c.Combat.MaxHP, got.Condition.CurrentHP)
}

func TestFeed_DoesNotMutateInput(t *testing.T) {
	c := hatch(t)
	c.Condition.Hunger = 50
	_ = care.Feed(c, epoch)
	assert.Equal(t, 50, c.Condition.Hunger)
	assert.Equal(t, 0, c.History.Feedings)
}

func TestPlay(t *testing.T) {
	c := hatch(t)
	c.Condition.Happiness = 90
	c.Condition.Fatigue = 95
	c.Condition.Hunger = 40
	got := care.Play(c, epoch)
	assert.Equal(t, 100, got.Condition.Happiness)
	assert.Equal(t, 100, got.Condition.Fatigue)
	assert.Equal(t, 45, got.Condition.Hunger)
	assert.Equal(t, 1, got.History.Plays)
}

func TestClean(t *testing.T) {
	c := hatch(t)
	c.Condition.Cleanliness = 3
	got := care.Clean(c, epoch)
	assert.Equal(t, 100, got.Condition.Cleanliness)
	assert.Equal(t, 1, got.History.Cleanings)
}

func TestSleepWake(t *testing.T) {
	c := hatch(t)
	c.Condition.Fatigue = 70
	asleep := care.Sleep(c, epoch)
	assert.True(t, asleep.Condition.Sleeping)
	assert.Equal(t, 70, asleep.Condition.Fatigue)

	awake := care.Wake(asleep, epoch)
	assert.False(t, awake.Condition.Sleeping)
	assert.Equal(t, 0, awake.Condition.Fatigue)
}

func TestTraining(t *testing.T) {
	c := hatch(t)
	c.Condition.Hunger = 95
	c.Condition.Fatigue = 10

	s := care.TrainStrength(c, epoch)
	assert.Equal(t, c.Combat.Strength+1, s.Combat.Strength)
	assert.Equal(t, c.Combat.Defense, s.Combat.Defense)
	assert.Equal(t, 30, s.Condition.Fatigue)
	assert.Equal(t, 100, s.Condition.Hunger)
	assert.Equal(t, 1, s.History.Trainings)

	d := care.TrainDefense(c, epoch)
	assert.Equal(t, c.Combat.Defense+1, d.Combat.Defense)
	assert.Equal(t, c.Combat.Strength, d.Combat.Strength)

	sp := care.TrainSpeed(c, epoch)
	assert.Equal(t, c.Combat.Speed+1, sp.Combat.Speed)
	assert.Equal(t, 1, sp.History.Trainings)
}

func TestHeal(t *testing.T) {
	c := hatch(t)
	c.Condition.Sick = true
	c.Condition.CurrentHP = 1
	got := care.Heal(c, epoch)
	assert.False(t, got.Condition.Sick)
	assert.Equal(t, c.Combat.MaxHP, got.Condition.CurrentHP)
	assert.Equal(t, 1, got.History.Heals)
}

func TestApply_DispatchesEveryAction(t *testing.T) {
	for _, tok := range []string{"feed", "play", "clean", "sleep", "wake", "train_strength", "train_defense", "train_speed", "heal"} {
		a, err := care.ParseAction(tok)
		require.NoError(t, err, tok)
		later := epoch.Add(time.Minute)
		got, err := care.Apply(hatch(t), a, later)
		require.NoError(t, err, tok)
		assert.Equal(t, later, got.LastCaredAt, tok)
	}
	_, err := care.ParseAction("pet")
	assert.Error(t, err)
	_, err = care.Apply(hatch(t), care.Action("pet"), epoch)
	assert.Error(t, err)
}

func TestTimePassage_NinetyMinutesAwake(t *testing.T) {
	c := hatch(t)
	c.Condition.Hunger = 0
	later := epoch.Add(90 * time.Minute)
	got := care.TimePassage(c, 90, later)

	assert.Equal(t, 15, got.Condition.Hunger)
	assert.Equal(t, 97, got.Condition.Happiness)
	assert.Equal(t, 95, got.Condition.Cleanliness)
	assert.Equal(t, 0, got.Condition.Fatigue)
	assert.Equal(t, later, got.LastUpdatedAt)
	assert.Equal(t, epoch, got.LastCaredAt)
}

func TestTimePassage_Sleeping(t *testing.T) {
	c := hatch(t)
	c.Condition.Sleeping = true
	c.Condition.Fatigue = 40
	c.Condition.Hunger = 10

	got := care.TimePassage(c, 35, epoch)
	assert.Equal(t, 25, got.Condition.Fatigue) // three full 10-minute blocks
	assert.Equal(t, 10, got.Condition.Hunger)
	assert.Equal(t, 100, got.Condition.Happiness)

	got = care.TimePassage(c, 1000, epoch)
	assert.Equal(t, 0, got.Condition.Fatigue)
	assert.Equal(t, creature.CareHistory{}, got.History)
}

func TestTimePassage_StarvingCostsHPAndCausesSickness(t *testing.T) {
	c := hatch(t)
	c.Condition.Hunger = 95
	got := care.TimePassage(c, 30, epoch)

	assert.Equal(t, 100, got.Condition.Hunger)
	assert.Equal(t, c.Combat.MaxHP-5, got.Condition.CurrentHP)
	assert.True(t, got.Condition.Sick)
	assert.Equal(t, 1, got.History.SickEvents)
	assert.Equal(t, 1, got.History.NeglectEvents)

	again := care.TimePassage(got, 30, epoch)
	assert.Equal(t, 1, again.History.SickEvents, "already sick: no new sick event")
	assert.Equal(t, 2, again.History.NeglectEvents, "neglect tallies once per call")
}

func TestTimePassage_HungerNinetyDrainsHPWithoutSickness(t *testing.T) {
	c := hatch(t)
	c.Condition.Hunger = 85
	got := care.TimePassage(c, 30, epoch)
	assert.Equal(t, 90, got.Condition.Hunger)
	assert.Equal(t, c.Combat.MaxHP-5, got.Condition.CurrentHP)
	assert.False(t, got.Condition.Sick)
	assert.Equal(t, 0, got.History.NeglectEvents)
}

func TestTimePassage_FilthCausesSicknessAndNeglect(t *testing.T) {
	c := hatch(t)
	c.Condition.Cleanliness = 5
	got := care.TimePassage(c, 60, epoch)
	assert.Equal(t, 0, got.Condition.Cleanliness)
	assert.True(t, got.Condition.Sick)
	assert.Equal(t, 1, got.History.NeglectEvents)
}

func TestTimePassage_ExhaustedAndMiserable(t *testing.T) {
	c := hatch(t)
	c.Condition.Fatigue = 95
	c.Condition.Happiness = 23
	got := care.TimePassage(c, 120, epoch)
	assert.Equal(t, 100, got.Condition.Fatigue)
	assert.Equal(t, 17, got.Condition.Happiness)
	assert.True(t, got.Condition.Sick)
	assert.Equal(t, 1, got.History.SickEvents)
	assert.Equal(t, 0, got.History.NeglectEvents)
}

func TestTimePassage_ExhaustedButContentStaysHealthy(t *testing.T) {
	c := hatch(t)
	c.Condition.Fatigue = 100
	c.Condition.Happiness = 80
	got := care.TimePassage(c, 10, epoch)
	assert.False(t, got.Condition.Sick)
}

func TestTimePassage_ZeroElapsedStillAppliesThresholds(t *testing.T) {
	c := hatch(t)
	c.Condition.Hunger = 95
	got := care.TimePassage(c, 0, epoch)
	assert.Equal(t, 95, got.Condition.Hunger)
	assert.Equal(t, c.Combat.MaxHP-5, got.Condition.CurrentHP)
	assert.False(t, got.Condition.Sick)
	assert.Equal(t, 0, got.History.NeglectEvents)

	c.Condition.Hunger = creature.StatMax
	got = care.TimePassage(c, 0, epoch)
	assert.Equal(t, c.Combat.MaxHP-5, got.Condition.CurrentHP)
	assert.True(t, got.Condition.Sick)
	assert.Equal(t, 1, got.History.NeglectEvents)
	assert.Equal(t, 1, got.History.SickEvents)

	c.Condition.Sleeping = true
	got = care.TimePassage(c, 0, epoch)
	assert.Equal(t, c.Combat.MaxHP, got.Condition.CurrentHP, "sleeping creatures only recover")
	assert.Equal(t, 0, got.History.NeglectEvents)
}

func TestTimePassage_ZeroElapsedOnlyStamps(t *testing.T) {
	c := hatch(t)
	later := epoch.Add(time.Second)
	got := care.TimePassage(c, 0, later)
	c.LastUpdatedAt = later
	assert.Equal(t, c, got)
}

func TestElapsedMinutes(t *testing.T) {
	assert.Equal(t, 90, care.ElapsedMinutes(epoch, epoch.Add(90*time.Minute+59*time.Second)))
	assert.Equal(t, 0, care.ElapsedMinutes(epoch, epoch.Add(-time.Hour)))
	assert.Equal(t, 0, care.ElapsedMinutes(epoch, epoch))
}

func assertBounded(rt *rapid.T, c creature.Creature) {
	for _, v := range []int{c.Condition.Hunger, c.Condition.Happiness, c.Condition.Cleanliness, c.Condition.Fatigue} {
		assert.GreaterOrEqual(rt, v, 0)
		assert.LessOrEqual(rt, v, creature.StatMax)
	}
	assert.GreaterOrEqual(rt, c.Condition.CurrentHP, 0)
	assert.LessOrEqual(rt, c.Condition.CurrentHP, c.Combat.MaxHP)
}

func TestProperty_BoundedAfterAnySequence(t *testing.T) {
	all := []care.Action{
		care.ActionFeed, care.ActionPlay, care.ActionClean, care.ActionSleep, care.ActionWake,
		care.ActionTrainStrength, care.ActionTrainDefense, care.ActionTrainSpeed, care.ActionHeal,
	}
	rapid.Check(t, func(rt *rapid.T) {
		c := hatch(rt)
		c.Condition.Hunger = rapid.IntRange(0, 100).Draw(rt, "hunger")
		c.Condition.Happiness = rapid.IntRange(0, 100).Draw(rt, "happiness")
		c.Condition.Cleanliness = rapid.IntRange(0, 100).Draw(rt, "clean")
		c.Condition.Fatigue = rapid.IntRange(0, 100).Draw(rt, "fatigue")
		c.Condition.CurrentHP = rapid.IntRange(0, c.Combat.MaxHP).Draw(rt, "hp")
		c.Condition.Sleeping = rapid.Bool().Draw(rt, "sleeping")

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			prev := c.History
			if rapid.Bool().Draw(rt, "tick") {
				c = care.TimePassage(c, rapid.IntRange(0, 24*60).Draw(rt, "minutes"), epoch)
			} else {
				var err error
				c, err = care.Apply(c, rapid.SampledFrom(all).Draw(rt, "action"), epoch)
				require.NoError(rt, err)
			}
			assertBounded(rt, c)
			assert.GreaterOrEqual(rt, c.History.Feedings, prev.Feedings)
			assert.GreaterOrEqual(rt, c.History.NeglectEvents, prev.NeglectEvents)
			assert.GreaterOrEqual(rt, c.History.SickEvents, prev.SickEvents)
		}
	})
}

func TestProperty_AwakeHungerFollowsBlockFormula(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		minutes := rapid.IntRange(0, 600).Draw(rt, "minutes")
		c := hatch(rt)
		got := care.TimePassage(c, minutes, epoch)
		assert.Equal(rt, min((minutes/30)*5, 100), got.Condition.Hunger)
	})
}
