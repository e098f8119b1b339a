package creature_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/critter/internal/game/creature"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestNew_AssignsKindBaseStats(t *testing.T) {
	for _, k := range creature.Kinds {
		c, err := creature.New("Pip", k, epoch)
		require.NoError(t, err)

		assert.Equal(t, k.BaseStats(), c.Combat)
		assert.Equal(t, c.Combat.MaxHP, c.Condition.CurrentHP)
		assert.Equal(t, creature.StageBaby, c.Stage)
		assert.Equal(t, creature.PathNormal, c.Path)
		assert.Equal(t, creature.FormID(k, creature.StageBaby, creature.PathNormal), c.FormID)
		assert.Equal(t, creature.CareHistory{}, c.History)
		assert.True(t, c.Active)
		assert.Equal(t, epoch, c.CreatedAt)
		assert.Equal(t, epoch, c.LastCaredAt)
		assert.Equal(t, epoch, c.LastUpdatedAt)
		_, err = uuid.Parse(c.ID)
		assert.NoError(t, err)
	}
}

func TestNew_KindsHaveDistinctBaseStats(t *testing.T) {
	seen := map[creature.CombatStats]bool{}
	for _, k := range creature.Kinds {
		seen[k.BaseStats()] = true
	}
	assert.Len(t, seen, len(creature.Kinds))
}

func TestNew_Errors(t *testing.T) {
	_, err := creature.New("   ", creature.KindFlame, epoch)
	assert.Error(t, err)
	_, err = creature.New("Pip", creature.Kind(99), epoch)
	assert.Error(t, err)
	for _, name := range []string{"Rex|Jr", "Rex\nJr", "Rex\rJr"} {
		_, err = creature.New(name, creature.KindAqua, epoch)
		assert.Error(t, err, "name %q", name)
	}
}

func TestFormID(t *testing.T) {
	assert.Equal(t, "flame_teen_happy", creature.FormID(creature.KindFlame, creature.StageTeen, creature.PathHappy))
	assert.Equal(t, "aqua_baby_normal", creature.FormID(creature.KindAqua, creature.StageBaby, creature.PathNormal))
}

func TestStageForAge(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want creature.GrowthStage
	}{
		{-time.Hour, creature.StageBaby},
		{0, creature.StageBaby},
		{23 * time.Hour, creature.StageBaby},
		{24 * time.Hour, creature.StageChild},
		{72 * time.Hour, creature.StageTeen},
		{7 * 24 * time.Hour, creature.StageAdult},
		{14 * 24 * time.Hour, creature.StageElder},
		{365 * 24 * time.Hour, creature.StageElder},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, creature.StageForAge(tc.age), "age=%s", tc.age)
	}
}

func TestStageForAge_Property_MonotonicInAge(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := time.Duration(rapid.Int64Range(0, int64(30*24*time.Hour)).Draw(rt, "a"))
		b := time.Duration(rapid.Int64Range(0, int64(30*24*time.Hour)).Draw(rt, "b"))
		if a > b {
			a, b = b, a
		}
		assert.LessOrEqual(rt, creature.StageForAge(a).Order(), creature.StageForAge(b).Order())
	})
}

func TestStages_OrderedByOrderAndMinAge(t *testing.T) {
	for i := 1; i < len(creature.Stages); i++ {
		prev, cur := creature.Stages[i-1], creature.Stages[i]
		assert.Greater(t, cur.Order(), prev.Order())
		assert.Greater(t, cur.MinAge(), prev.MinAge())
	}
}

func TestEnumTokens_RoundTrip(t *testing.T) {
	for _, k := range creature.Kinds {
		got, err := creature.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	for _, s := range creature.Stages {
		got, err := creature.ParseGrowthStage(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	for _, p := range creature.Paths {
		got, err := creature.ParseEvolutionPath(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := creature.ParseKind("flame")
	assert.Error(t, err)
	_, err = creature.ParseGrowthStage("")
	assert.Error(t, err)
	_, err = creature.ParseEvolutionPath("GRUMPY")
	assert.Error(t, err)
}

func TestEvolutionPath_Polarity(t *testing.T) {
	positive, negative := 0, 0
	for _, p := range creature.Paths {
		assert.False(t, p.IsPositive() && p.IsNegative(), p.String())
		if p.IsPositive() {
			positive++
		}
		if p.IsNegative() {
			negative++
		}
	}
	assert.Equal(t, 3, positive)
	assert.Equal(t, 3, negative)
	assert.False(t, creature.PathNormal.IsPositive() || creature.PathNormal.IsNegative())
}

func TestAge_NeverNegative(t *testing.T) {
	c, err := creature.New("Pip", creature.KindLeaf, epoch)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), c.Age(epoch.Add(-time.Hour)))
	assert.Equal(t, 3*time.Hour, c.Age(epoch.Add(3*time.Hour)))
}

func TestNormalize_Property_RestoresBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := creature.Creature{
			Combat: creature.CombatStats{
				Strength: rapid.IntRange(-50, 50).Draw(rt, "str"),
				Defense:  rapid.IntRange(-50, 50).Draw(rt, "def"),
				Speed:    rapid.IntRange(-50, 50).Draw(rt, "spd"),
				MaxHP:    rapid.IntRange(-50, 500).Draw(rt, "maxhp"),
			},
			Condition: creature.ConditionStats{
				CurrentHP:   rapid.IntRange(-500, 1000).Draw(rt, "hp"),
				Hunger:      rapid.IntRange(-500, 500).Draw(rt, "hunger"),
				Happiness:   rapid.IntRange(-500, 500).Draw(rt, "happiness"),
				Cleanliness: rapid.IntRange(-500, 500).Draw(rt, "clean"),
				Fatigue:     rapid.IntRange(-500, 500).Draw(rt, "fatigue"),
			},
		}.Normalize()

		assert.GreaterOrEqual(rt, c.Combat.MaxHP, 1)
		assert.GreaterOrEqual(rt, c.Combat.Strength, 0)
		for _, v := range []int{c.Condition.Hunger, c.Condition.Happiness, c.Condition.Cleanliness, c.Condition.Fatigue} {
			assert.GreaterOrEqual(rt, v, 0)
			assert.LessOrEqual(rt, v, creature.StatMax)
		}
		assert.GreaterOrEqual(rt, c.Condition.CurrentHP, 0)
		assert.LessOrEqual(rt, c.Condition.CurrentHP, c.Combat.MaxHP)
	})
}
