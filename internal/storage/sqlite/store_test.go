package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/critter/internal/game/creature"
	"github.com/cory-johannsen/critter/internal/game/keeper"
)

var hatchedAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "critter.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func hatch(t require.TestingT, name string, kind creature.Kind, at time.Time) creature.Creature {
	c, err := creature.New(name, kind, at)
	require.NoError(t, err)
	return c
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "critter.db")
	first, err := Open(path)
	require.NoError(t, err)
	c := hatch(t, "Ember", creature.KindFlame, hatchedAt)
	require.NoError(t, first.Create(context.Background(), c))
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()
	got, err := second.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestCloseNilStore(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close())
}

func TestCreateAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	c := hatch(t, "Ripple", creature.KindAqua, hatchedAt)

	require.NoError(t, store.Create(ctx, c))
	got, err := store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestCreateDuplicate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	c := hatch(t, "Twin", creature.KindLeaf, hatchedAt)

	require.NoError(t, store.Create(ctx, c))
	assert.ErrorIs(t, store.Create(ctx, c), keeper.ErrCreatureExists)
}

func TestCreateRejectsOutOfRangeCondition(t *testing.T) {
	store := openTestStore(t)
	c := hatch(t, "Overfed", creature.KindFlame, hatchedAt)
	c.Condition.Hunger = 101
	err := store.Create(context.Background(), c)
	require.Error(t, err)
	assert.False(t, errors.Is(err, keeper.ErrCreatureExists))
}

func TestGetUnknown(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, keeper.ErrCreatureNotFound)
}

func TestSave(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	c := hatch(t, "Moss", creature.KindLeaf, hatchedAt)
	require.NoError(t, store.Create(ctx, c))

	c.Stage = creature.StageTeen
	c.Path = creature.PathSick
	c.FormID = creature.FormID(c.Kind, c.Stage, c.Path)
	c.Condition.Sick = true
	c.Condition.Sleeping = true
	c.Condition.Fatigue = 40
	c.History.SickEvents = 2
	c.History.BattleLosses = 1
	c.LastUpdatedAt = hatchedAt.Add(73 * time.Hour)
	require.NoError(t, store.Save(ctx, c))

	got, err := store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestSaveUnknown(t *testing.T) {
	store := openTestStore(t)
	c := hatch(t, "Ghost", creature.KindAqua, hatchedAt)
	assert.ErrorIs(t, store.Save(context.Background(), c), keeper.ErrCreatureNotFound)
}

func TestListActive(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	empty, err := store.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	second := hatch(t, "Second", creature.KindAqua, hatchedAt.Add(time.Hour))
	first := hatch(t, "First", creature.KindFlame, hatchedAt)
	released := hatch(t, "Released", creature.KindLeaf, hatchedAt.Add(30*time.Minute))
	for _, c := range []creature.Creature{second, first, released} {
		require.NoError(t, store.Create(ctx, c))
	}
	released.Active = false
	require.NoError(t, store.Save(ctx, released))

	active, err := store.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, second.ID, active[1].ID)
}

func TestMillisRoundTripTruncates(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 678_901_234, time.FixedZone("X", 3600))
	got := fromMillis(toMillis(at))
	assert.True(t, got.Equal(at.Truncate(time.Millisecond)))
	assert.Equal(t, time.UTC, got.Location())
}

// Property: any creature with in-range gauges survives a store round trip unchanged.
func TestPropertyRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rapid.Check(t, func(t *rapid.T) {
		kind := rapid.SampledFrom(creature.Kinds).Draw(t, "kind")
		stage := rapid.SampledFrom(creature.Stages).Draw(t, "stage")
		path := rapid.SampledFrom(creature.Paths).Draw(t, "path")
		offset := rapid.Int64Range(0, 90*24*3600*1000).Draw(t, "offset_ms")

		c := hatch(t, rapid.StringMatching(`[A-Za-z]{1,12}`).Draw(t, "name"), kind, hatchedAt)
		c.Stage, c.Path = stage, path
		c.FormID = creature.FormID(kind, stage, path)
		c.Condition.Hunger = rapid.IntRange(0, 100).Draw(t, "hunger")
		c.Condition.Happiness = rapid.IntRange(0, 100).Draw(t, "happiness")
		c.Condition.Cleanliness = rapid.IntRange(0, 100).Draw(t, "cleanliness")
		c.Condition.Fatigue = rapid.IntRange(0, 100).Draw(t, "fatigue")
		c.Condition.Sick = rapid.Bool().Draw(t, "sick")
		c.History.Plays = rapid.IntRange(0, 500).Draw(t, "plays")
		c.LastUpdatedAt = hatchedAt.Add(time.Duration(offset) * time.Millisecond)

		if err := store.Create(ctx, c); err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := store.Get(ctx, c.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !got.LastUpdatedAt.Equal(c.LastUpdatedAt) {
			t.Fatalf("LastUpdatedAt = %v, want %v", got.LastUpdatedAt, c.LastUpdatedAt)
		}
		got.LastUpdatedAt = c.LastUpdatedAt
		if got != c {
			t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, c)
		}
	})
}

func TestStoreBacksKeeper(t *testing.T) {
	var _ keeper.Repository = (*Store)(nil)
}
