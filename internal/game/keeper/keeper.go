// Package keeper is the service layer that owns stored creatures: it loads them,
// catches them up on elapsed time, routes owner actions and battles through the
// engines and persists the result.
package keeper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/critter/internal/game/battle"
	"github.com/cory-johannsen/critter/internal/game/care"
	"github.com/cory-johannsen/critter/internal/game/creature"
	"github.com/cory-johannsen/critter/internal/game/evolution"
)

// DecayQuantum is the smallest span of elapsed time the keeper hands to the decay
// engine. It is a multiple of every decay block size, so consuming time in
// quanta gives the same totals however often Tick is called.
const DecayQuantum = 120 * time.Minute

// ErrCreatureNotFound is returned when a creature lookup yields no results.
var ErrCreatureNotFound = errors.New("creature not found")

// ErrCreatureExists is returned when creating a creature whose ID is already stored.
var ErrCreatureExists = errors.New("creature already exists")

// ErrCreatureInactive is returned when acting on a released creature.
var ErrCreatureInactive = errors.New("creature is inactive")

// Repository persists creatures.
//
// Create returns ErrCreatureExists for a duplicate ID; Get and Save return
// ErrCreatureNotFound for an unknown ID.
type Repository interface {
	Create(ctx context.Context, c creature.Creature) error
	Get(ctx context.Context, id string) (creature.Creature, error)
	Save(ctx context.Context, c creature.Creature) error
	ListActive(ctx context.Context) ([]creature.Creature, error)
}

// Keeper serialises every operation on a creature behind a per-creature lock.
// Operations on different creatures run in parallel.
type Keeper struct {
	repo   Repository
	table  *evolution.Table
	engine *battle.Engine
	now    func() time.Time
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Keeper.
//
// Precondition: repo, table and engine must be non-nil.
// A nil clock defaults to time.Now; a nil logger disables logging.
func New(repo Repository, table *evolution.Table, engine *battle.Engine, clock func() time.Time, logger *zap.Logger) *Keeper {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Keeper{
		repo:   repo,
		table:  table,
		engine: engine,
		now:    clock,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (k *Keeper) lock(id string) func() {
	k.mu.Lock()
	l, ok := k.locks[id]
	if !ok {
		l = &sync.Mutex{}
		k.locks[id] = l
	}
	k.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// forget drops the lock for a released or unknown creature. The caller must hold that
// lock. A goroutine already waiting on it still gets it and sees the creature
// inactive, as does any later caller that allocates a fresh lock.
func (k *Keeper) forget(id string) {
	k.mu.Lock()
	delete(k.locks, id)
	k.mu.Unlock()
}

// Form returns the display metadata for c's current form, falling back to the
// (kind, stage, path) cell when c.FormID is not in the table.
func (k *Keeper) Form(c creature.Creature) evolution.Form {
	if f, ok := k.table.ByID(c.FormID); ok {
		return f
	}
	return k.table.Lookup(c.Kind, c.Stage, c.Path)
}

// Adopt hatches a new creature and stores it.
//
// Postcondition: Returns the stored creature, or an error from validation or storage.
func (k *Keeper) Adopt(ctx context.Context, name string, kind creature.Kind) (creature.Creature, error) {
	c, err := creature.New(name, kind, k.now())
	if err != nil {
		return creature.Creature{}, fmt.Errorf("hatching creature: %w", err)
	}
	if err := k.repo.Create(ctx, c); err != nil {
		return creature.Creature{}, fmt.Errorf("storing creature: %w", err)
	}
	k.logger.Info("creature adopted",
		zap.String("creature_id", c.ID),
		zap.String("name", c.Name),
		zap.Stringer("kind", c.Kind),
	)
	return c, nil
}

// Get returns the stored creature without advancing it.
func (k *Keeper) Get(ctx context.Context, id string) (creature.Creature, error) {
	c, err := k.repo.Get(ctx, id)
	if err != nil {
		return creature.Creature{}, fmt.Errorf("loading creature %s: %w", id, err)
	}
	return c, nil
}

// Act catches the creature up on elapsed time and then applies action.
//
// Postcondition: Returns ErrCreatureInactive for a released creature.
func (k *Keeper) Act(ctx context.Context, id string, action care.Action) (creature.Creature, error) {
	return k.update(ctx, id, func(c creature.Creature, now time.Time) (creature.Creature, error) {
		mark := c.LastUpdatedAt
		c, err := care.Apply(c, action, now)
		if err != nil {
			return c, err
		}
		// LastUpdatedAt tracks decay consumption; an action must not swallow a partial quantum.
		c.LastUpdatedAt = mark
		k.logger.Debug("care action applied",
			zap.String("creature_id", c.ID),
			zap.String("action", string(action)),
		)
		return c, nil
	})
}

// Tick applies the time that has passed since the creature was last advanced,
// then evolves it if it has come of age.
func (k *Keeper) Tick(ctx context.Context, id string) (creature.Creature, error) {
	return k.update(ctx, id, nil)
}

// TickAll ticks every active creature. Failures on one creature do not stop the others.
//
// Postcondition: Returns the joined errors of every failed tick, or nil.
func (k *Keeper) TickAll(ctx context.Context) error {
	active, err := k.repo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("listing active creatures: %w", err)
	}
	var errs []error
	for _, c := range active {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := k.Tick(ctx, c.ID); err != nil && !errors.Is(err, ErrCreatureInactive) {
			errs = append(errs, err)
		}
	}
	k.logger.Debug("ticked creatures", zap.Int("count", len(active)), zap.Int("failed", len(errs)))
	return errors.Join(errs...)
}

// Snapshot returns the battle view of the creature after catching it up.
func (k *Keeper) Snapshot(ctx context.Context, id string) (battle.Snapshot, error) {
	c, err := k.update(ctx, id, nil)
	if err != nil {
		return battle.Snapshot{}, err
	}
	return battle.FromCreature(c), nil
}

// Battle fights opponent as the authority and records the outcome on the creature.
// The returned Result's turn log is what the other side needs to replay.
func (k *Keeper) Battle(ctx context.Context, id string, opponent battle.Snapshot) (battle.Result, error) {
	var result battle.Result
	_, err := k.update(ctx, id, func(c creature.Creature, _ time.Time) (creature.Creature, error) {
		result = k.engine.Fight(battle.FromCreature(c), opponent)
		return recordOutcome(c, result.Outcome), nil
	})
	if err != nil {
		return battle.Result{}, err
	}
	return result, nil
}

// RecordRemoteBattle replays a turn log produced by another side's authority.
// self is the snapshot this creature sent to the authority, and authority is the
// snapshot of the creature that ran the battle. The returned Result is from this
// creature's point of view.
//
// Postcondition: Returns an error wrapping battle.ErrInvalidLog when the log does not verify.
func (k *Keeper) RecordRemoteBattle(ctx context.Context, id string, self, authority battle.Snapshot, log string) (battle.Result, error) {
	turns, ok := battle.DecodeLog(log)
	if !ok {
		return battle.Result{}, fmt.Errorf("decoding battle log: %w", battle.ErrInvalidLog)
	}
	replayed, err := battle.Replay(authority, self, turns)
	if err != nil {
		return battle.Result{}, fmt.Errorf("replaying battle log: %w", err)
	}
	result := replayed.Invert()

	_, err = k.update(ctx, id, func(c creature.Creature, _ time.Time) (creature.Creature, error) {
		k.logger.Info("remote battle recorded",
			zap.String("creature_id", c.ID),
			zap.String("opponent", authority.Name),
			zap.Stringer("outcome", result.Outcome),
			zap.Int("turns", len(result.Turns)),
		)
		return recordOutcome(c, result.Outcome), nil
	})
	if err != nil {
		return battle.Result{}, err
	}
	return result, nil
}

// Release retires the creature and drops its lock. Releasing an inactive
// creature is a no-op.
func (k *Keeper) Release(ctx context.Context, id string) (creature.Creature, error) {
	unlock := k.lock(id)
	defer unlock()

	c, err := k.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCreatureNotFound) {
			k.forget(id)
		}
		return creature.Creature{}, fmt.Errorf("loading creature %s: %w", id, err)
	}
	if !c.Active {
		k.forget(id)
		return c, nil
	}
	c.Active = false
	if err := k.repo.Save(ctx, c); err != nil {
		return creature.Creature{}, fmt.Errorf("saving creature %s: %w", id, err)
	}
	k.forget(id)
	k.logger.Info("creature released", zap.String("creature_id", id))
	return c, nil
}

// update loads, advances, optionally mutates and saves one creature under its lock.
func (k *Keeper) update(ctx context.Context, id string, fn func(creature.Creature, time.Time) (creature.Creature, error)) (creature.Creature, error) {
	unlock := k.lock(id)
	defer unlock()

	c, err := k.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCreatureNotFound) {
			k.forget(id)
		}
		return creature.Creature{}, fmt.Errorf("loading creature %s: %w", id, err)
	}
	if !c.Active {
		k.forget(id)
		return creature.Creature{}, fmt.Errorf("creature %s: %w", id, ErrCreatureInactive)
	}

	now := k.now()
	c = k.advance(c, now)
	if fn != nil {
		if c, err = fn(c, now); err != nil {
			return creature.Creature{}, err
		}
	}

	if err := k.repo.Save(ctx, c); err != nil {
		return creature.Creature{}, fmt.Errorf("saving creature %s: %w", id, err)
	}
	return c, nil
}

// advance consumes every whole DecayQuantum since LastUpdatedAt and evolves c if
// its age now warrants a later stage.
//
// Postcondition: now - c.LastUpdatedAt < DecayQuantum unless LastUpdatedAt is in the future.
func (k *Keeper) advance(c creature.Creature, now time.Time) creature.Creature {
	pending := now.Sub(c.LastUpdatedAt)
	if quanta := pending / DecayQuantum; quanta > 0 {
		consumed := quanta * DecayQuantum
		c = care.TimePassage(c, int(consumed/time.Minute), c.LastUpdatedAt.Add(consumed))
	}

	from := c.Stage
	c, evolved := k.table.Evolve(c, now)
	if evolved {
		k.logger.Info("creature evolved",
			zap.String("creature_id", c.ID),
			zap.Stringer("from", from),
			zap.Stringer("to", c.Stage),
			zap.Stringer("path", c.Path),
			zap.String("form", c.FormID),
		)
	}
	return c
}

func recordOutcome(c creature.Creature, o battle.Outcome) creature.Creature {
	switch o {
	case battle.OutcomeWin:
		c.History.BattleWins++
	case battle.OutcomeLose:
		c.History.BattleLosses++
	}
	return c
}
