package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/critter/internal/game/creature"
	"github.com/cory-johannsen/critter/internal/game/keeper"
)

const creatureColumns = `
	id::text, name, kind, stage, path, form_id,
	strength, defense, speed, max_hp,
	current_hp, hunger, happiness, cleanliness, fatigue, sick, sleeping,
	feedings, plays, trainings, cleanings, heals, neglect_events, sick_events,
	battle_wins, battle_losses,
	active, created_at, last_cared_at, last_updated_at`

// CreatureRepository provides creature persistence operations.
// It satisfies keeper.Repository.
type CreatureRepository struct {
	db *pgxpool.Pool
}

// NewCreatureRepository creates a CreatureRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCreatureRepository(db *pgxpool.Pool) *CreatureRepository {
	return &CreatureRepository{db: db}
}

// Create inserts a new creature.
//
// Precondition: c.ID must be a UUID.
// Postcondition: Returns nil on success, or keeper.ErrCreatureExists on a duplicate ID.
func (r *CreatureRepository) Create(ctx context.Context, c creature.Creature) error {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return fmt.Errorf("parsing creature id %q: %w", c.ID, err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO creatures (
			id, name, kind, stage, path, form_id,
			strength, defense, speed, max_hp,
			current_hp, hunger, happiness, cleanliness, fatigue, sick, sleeping,
			feedings, plays, trainings, cleanings, heals, neglect_events, sick_events,
			battle_wins, battle_losses,
			active, created_at, last_cared_at, last_updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
		        $18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30)`,
		creatureArgs(id, c)...,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return keeper.ErrCreatureExists
		}
		return fmt.Errorf("inserting creature: %w", err)
	}
	return nil
}

// Get retrieves a creature by ID.
//
// Postcondition: Returns the Creature or keeper.ErrCreatureNotFound; an ID that
// is not a UUID cannot be stored and is reported as not found.
func (r *CreatureRepository) Get(ctx context.Context, id string) (creature.Creature, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return creature.Creature{}, keeper.ErrCreatureNotFound
	}
	c, err := scanCreature(r.db.QueryRow(ctx,
		`SELECT `+creatureColumns+` FROM creatures WHERE id = $1`, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return creature.Creature{}, keeper.ErrCreatureNotFound
		}
		return creature.Creature{}, fmt.Errorf("querying creature: %w", err)
	}
	return c, nil
}

// Save overwrites every mutable column of an existing creature.
//
// Postcondition: Returns nil on success, keeper.ErrCreatureNotFound if no row updated.
func (r *CreatureRepository) Save(ctx context.Context, c creature.Creature) error {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return keeper.ErrCreatureNotFound
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE creatures SET
			name = $2, kind = $3, stage = $4, path = $5, form_id = $6,
			strength = $7, defense = $8, speed = $9, max_hp = $10,
			current_hp = $11, hunger = $12, happiness = $13, cleanliness = $14,
			fatigue = $15, sick = $16, sleeping = $17,
			feedings = $18, plays = $19, trainings = $20, cleanings = $21, heals = $22,
			neglect_events = $23, sick_events = $24, battle_wins = $25, battle_losses = $26,
			active = $27, created_at = $28, last_cared_at = $29, last_updated_at = $30
		WHERE id = $1`,
		creatureArgs(id, c)...,
	)
	if err != nil {
		return fmt.Errorf("saving creature: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return keeper.ErrCreatureNotFound
	}
	return nil
}

// ListActive returns every active creature ordered by creation time.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CreatureRepository) ListActive(ctx context.Context) ([]creature.Creature, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+creatureColumns+` FROM creatures WHERE active ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing creatures: %w", err)
	}
	defer rows.Close()

	out := make([]creature.Creature, 0)
	for rows.Next() {
		c, err := scanCreature(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning creature row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func creatureArgs(id uuid.UUID, c creature.Creature) []any {
	return []any{
		id, c.Name, c.Kind.String(), c.Stage.String(), c.Path.String(), c.FormID,
		c.Combat.Strength, c.Combat.Defense, c.Combat.Speed, c.Combat.MaxHP,
		c.Condition.CurrentHP, c.Condition.Hunger, c.Condition.Happiness,
		c.Condition.Cleanliness, c.Condition.Fatigue, c.Condition.Sick, c.Condition.Sleeping,
		c.History.Feedings, c.History.Plays, c.History.Trainings, c.History.Cleanings,
		c.History.Heals, c.History.NeglectEvents, c.History.SickEvents,
		c.History.BattleWins, c.History.BattleLosses,
		c.Active, c.CreatedAt, c.LastCaredAt, c.LastUpdatedAt,
	}
}

func scanCreature(row pgx.Row) (creature.Creature, error) {
	var (
		c                 creature.Creature
		kind, stage, path string
	)
	err := row.Scan(
		&c.ID, &c.Name, &kind, &stage, &path, &c.FormID,
		&c.Combat.Strength, &c.Combat.Defense, &c.Combat.Speed, &c.Combat.MaxHP,
		&c.Condition.CurrentHP, &c.Condition.Hunger, &c.Condition.Happiness,
		&c.Condition.Cleanliness, &c.Condition.Fatigue, &c.Condition.Sick, &c.Condition.Sleeping,
		&c.History.Feedings, &c.History.Plays, &c.History.Trainings, &c.History.Cleanings,
		&c.History.Heals, &c.History.NeglectEvents, &c.History.SickEvents,
		&c.History.BattleWins, &c.History.BattleLosses,
		&c.Active, &c.CreatedAt, &c.LastCaredAt, &c.LastUpdatedAt,
	)
	if err != nil {
		return creature.Creature{}, err
	}
	if c.Kind, err = creature.ParseKind(kind); err != nil {
		return creature.Creature{}, err
	}
	if c.Stage, err = creature.ParseGrowthStage(stage); err != nil {
		return creature.Creature{}, err
	}
	if c.Path, err = creature.ParseEvolutionPath(path); err != nil {
		return creature.Creature{}, err
	}
	return c, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
