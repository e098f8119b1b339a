// Package sqlite provides a single-file SQLite creature store for local play.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/cory-johannsen/critter/internal/game/creature"
	"github.com/cory-johannsen/critter/internal/game/keeper"
	"github.com/cory-johannsen/critter/internal/storage/sqlite/migrations"
)

const creatureColumns = `
	id, name, kind, stage, path, form_id,
	strength, defense, speed, max_hp,
	current_hp, hunger, happiness, cleanliness, fatigue, sick, sleeping,
	feedings, plays, trainings, cleanings, heals, neglect_events, sick_events,
	battle_wins, battle_losses,
	active, created_at, last_cared_at, last_updated_at`

// Store persists creatures in SQLite. It satisfies keeper.Repository.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the SQLite database at path and applies the embedded migrations.
//
// Precondition: path must be non-blank.
// Postcondition: Returns a ready Store or a non-nil error.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Create inserts a new creature.
//
// Postcondition: Returns keeper.ErrCreatureExists when c.ID is already stored.
func (s *Store) Create(ctx context.Context, c creature.Creature) error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("creature id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO creatures (`+creatureColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		creatureArgs(c)...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return keeper.ErrCreatureExists
		}
		return fmt.Errorf("insert creature: %w", err)
	}
	return nil
}

// Get returns one creature by ID, or keeper.ErrCreatureNotFound.
func (s *Store) Get(ctx context.Context, id string) (creature.Creature, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+creatureColumns+` FROM creatures WHERE id = ?`, id)
	c, err := scanCreature(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return creature.Creature{}, keeper.ErrCreatureNotFound
		}
		return creature.Creature{}, fmt.Errorf("get creature: %w", err)
	}
	return c, nil
}

// Save overwrites every column of an existing creature.
//
// Postcondition: Returns keeper.ErrCreatureNotFound if no row was updated.
func (s *Store) Save(ctx context.Context, c creature.Creature) error {
	args := creatureArgs(c)
	res, err := s.sqlDB.ExecContext(ctx, `
		UPDATE creatures SET
			name = ?, kind = ?, stage = ?, path = ?, form_id = ?,
			strength = ?, defense = ?, speed = ?, max_hp = ?,
			current_hp = ?, hunger = ?, happiness = ?, cleanliness = ?, fatigue = ?, sick = ?, sleeping = ?,
			feedings = ?, plays = ?, trainings = ?, cleanings = ?, heals = ?, neglect_events = ?, sick_events = ?,
			battle_wins = ?, battle_losses = ?,
			active = ?, created_at = ?, last_cared_at = ?, last_updated_at = ?
		WHERE id = ?`,
		append(args[1:], args[0])...,
	)
	if err != nil {
		return fmt.Errorf("save creature: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save creature rows affected: %w", err)
	}
	if n == 0 {
		return keeper.ErrCreatureNotFound
	}
	return nil
}

// ListActive returns every active creature ordered by hatch time.
func (s *Store) ListActive(ctx context.Context) ([]creature.Creature, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+creatureColumns+` FROM creatures WHERE active = 1 ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list creatures: %w", err)
	}
	defer rows.Close()

	out := make([]creature.Creature, 0)
	for rows.Next() {
		c, err := scanCreature(rows)
		if err != nil {
			return nil, fmt.Errorf("scan creature: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate creatures: %w", err)
	}
	return out, nil
}

func creatureArgs(c creature.Creature) []any {
	return []any{
		c.ID, c.Name, c.Kind.String(), c.Stage.String(), c.Path.String(), c.FormID,
		c.Combat.Strength, c.Combat.Defense, c.Combat.Speed, c.Combat.MaxHP,
		c.Condition.CurrentHP, c.Condition.Hunger, c.Condition.Happiness,
		c.Condition.Cleanliness, c.Condition.Fatigue, c.Condition.Sick, c.Condition.Sleeping,
		c.History.Feedings, c.History.Plays, c.History.Trainings, c.History.Cleanings,
		c.History.Heals, c.History.NeglectEvents, c.History.SickEvents,
		c.History.BattleWins, c.History.BattleLosses,
		c.Active, toMillis(c.CreatedAt), toMillis(c.LastCaredAt), toMillis(c.LastUpdatedAt),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCreature(row rowScanner) (creature.Creature, error) {
	var (
		c                             creature.Creature
		kind, stage, path             string
		createdAt, caredAt, updatedAt int64
	)
	err := row.Scan(
		&c.ID, &c.Name, &kind, &stage, &path, &c.FormID,
		&c.Combat.Strength, &c.Combat.Defense, &c.Combat.Speed, &c.Combat.MaxHP,
		&c.Condition.CurrentHP, &c.Condition.Hunger, &c.Condition.Happiness,
		&c.Condition.Cleanliness, &c.Condition.Fatigue, &c.Condition.Sick, &c.Condition.Sleeping,
		&c.History.Feedings, &c.History.Plays, &c.History.Trainings, &c.History.Cleanings,
		&c.History.Heals, &c.History.NeglectEvents, &c.History.SickEvents,
		&c.History.BattleWins, &c.History.BattleLosses,
		&c.Active, &createdAt, &caredAt, &updatedAt,
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
	c.CreatedAt = fromMillis(createdAt)
	c.LastCaredAt = fromMillis(caredAt)
	c.LastUpdatedAt = fromMillis(updatedAt)
	return c, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
