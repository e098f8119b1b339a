package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationStatus reports where the schema ended up after a migration run.
type MigrationStatus struct {
	Version uint
	Dirty   bool
	// Changed is false when there was nothing to apply.
	Changed bool
}

// Migrate moves the schema at dsn using the golang-migrate files in dir.
// steps == 0 applies (or, with down, reverts) everything; otherwise exactly
// steps migrations are applied in the chosen direction.
//
// Precondition: steps >= 0.
// Postcondition: Returns the resulting status, or a non-nil error. Having
// nothing to do is not an error.
func Migrate(dsn, dir string, down bool, steps int) (MigrationStatus, error) {
	if steps < 0 {
		return MigrationStatus{}, fmt.Errorf("migration steps must be >= 0, got %d", steps)
	}
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	switch {
	case steps > 0 && down:
		err = m.Steps(-steps)
	case steps > 0:
		err = m.Steps(steps)
	case down:
		err = m.Down()
	default:
		err = m.Up()
	}
	status := MigrationStatus{Changed: err == nil}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return status, fmt.Errorf("applying migrations: %w", err)
	}

	status.Version, status.Dirty, err = m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return status, fmt.Errorf("reading schema version: %w", err)
	}
	return status, nil
}

// MigrateUp applies every pending migration in dir.
//
// Postcondition: Returns the schema version, or an error if the schema is left dirty.
func MigrateUp(dsn, dir string) (uint, error) {
	status, err := Migrate(dsn, dir, false, 0)
	if err != nil {
		return 0, err
	}
	if status.Dirty {
		return status.Version, fmt.Errorf("schema version %d is dirty", status.Version)
	}
	return status.Version, nil
}
