package db

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
)

// LatestMigrationVersion is the newest schema version known to this binary.
// Databases at a higher version are refused.
//
// NOTE: This MUST be updated when a new migration is added.
const LatestMigrationVersion uint = 1

var (
	// ErrMigrationDowngrade is returned when the database was created by
	// a newer schema than this binary knows about.
	ErrMigrationDowngrade = errors.New("database downgrade detected")

	// ErrDirtySchema is returned when an earlier migration stopped part
	// way and the schema needs manual repair.
	ErrDirtySchema = errors.New("database schema is dirty")
)

type migrateOptions struct {
	latestVersion uint
}

func defaultMigrateOptions() *migrateOptions {
	return &migrateOptions{
		latestVersion: LatestMigrationVersion,
	}
}

// MigrateOpt modifies migration behavior.
type MigrateOpt func(*migrateOptions)

// WithLatestVersion overrides the newest version considered known.
func WithLatestVersion(version uint) MigrateOpt {
	return func(o *migrateOptions) {
		o.latestVersion = version
	}
}

// migrationLogger routes migrate's progress output to debug logs.
type migrationLogger struct {
	log *slog.Logger
}

func (m *migrationLogger) Printf(format string, v ...any) {
	m.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (m *migrationLogger) Verbose() bool {
	return false
}

// A compile time check to ensure migrationLogger implements migrate.Logger.
var _ migrate.Logger = (*migrationLogger)(nil)

// migrateUp moves the schema forward to the newest embedded version. It only
// ever migrates up: a dirty schema or one newer than latest is an error and
// nothing is applied.
func migrateUp(mig *migrate.Migrate, latest uint, log *slog.Logger) error {
	from, dirty, err := mig.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		from = 0

	case err != nil:
		return fmt.Errorf("unable to read schema version: %w", err)

	case dirty:
		return fmt.Errorf("%w: stopped at version %d", ErrDirtySchema,
			from)

	case from > latest:
		return fmt.Errorf("%w: schema version %d is newer than %d",
			ErrMigrationDowngrade, from, latest)
	}

	err = mig.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Debug("Schema up to date", "version", from)
		return nil

	case err != nil:
		return fmt.Errorf("migrating from version %d: %w", from, err)
	}

	to, _, err := mig.Version()
	if err != nil {
		return fmt.Errorf("unable to read schema version: %w", err)
	}
	log.Info("Applied schema migrations", "from_version", from,
		"to_version", to)

	return nil
}
