package db

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/httpfs"
	_ "github.com/mattn/go-sqlite3"
)

// ErrDatabaseNotFound is returned when a read-only open finds no database
// file at the configured path.
var ErrDatabaseNotFound = errors.New("database file not found")

// SqliteConfig holds the configuration for the shared SQLite database.
type SqliteConfig struct {
	// DatabaseFileName is the full path of the database file.
	DatabaseFileName string

	// Migrate opens the database read-write, creating it if needed, and
	// applies the embedded schema. Without it the file is opened
	// read-only and its schema is left to the generation service.
	Migrate bool
}

// DefaultDBPath returns the default path of the playlist database.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".plex-playlists", "plex-playlists.db"), nil
}

// SqliteStore is an open connection to the playlist database.
type SqliteStore struct {
	cfg *SqliteConfig
	db  *sql.DB
	log *slog.Logger
}

// NewSqliteStore opens the database described by cfg. The file is opened
// read-only unless cfg.Migrate is set, in which case the schema is brought up
// to date first.
func NewSqliteStore(cfg *SqliteConfig, log *slog.Logger) (*SqliteStore,
	error) {

	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "db")

	open := OpenSQLiteReadOnly
	if cfg.Migrate {
		open = OpenSQLite
	}

	db, err := open(cfg.DatabaseFileName)
	if err != nil {
		return nil, err
	}

	s := &SqliteStore{
		cfg: cfg,
		db:  db,
		log: log,
	}

	if cfg.Migrate {
		if err := s.ExecuteMigrations(); err != nil {
			db.Close()
			return nil, fmt.Errorf("error executing migrations: %w",
				err)
		}
	}

	return s, nil
}

// ExecuteMigrations applies every embedded migration newer than the current
// schema version.
func (s *SqliteStore) ExecuteMigrations(optFuncs ...MigrateOpt) error {
	opts := defaultMigrateOptions()
	for _, optFunc := range optFuncs {
		optFunc(opts)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("error creating sqlite migration: %w", err)
	}

	src, err := httpfs.New(http.FS(sqlSchemas), "migrations")
	if err != nil {
		return fmt.Errorf("error loading migrations: %w", err)
	}

	mig, err := migrate.NewWithInstance("httpfs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("error creating migrator: %w", err)
	}
	mig.Log = &migrationLogger{log: s.log}

	return migrateUp(mig, opts.latestVersion, s.log)
}

// DB returns the underlying database connection.
func (s *SqliteStore) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

// OpenSQLite opens a SQLite database connection for writing, creating the
// file and its directory when missing. WAL mode is enabled so readers in other
// processes are not blocked.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	// Ensure the directory exists.
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	return openDSN(fmt.Sprintf(
		"file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000",
		dbPath,
	))
}

// OpenSQLiteReadOnly opens an existing SQLite database without write access.
// The file, its journal mode and its schema are never modified.
func OpenSQLiteReadOnly(dbPath string) (*sql.DB, error) {
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		}

		return nil, fmt.Errorf("failed to stat database: %w", err)
	}

	return openDSN(fmt.Sprintf(
		"file:%s?mode=ro&_foreign_keys=on&_busy_timeout=5000", dbPath,
	))
}

func openDSN(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection: reads are short and serialized.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := configurePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	return db, nil
}

// configurePragmas sets additional SQLite pragmas.
func configurePragmas(db *sql.DB) error {
	pragmas := []string{
		// NORMAL is durable enough in WAL mode and inert when
		// read-only.
		"PRAGMA synchronous = NORMAL",

		// Negative value is in KiB: 16MB cache.
		"PRAGMA cache_size = -16384",

		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
