package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roasbeef/plexdash/internal/build"
	"github.com/roasbeef/plexdash/internal/db"
	"github.com/roasbeef/plexdash/internal/snapshot"
)

// newLogger builds the process logger from the global flags.
func newLogger(console io.Writer) (*slog.Logger, func() error, error) {
	cfg := build.DefaultLogConfig()
	cfg.Level = logLevel
	cfg.LogDir = logDir
	cfg.Console = console

	return build.NewLogger(cfg)
}

// openStore opens the shared database and returns a snapshot store over it.
// The database is read-only unless --migrate is set. The returned closer
// releases the database.
func openStore(cfg snapshot.Config, log *slog.Logger) (*snapshot.Store,
	func() error, error) {

	path := dbPath
	if path == "" {
		var err error
		path, err = db.DefaultDBPath()
		if err != nil {
			return nil, nil, err
		}
	}

	sqliteStore, err := db.NewSqliteStore(&db.SqliteConfig{
		DatabaseFileName: path,
		Migrate:          migrate,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	return snapshot.NewStore(cfg, sqliteStore.DB(), log), sqliteStore.Close,
		nil
}
