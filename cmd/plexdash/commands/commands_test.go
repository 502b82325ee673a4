package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/roasbeef/plexdash/internal/db"
)

// execute runs the root command with fresh flag values and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dbPath, envFile, logLevel, logDir = "", ".env", "info", ""
	migrate = false
	renderOut, renderDemo = "", false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return stdout.String(), err
}

// TestRenderDemoToFile verifies the demo dashboard is written to --out.
func TestRenderDemoToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dashboard.html")

	_, err := execute(t, "render", "dashboard", "--demo", "--out", out)
	require.NoError(t, err)

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(html), `action="/actions/generate/jazz"`)
	require.Contains(t, string(html), "View all 10 genre playlists")
	require.Contains(t, string(html), "status-badge status-running")
}

// TestRenderSetupFromDatabase verifies rendering against an empty database
// falls back to the default schedule. Only the first run creates the schema,
// the second reads the existing file read-only.
func TestRenderSetupFromDatabase(t *testing.T) {
	dbFile := filepath.Join(t.TempDir(), "plex.db")

	stdout, err := execute(t, "render", "setup", "--db", dbFile, "--migrate")
	require.NoError(t, err)
	require.Contains(t, stdout, "Setup Complete!")
	require.Contains(t, stdout, "5:00 AM daily")

	stdout, err = execute(t, "render", "dashboard", "--db", dbFile)
	require.NoError(t, err)
	require.Contains(t, stdout, "empty-playlists")
	require.Contains(t, stdout, "setup-banner")
}

// TestRenderMissingDatabase verifies a plain render never creates the
// database file.
func TestRenderMissingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plex.db")

	_, err := execute(t, "render", "setup", "--db", path)
	require.ErrorIs(t, err, db.ErrDatabaseNotFound)
	require.NoFileExists(t, path)
}

// TestRenderRejectsUnknownPage verifies argument validation.
func TestRenderRejectsUnknownPage(t *testing.T) {
	_, err := execute(t, "render", "playlists", "--demo")
	require.Error(t, err)
}

// TestVersionCommand verifies the version line.
func TestVersionCommand(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "plexdash version 0.1.0"))
}

// TestApplyEnv verifies environment variables fill only unset flags.
func TestApplyEnv(t *testing.T) {
	t.Setenv("PLEXDASH_ADDR", ":9999")
	t.Setenv("PLEXDASH_JOBS_LIMIT", "25")
	t.Setenv("PLEXDASH_LOGLEVEL", "debug")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addr := flags.String("addr", ":8080", "")
	limit := flags.Int("jobs-limit", 10, "")
	level := flags.String("loglevel", "info", "")
	require.NoError(t, flags.Parse([]string{"--loglevel", "warn"}))

	require.NoError(t, applyEnv(flags))
	require.Equal(t, ":9999", *addr)
	require.Equal(t, 25, *limit)
	require.Equal(t, "warn", *level)

	t.Setenv("PLEXDASH_JOBS_LIMIT", "many")
	flags = pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("jobs-limit", 10, "")
	require.ErrorContains(t, applyEnv(flags), "PLEXDASH_JOBS_LIMIT")
}

// TestEnvName verifies the flag to variable mapping.
func TestEnvName(t *testing.T) {
	require.Equal(t, "PLEXDASH_JOBS_LIMIT", envName("jobs-limit"))
	require.Equal(t, "PLEXDASH_DB", envName("db"))
	require.Equal(t, "PLEXDASH_MIGRATE", envName("migrate"))
}
