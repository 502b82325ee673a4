package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes the environment variables that supply flag defaults.
const EnvPrefix = "PLEXDASH_"

var (
	// dbPath is the path to the shared SQLite database.
	dbPath string

	// envFile is the dotenv file loaded before flags are resolved.
	envFile string

	// logLevel is the btclog level name.
	logLevel string

	// logDir enables the rotating log file when set.
	logDir string

	// migrate opens the database read-write and applies the schema.
	migrate bool
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "plexdash",
	Short: "Operations dashboard for the Plex playlist generator",
	Long: `plexdash renders the dashboard and setup pages of the playlist
generator from the database it shares with the generation service.

Every flag can also be set through a PLEXDASH_* environment variable, for
example --jobs-limit through PLEXDASH_JOBS_LIMIT. A .env file in the working
directory is loaded first.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvDefaults,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&dbPath, "db", "",
		"Path to SQLite database (default: ~/.plex-playlists/plex-playlists.db)",
	)
	rootCmd.PersistentFlags().BoolVar(
		&migrate, "migrate", false,
		"Create the database if missing and apply the schema "+
			"(default: open read-only)",
	)
	rootCmd.PersistentFlags().StringVar(
		&envFile, "env-file", ".env",
		"Dotenv file with PLEXDASH_* defaults",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "loglevel", "info",
		"Log level: trace, debug, info, warn, error, critical, off",
	)
	rootCmd.PersistentFlags().StringVar(
		&logDir, "logdir", "",
		"Directory for the rotating log file (disabled when empty)",
	)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadEnvDefaults loads the dotenv file and then fills every flag the user
// did not pass from its environment variable.
func loadEnvDefaults(cmd *cobra.Command, _ []string) error {
	if envFile != "" {
		// Existing environment variables win over the file.
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	return applyEnv(cmd.Flags())
}

// applyEnv sets unchanged flags from PLEXDASH_* variables.
func applyEnv(flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}

		value, ok := os.LookupEnv(envName(f.Name))
		if !ok {
			return
		}

		if err := flags.Set(f.Name, value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", envName(f.Name), err))
		}
	})

	return errors.Join(errs...)
}

// envName maps a flag name to its environment variable.
func envName(flag string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}
