package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roasbeef/plexdash/internal/snapshot"
	"github.com/roasbeef/plexdash/internal/web"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

var (
	// serveAddr is the HTTP listen address.
	serveAddr string

	// jobsLimit bounds the job runs shown on the dashboard.
	jobsLimit int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Serve the dashboard and the setup completion page. Every request
reads a fresh snapshot from the database, so the pages always reflect the
latest generation runs.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(
		&serveAddr, "addr", web.DefaultConfig().Addr,
		"HTTP listen address",
	)
	serveCmd.Flags().IntVar(
		&jobsLimit, "jobs-limit", snapshot.DefaultJobsLimit,
		"Number of recent job runs shown on the dashboard",
	)
}

// runServe runs the HTTP server until interrupted.
func runServe(cmd *cobra.Command, _ []string) error {
	log, closeLog, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	storeCfg := snapshot.DefaultConfig()
	storeCfg.JobsLimit = jobsLimit

	store, closeDB, err := openStore(storeCfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	composer, err := web.NewComposer()
	if err != nil {
		return err
	}

	cfg := web.DefaultConfig()
	cfg.Addr = serveAddr

	srv, err := web.NewServer(cfg, store, composer, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(
		cmd.Context(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err

	case <-ctx.Done():
		log.Info("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), shutdownTimeout,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return <-errChan
}
