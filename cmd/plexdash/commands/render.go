package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roasbeef/plexdash/internal/snapshot"
	"github.com/roasbeef/plexdash/internal/viewmodel"
	"github.com/roasbeef/plexdash/internal/web"
)

const (
	renderDashboard = "dashboard"
	renderSetup     = "setup"
)

var (
	// renderOut is the file the page is written to. Empty means stdout.
	renderOut string

	// renderDemo renders built-in sample data instead of the database.
	renderDemo bool
)

var renderCmd = &cobra.Command{
	Use:   "render dashboard|setup",
	Short: "Render a single page to stdout or a file",
	Long: `Render the dashboard or the setup completion page once, exactly as
the server would, and write the HTML to stdout or the --out file.

Use --demo to render built-in sample data without a database.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{renderDashboard, renderSetup},
	RunE:      runRender,
}

func init() {
	renderCmd.Flags().StringVarP(
		&renderOut, "out", "o", "", "Write the page to this file",
	)
	renderCmd.Flags().BoolVar(
		&renderDemo, "demo", false, "Render sample data",
	)
}

// runRender renders one page.
func runRender(cmd *cobra.Command, args []string) error {
	log, closeLog, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	now := time.Now()

	var source snapshot.Source
	if renderDemo {
		source = demoSource(now)
	} else {
		store, closeDB, err := openStore(snapshot.DefaultConfig(), log)
		if err != nil {
			return err
		}
		defer closeDB()

		source = store
	}

	composer, err := web.NewComposer()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := renderPage(cmd, source, composer, args[0], now, &buf); err != nil {
		return err
	}

	if renderOut == "" {
		_, err := buf.WriteTo(cmd.OutOrStdout())
		return err
	}

	if err := os.WriteFile(renderOut, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", renderOut, err)
	}

	log.Info("Rendered page", "page", args[0], "out", renderOut,
		"bytes", buf.Len())

	return nil
}

func renderPage(cmd *cobra.Command, source snapshot.Source,
	composer *web.Composer, page string, now time.Time, w io.Writer) error {

	ctx := cmd.Context()

	switch page {
	case renderDashboard:
		snap, err := source.DashboardSnapshot(ctx, renderDashboard)
		if err != nil {
			return err
		}

		return composer.RenderDashboard(
			w, viewmodel.BuildDashboard(*snap, now),
		)

	case renderSetup:
		in, err := source.SetupInput(ctx)
		if err != nil {
			return err
		}

		return composer.RenderSetupComplete(
			w, viewmodel.BuildSetupComplete(*in),
		)

	default:
		return fmt.Errorf("unknown page %q", page)
	}
}
