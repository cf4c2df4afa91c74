package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/config"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/fallback"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/format"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/logging"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/remote"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/session"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/store"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/tabular"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/tui"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigDir   string
	SheetURL    string
	FallbackCSV string
	LogLevel    string
	LogStderr   bool
	PrettyJSON  bool
	Format      string

	cfg       *config.Config
	log       *logrus.Logger
	logCloser io.Closer

	// newSyncer builds the spreadsheet client. Tests replace it.
	newSyncer func(cfg *config.Config, log logrus.FieldLogger) session.Syncer
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	if app.newSyncer == nil {
		app.newSyncer = func(cfg *config.Config, log logrus.FieldLogger) session.Syncer {
			return remote.NewClient(cfg.HTTPTimeout, log)
		}
	}

	cmd := &cobra.Command{
		Use:          "maklumat",
		Short:        "SK Sri Aman staff records: editor, CSV export and spreadsheet sync",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive editor
  maklumat

  # Scriptable commands
  maklumat roster list --format table
  maklumat show 840110-07-5583
  maklumat set 840110-07-5583 NO_TEL=012-3456789 GRED=DG48

  # Direct lookup (shortcut for: maklumat show <ic>)
  maklumat 840110075583
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := app.setup(cmd); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		app.close()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr(config.EnvConfigDir, ""), "State directory for the settings database and log (default ~/.maklumat)")
	cmd.PersistentFlags().StringVar(&app.SheetURL, "sheet-url", "", "Spreadsheet web app URL used when none is stored (default: built-in school sheet)")
	cmd.PersistentFlags().StringVar(&app.FallbackCSV, "fallback-csv", "", "CSV roster used when the spreadsheet is unreachable (default: built-in snapshot)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.LogStderr, "log-stderr", false, "Log to stderr instead of the log file")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr(config.EnvFormat, "json"), "Output format (json|table)")

	cmd.AddCommand(newRosterCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newSetCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newRemoteCmd(app))
	cmd.AddCommand(newCSVCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// setup resolves configuration (env, .env files, then flags) and opens the logger.
func (app *App) setup(cmd *cobra.Command) error {
	app.close()
	if d := strings.TrimSpace(app.ConfigDir); d != "" {
		if err := os.Setenv(config.EnvConfigDir, d); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v := strings.TrimSpace(app.SheetURL); v != "" {
		cfg.SheetURL = v
	}
	if v := strings.TrimSpace(app.FallbackCSV); v != "" {
		cfg.FallbackCSV = v
	}
	if v := strings.TrimSpace(app.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	cfg.Format = strings.TrimSpace(app.Format)
	if err := cfg.Validate(); err != nil {
		return err
	}
	app.cfg = cfg

	if app.LogStderr || cmd.Name() == "serve" {
		app.log = logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
		return nil
	}
	if err := (store.Store{Dir: cfg.Dir}).Ensure(); err != nil {
		return err
	}
	log, closer, err := logging.OpenFile(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	app.log, app.logCloser = log, closer
	return nil
}

func (app *App) close() {
	if app.logCloser != nil {
		_ = app.logCloser.Close()
		app.logCloser = nil
	}
}

// controller builds a session controller over the configured spreadsheet, settings
// database and fallback roster. It does not load anything yet.
func (app *App) controller() (*session.Controller, error) {
	fb, err := fallback.Load(app.cfg.FallbackCSV)
	if err != nil {
		return nil, err
	}
	return session.New(session.Options{
		Syncer:          app.newSyncer(app.cfg, app.log),
		Settings:        store.NewSQLiteSettings(app.cfg.Dir),
		Fallback:        fb,
		DefaultEndpoint: app.cfg.SheetURL,
		Logger:          app.log,
	}), nil
}

// startController is controller followed by a blocking Start. Connectivity failures are
// reported on stderr but are not fatal: the command goes on with the fallback roster.
func (app *App) startController(cmd *cobra.Command) (*session.Controller, session.LoadReport, error) {
	ctl, err := app.controller()
	if err != nil {
		return nil, session.LoadReport{}, err
	}
	rep := ctl.Start(contextOf(cmd))
	if rep.Failed() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: spreadsheet unavailable, using %s data: %v\n", ctl.Source(), rep.Err)
	}
	return ctl, rep, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctl, err := app.controller()
	if err != nil {
		return writeErr(cmd, err)
	}
	ctx := contextOf(cmd)
	warnings := ctl.Prepare(ctx)
	dir, _ := os.Getwd()
	return tui.Run(ctx, tui.Options{
		Controller: ctl,
		ExportDir:  dir,
		Logger:     app.log,
		Warnings:   warnings,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func warningsOrEmpty(ws []tabular.Warning) []tabular.Warning {
	if ws == nil {
		return []tabular.Warning{}
	}
	return ws
}
