package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dgallion1/docwheel/internal/config"
	"github.com/dgallion1/docwheel/internal/tui"
	"github.com/dgallion1/docwheel/internal/wheel"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	// flag values, applied over cfg when set
	store     string
	root      string
	sqlite    string
	parseMode string
	width     float64
	height    float64
	logFile   string

	closeLog func()
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "wheel [document]",
		Short:        "Sunburst view and editor for markdown headers",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		Example: strings.TrimSpace(`
  # Browse and edit a document interactively
  wheel notes.md

  # Print the header skeleton
  wheel outline notes.md

  # Render the wheel to SVG
  wheel svg notes.md -o notes.svg

  # Scripted edits
  wheel rename notes.md "Intro" "Overview"
  wheel add-child notes.md "Overview" "Goals"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := app.cfg.Document
			if len(args) == 1 {
				doc = args[0]
			}
			if doc == "" {
				return cmd.Help()
			}
			return runTUI(cmd.Context(), app, doc)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.closeLog != nil {
			app.closeLog()
		}
	}

	cmd.PersistentFlags().StringVar(&app.store, "store", "", "Document store (file|sqlite|pathstore)")
	cmd.PersistentFlags().StringVar(&app.root, "root", "", "Root directory for the file store")
	cmd.PersistentFlags().StringVar(&app.sqlite, "sqlite", "", "Database path for the sqlite store")
	cmd.PersistentFlags().StringVar(&app.parseMode, "parse-mode", "", "Header detection (lines|markdown)")
	cmd.PersistentFlags().Float64Var(&app.width, "width", 0, "Surface width for rendering")
	cmd.PersistentFlags().Float64Var(&app.height, "height", 0, "Surface height for rendering")
	cmd.PersistentFlags().StringVar(&app.logFile, "log-file", "", "Write logs to this file")

	cmd.AddCommand(newOutlineCmd(app))
	cmd.AddCommand(newSVGCmd(app))
	cmd.AddCommand(newEditCmd(app, "rename", "Rename a section", (*wheel.View).BeginRename))
	cmd.AddCommand(newEditCmd(app, "add-child", "Add a subsection as the section's first child", (*wheel.View).BeginInsertChild))
	cmd.AddCommand(newEditCmd(app, "add-sibling", "Add a section after the section's subtree", (*wheel.View).BeginInsertSibling))

	return cmd
}

// load builds the configuration and logger for a command run.
func (app *App) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store = app.store
	}
	if flags.Changed("root") {
		cfg.Root = app.root
	}
	if flags.Changed("sqlite") {
		cfg.SQLitePath = app.sqlite
	}
	if flags.Changed("parse-mode") {
		cfg.ParseMode = app.parseMode
	}
	if flags.Changed("width") && app.width > 0 {
		cfg.Width = app.width
	}
	if flags.Changed("height") && app.height > 0 {
		cfg.Height = app.height
	}
	if flags.Changed("log-file") {
		cfg.LogFile = app.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	app.cfg = cfg

	var w io.Writer = io.Discard
	app.closeLog = func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = f
		app.closeLog = func() { f.Close() }
	}
	app.log = slog.New(slog.NewTextHandler(w, nil))
	return nil
}

// openView connects the store and loads doc. The returned function releases
// the store.
func (app *App) openView(ctx context.Context, doc string) (*wheel.View, func(), error) {
	scanner, err := app.cfg.Scanner()
	if err != nil {
		return nil, nil, err
	}
	st, done, err := app.cfg.OpenStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	view := wheel.New(wheel.Config{
		Store:   st,
		Scanner: scanner,
		Options: app.cfg.Options(),
		Width:   app.cfg.Width,
		Height:  app.cfg.Height,
		Logger:  app.log.With("store", app.cfg.Store),
	})
	if err := view.Open(ctx, doc); err != nil {
		done()
		return nil, nil, err
	}
	return view, done, nil
}

func runTUI(ctx context.Context, app *App, doc string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal; see wheel --help for scriptable commands")
	}
	view, done, err := app.openView(ctx, doc)
	if err != nil {
		return err
	}
	defer done()
	return tui.Run(ctx, view, app.log)
}
