// workboard is a terminal kanban board for small teams. Boards are loaded
// from a YAML seed file (or the built-in demo board) and user preferences
// are kept in a local SQLite database.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/nhle/workboard/internal/app"
	"github.com/nhle/workboard/internal/board"
	"github.com/nhle/workboard/internal/model"
	"github.com/nhle/workboard/internal/seed"
	"github.com/nhle/workboard/internal/settings"
	"github.com/nhle/workboard/internal/store"
	"github.com/nhle/workboard/internal/theme"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath string
	dbPath     string
	seedPath   string
	theme      string
	logLevel   string
	logOutput  string
	debug      bool
	saveConfig bool
}

func run() error {
	var f flags

	flagSet := pflag.NewFlagSet("workboard", pflag.ContinueOnError)
	flagSet.StringVar(&f.configPath, "config", model.DefaultConfigPath(), "path to the YAML config file")
	flagSet.StringVar(&f.dbPath, "db", "", "path to the settings database (overrides storage.path)")
	flagSet.StringVar(&f.seedPath, "seed", "", "YAML file with boards to load (default: built-in demo board)")
	flagSet.StringVar(&f.theme, "theme", "", "color theme: light, dark or auto")
	flagSet.StringVar(&f.logLevel, "log-level", "", "log level (overrides log.level)")
	flagSet.StringVar(&f.logOutput, "log-output", "", "file to write JSON log records to (overrides log.output)")
	flagSet.BoolVar(&f.debug, "debug", false, "shorthand for --log-level=debug")
	flagSet.BoolVar(&f.saveConfig, "save-config", false, "write the effective configuration to --config and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := model.LoadConfig(f.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, f); err != nil {
		return err
	}
	if f.saveConfig {
		return saveConfig(os.Stdout, f.configPath, cfg)
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	db, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := settings.NewService(db, logger)
	if err := applyTheme(context.Background(), svc, model.Theme(cfg.Display.Theme)); err != nil {
		return err
	}

	boards, err := loadBoards(cfg.Seed.Path)
	if err != nil {
		return err
	}
	ws, err := board.NewWorkspace(boards, board.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("building workspace: %w", err)
	}

	m, err := app.New(ws, svc, logger)
	if err != nil {
		return err
	}

	logger.WithFields(log.Fields{
		"boards": ws.Len(),
		"db":     cfg.Storage.Path,
		"seed":   cfg.Seed.Path,
	}).Info("starting workboard")

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func applyFlags(cfg *model.AppConfig, f flags) error {
	if f.dbPath != "" {
		cfg.Storage.Path = f.dbPath
	}
	if f.seedPath != "" {
		cfg.Seed.Path = f.seedPath
	}
	if f.theme != "" {
		if !model.Theme(f.theme).Valid() {
			return fmt.Errorf("unknown theme %q (want light, dark or auto)", f.theme)
		}
		cfg.Display.Theme = f.theme
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.debug {
		cfg.Log.Level = log.DebugLevel.String()
	}
	if f.logOutput != "" {
		cfg.Log.Output = f.logOutput
	}
	return nil
}

// saveConfig writes cfg, flag overrides included, so that later runs pick
// them up without the flags.
func saveConfig(out io.Writer, path string, cfg *model.AppConfig) error {
	if err := model.SaveConfig(path, cfg); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "wrote %s\n", path)
	return err
}

// newLogger writes JSON records to cfg.Output. The terminal belongs to the
// UI, so an empty output discards logs.
func newLogger(cfg model.LogConfig) (*log.Logger, func(), error) {
	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{})

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(level)

	if cfg.Output == "" {
		logger.SetOutput(io.Discard)
		return logger, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger.SetOutput(file)
	return logger, func() { _ = file.Close() }, nil
}

// applyTheme persists a theme given on the command line or in the config
// file, then applies whatever theme the settings hold.
func applyTheme(ctx context.Context, svc *settings.Service, override model.Theme) error {
	if override != "" {
		if err := svc.SetTheme(ctx, override); err != nil {
			return err
		}
	}
	t, err := svc.Theme(ctx)
	if err != nil {
		return err
	}
	theme.Apply(t)
	return nil
}

func loadBoards(path string) ([]model.Board, error) {
	if path == "" {
		return []model.Board{seed.Demo()}, nil
	}
	boards, err := seed.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if len(boards) == 0 {
		return nil, fmt.Errorf("seed %s defines no boards", path)
	}
	return boards, nil
}
