// Package main is the entry point for ratanotes.
// It resolves the data root, loads configuration and stores, and starts the TUI.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"ratanotes/internal/app"
	"ratanotes/internal/apperr"
	"ratanotes/internal/config"
	"ratanotes/internal/notes"
	"ratanotes/internal/tasks"
	"ratanotes/internal/ui"
	"ratanotes/internal/watch"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootFlag string

// env is everything a command needs once the root is resolved.
type env struct {
	paths   config.Paths
	cfg     *config.Config
	logger  *slog.Logger
	logFile *os.File
}

// openEnv resolves the root, creates its layout, loads config.yaml and opens
// the log file. The caller must call close.
func openEnv() (*env, error) {
	root, err := config.ExpandRoot(rootFlag)
	if err != nil {
		return nil, err
	}
	paths := config.PathsFor(root)
	if err := paths.EnsureLayout(); err != nil {
		return nil, fmt.Errorf("failed to create data root: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logFile, err := os.OpenFile(paths.Log, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	return &env{paths: paths, cfg: cfg, logger: logger, logFile: logFile}, nil
}

func (e *env) close() {
	_ = e.logFile.Close()
}

// loadStores reads every note and the task file. A recovered task file is
// reported through status rather than failing startup.
func (e *env) loadStores() (*notes.Store, *tasks.Store, string, error) {
	ns, err := notes.NewStore(e.paths.Notes, e.logger)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to open notes: %w", err)
	}
	for _, w := range ns.Load() {
		e.logger.Warn("skipped note", slog.String("path", w.Path), slog.String("error", w.Err.Error()))
	}

	var status string
	ts := tasks.NewStore(e.paths.Tasks, e.logger)
	if err := ts.Load(); err != nil {
		if !errors.Is(err, apperr.ErrParseWarning) {
			return nil, nil, "", fmt.Errorf("failed to load tasks: %w", err)
		}
		status = err.Error()
	}
	return ns, ts, status, nil
}

func run(ctx context.Context, _ *cli.Command) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	ns, ts, status, err := e.loadStores()
	if err != nil {
		return err
	}
	e.logger.Info("starting", slog.String("root", e.paths.Root), slog.Int("notes", ns.Len()), slog.Int("tasks", ts.Len()))

	state := app.New(ns, ts, app.OptionsFromConfig(e.cfg, e.logger))
	if status != "" {
		state.SetStatus(status, true)
	}

	model := ui.NewApp(state, ui.NewStyles(e.cfg), &ui.AppConfig{
		NarrowLayoutThreshold: e.cfg.UX.NarrowLayoutThreshold,
	})
	p := ui.NewProgram(model)

	if e.cfg.Watch.Enabled {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := watch.Watch(watchCtx, e.paths.Notes, watch.DefaultDebounce, e.logger, func(paths []string) {
				p.Send(app.NotesChanged{Paths: paths})
			})
			if err != nil {
				e.logger.Error("watcher stopped", slog.String("error", err.Error()))
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	e.logger.Info("stopped")
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "ratanotes",
		Usage:   "Keyboard-driven notes, daily notes and tasks in your terminal",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Action:  run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "root",
				Aliases:     []string{"r"},
				Usage:       "Data directory holding config.yaml, notes/ and tasks.json",
				DefaultText: "~/.config/ratanotes",
				Sources:     cli.EnvVars("RATANOTES_ROOT"),
				Destination: &rootFlag,
			},
		},
		Commands: []*cli.Command{
			listCommand(),
			backupCommand(),
			restoreCommand(),
			importCommand(),
			exportCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
