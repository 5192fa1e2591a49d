package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/diagramlab/diagram-annotator/pkg/batch"
	"github.com/diagramlab/diagram-annotator/pkg/command"
	"github.com/diagramlab/diagram-annotator/pkg/config"
	"github.com/diagramlab/diagram-annotator/pkg/logging"
	"github.com/diagramlab/diagram-annotator/pkg/output"
	"github.com/diagramlab/diagram-annotator/pkg/store"
	"github.com/diagramlab/diagram-annotator/pkg/watcher"
	"github.com/diagramlab/diagram-annotator/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("annotator", pflag.ContinueOnError)
	flags.String("annotations", ".", "Directory of per-diagram annotation JSON files")
	flags.String("output", "collection.json", "Collection file to create or resume")
	flags.String("exportdir", ".", "Destination directory for DOT exports")
	flags.Bool("review", false, "Reopen complete diagrams for revision")
	flags.Bool("norst", false, "Skip the rhetorical-structure layer")
	flags.Bool("watch", false, "Pick up annotation files added mid-session")
	flags.Bool("web", false, "Serve the progress surface")
	flags.Int("port", 8080, "Port for the progress server (only used with --web)")
	flags.String("verbosity", "", "Log level: trace, debug, info, warn, error")
	flags.CountP("verbose", "v", "Increase log verbosity (repeatable)")

	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logging.SetLevel(logLevel(cfg))

	sessionID := uuid.New().String()
	logging.Info("starting annotation session", "sessionID", sessionID)

	if err := run(cfg, sessionID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, sessionID string) error {
	collection, err := store.Open(cfg.Output)
	if err != nil {
		return err
	}
	if _, err := collection.Merge(cfg.Annotations); err != nil {
		return err
	}
	if len(collection.Rows) == 0 {
		return fmt.Errorf("no annotation files found in %s", cfg.Annotations)
	}

	console := output.NewConsole()
	prompter := batch.NewConsolePrompter(os.Stdin, os.Stdout)

	driver := &batch.Driver{
		Collection:    collection,
		Console:       console,
		Prompter:      prompter,
		Review:        cfg.Review,
		RSTDisabled:   cfg.DisableRST,
		AnnotationDir: cfg.Annotations,
	}

	engine := &command.Engine{
		Console:     console,
		Prompter:    prompter,
		ExportDir:   cfg.ExportDir,
		RSTDisabled: cfg.DisableRST,
	}
	driver.Engine = engine

	ctx := logging.WithSessionID(context.Background(), sessionID)

	if cfg.WebMode {
		server := web.NewServer()
		driver.Server = server
		engine.Events = server.Publisher()
		go func() {
			if err := server.Start(cfg.Port); err != nil {
				logging.Error("progress server stopped", "error", err)
			}
		}()
	}

	if cfg.Watch {
		cw, err := watcher.NewCorpusWatcher(cfg.Annotations)
		if err != nil {
			return err
		}
		if err := cw.Start(ctx); err != nil {
			return err
		}
		debouncer := watcher.NewDebouncer(cw.Events(), 500*time.Millisecond, 5*time.Second)
		debouncer.Start(ctx)
		driver.Updates = debouncer.Output()
	}

	return driver.Run()
}

// logLevel maps the named verbosity, or the -v count when no name is
// given, onto a slog level.
func logLevel(cfg *config.Config) slog.Level {
	switch strings.ToLower(cfg.Verbosity) {
	case "trace":
		return slog.LevelDebug - 4
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	switch cfg.VerboseCnt {
	case 0:
		return slog.LevelWarn
	case 1:
		return slog.LevelInfo
	case 2:
		return slog.LevelDebug
	default:
		return slog.LevelDebug - 4
	}
}
