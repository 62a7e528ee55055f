package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/xyh-wiki/animal-merge/internal/config"
	"github.com/xyh-wiki/animal-merge/internal/core"
	"github.com/xyh-wiki/animal-merge/internal/engine"
	"github.com/xyh-wiki/animal-merge/internal/platform/tui"
	"github.com/xyh-wiki/animal-merge/internal/storage"
)

// loadConfig reads the configuration named by --config.
func loadConfig() (config.GameConfig, error) {
	return config.Load(flagConfig)
}

// difficulty resolves --difficulty; empty keeps the configured default.
func difficulty() (engine.Difficulty, error) {
	if flagDifficulty == "" {
		return "", nil
	}
	return config.ParseDifficulty(flagDifficulty)
}

// dbPath picks --db over the configured path.
func dbPath(cfg config.GameConfig) string {
	if flagDBPath != "" {
		return flagDBPath
	}
	if cfg.Storage.Path != "" {
		return cfg.Storage.Path
	}
	return config.DefaultDBPath
}

// openStore opens the score database, warning and continuing without
// records when it cannot be opened.
func openStore(cfg config.GameConfig) *storage.Store {
	store, err := storage.Open(dbPath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// newLogger returns a stderr logger for the servers.
func newLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// tuiLogger keeps the alternate screen clean: logs go to --log or nowhere.
// The returned closer must be called on exit.
func tuiLogger() (*log.Logger, func()) {
	if flagLogPath == "" {
		return log.New(io.Discard), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(flagLogPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create log directory: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "animalmerge",
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }
}

// terminalSize returns the size of stdout, or the default size when it is
// not a terminal.
func terminalSize() (int, int) {
	def := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return def.ScreenW, def.ScreenH
}

// newEnv assembles everything the terminal UI needs. The returned closer
// releases the store and log file.
func newEnv(cfg config.GameConfig) (tui.Env, func()) {
	width, height := terminalSize()
	store := openStore(cfg)
	logger, closeLog := tuiLogger()

	env := tui.Env{
		Config: cfg,
		Store:  store,
		Runtime: core.RuntimeConfig{
			ScreenW: width,
			ScreenH: height,
			Seed:    flagSeed,
		},
		Logger: logger,
	}

	return env, func() {
		if store != nil {
			store.Close()
		}
		closeLog()
	}
}
