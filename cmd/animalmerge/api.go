package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xyh-wiki/animal-merge/internal/httpapi"
)

var (
	flagHTTPAddr    string
	flagMaxGames    int
	flagGameTimeout int
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the JSON HTTP API",
	Long: `Start an HTTP server exposing game sessions as JSON.

Each POST /games returns a handle; moves, undo, hint and reset are
posted against it. Finished games are recorded into the same database
the terminal UI uses.

Endpoints:
  GET    /health
  GET    /modes
  POST   /games                  {"mode":"classic","difficulty":"normal"}
  GET    /games/{id}
  POST   /games/{id}/move        {"direction":"left"}
  POST   /games/{id}/undo
  POST   /games/{id}/hint
  POST   /games/{id}/reset
  PUT    /games/{id}/difficulty  {"difficulty":"hard"}
  DELETE /games/{id}
  GET    /leaderboard/{mode}     ?date=YYYY-MM-DD&limit=10

Examples:
  animalmerge api
  animalmerge api --addr :9000 --db ./scores.db`,
	Args: cobra.NoArgs,
	Run:  runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagHTTPAddr, "addr", ":8080", "HTTP listen address (host:port)")
	apiCmd.Flags().IntVar(&flagMaxGames, "max-games", httpapi.DefaultMaxGames, "Maximum number of live games")
	apiCmd.Flags().IntVar(&flagGameTimeout, "game-timeout", 30, "Minutes before an idle game is dropped")
}

func runAPI(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger("animalmerge-api")
	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	srv := httpapi.New(httpapi.Options{
		Config:      cfg,
		Store:       store,
		Logger:      logger,
		MaxGames:    flagMaxGames,
		IdleTimeout: time.Duration(flagGameTimeout) * time.Minute,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, flagHTTPAddr); err != nil {
		logger.Error("server error", "error", err)
		stop()
		os.Exit(1)
	}
}
