// Package httpapi exposes game sessions over a small JSON HTTP API.
//
// Routes:
//   - GET    /health
//   - GET    /modes
//   - POST   /games                  start a game {mode, difficulty, size, seed}
//   - GET    /games/{id}             current state
//   - POST   /games/{id}/move        {direction}
//   - POST   /games/{id}/undo
//   - POST   /games/{id}/hint
//   - POST   /games/{id}/reset
//   - PUT    /games/{id}/difficulty  {difficulty}
//   - DELETE /games/{id}             end the game, recording it when it scored
//   - GET    /leaderboard/{mode}     ?date=YYYY-MM-DD&limit=N
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/xyh-wiki/animal-merge/internal/config"
	"github.com/xyh-wiki/animal-merge/internal/storage"
)

// Defaults for Options left at zero.
const (
	DefaultMaxGames    = 1024
	DefaultIdleTimeout = 30 * time.Minute
	sweepInterval      = time.Minute
)

// Options configures a Server.
type Options struct {
	Config      config.GameConfig
	Store       *storage.Store // nil disables records and leaderboards
	Logger      *log.Logger
	Now         func() time.Time
	MaxGames    int
	IdleTimeout time.Duration
}

// Server bundles the router, live games and record store.
type Server struct {
	r      *chi.Mux
	cfg    config.GameConfig
	store  *storage.Store
	logger *log.Logger
	now    func() time.Time
	idle   time.Duration
	games  *registry
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxGames == 0 {
		opts.MaxGames = DefaultMaxGames
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}

	s := &Server{
		r:      chi.NewRouter(),
		cfg:    opts.Config,
		store:  opts.Store,
		logger: opts.Logger,
		now:    opts.Now,
		idle:   opts.IdleTimeout,
		games:  newRegistry(opts.MaxGames),
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(s.requestLogger)
	s.r.Use(jsonContentType)

	s.r.Get("/health", s.handleHealth)
	s.r.Get("/modes", s.handleModes)

	s.r.Route("/games", func(r chi.Router) {
		r.Post("/", s.handleNewGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Delete("/", s.handleEndGame)
			r.Post("/move", s.handleMove)
			r.Post("/undo", s.handleUndo)
			r.Post("/hint", s.handleHint)
			r.Post("/reset", s.handleReset)
			r.Put("/difficulty", s.handleDifficulty)
		})
	})

	s.r.Get("/leaderboard/{mode}", s.handleLeaderboard)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})

	return s
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and records the games still in play.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.sweepLoop(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP API", "address", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.record(s.games.drain())
	return err
}

// sweepLoop periodically drops idle games.
func (s *Server) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(s.now().Add(-s.idle))
		}
	}
}

// sweep drops games untouched since cutoff.
func (s *Server) sweep(cutoff time.Time) {
	s.record(s.games.expire(cutoff))
}

// record saves the dropped games that scored.
func (s *Server) record(dropped []*game) {
	for _, g := range dropped {
		g.mu.Lock()
		s.saveRecord(g)
		g.mu.Unlock()
		s.logger.Debug("dropped game", "id", g.id, "mode", g.mode.Key)
	}
}

// requestLogger logs each request with its status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}
