package httpapi

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xyh-wiki/animal-merge/internal/engine"
	"github.com/xyh-wiki/animal-merge/internal/modes"
)

// Errors returned by the game registry.
var (
	ErrGameNotFound = errors.New("httpapi: game not found")
	ErrTooManyGames = errors.New("httpapi: too many live games")
)

// game is one live session behind a handle. Its mutex serializes every
// call into the engine session, which is single-owner.
type game struct {
	mu      sync.Mutex
	id      string
	mode    modes.Mode
	session *engine.Session
	started time.Time
	touched time.Time
	saved   bool
}

// registry holds the live games keyed by handle.
type registry struct {
	mu    sync.RWMutex
	games map[string]*game
	limit int
}

func newRegistry(limit int) *registry {
	return &registry{
		games: make(map[string]*game),
		limit: limit,
	}
}

// add stores s under a fresh handle.
func (r *registry) add(mode modes.Mode, s *engine.Session, now time.Time) (*game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.limit > 0 && len(r.games) >= r.limit {
		return nil, ErrTooManyGames
	}

	g := &game{
		id:      uuid.NewString(),
		mode:    mode,
		session: s,
		started: now,
		touched: now,
	}
	r.games[g.id] = g
	return g, nil
}

func (r *registry) get(id string) (*game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (r *registry) remove(id string) (*game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	delete(r.games, id)
	return g, nil
}

// expire drops games untouched since before cutoff and returns them.
func (r *registry) expire(cutoff time.Time) []*game {
	r.mu.Lock()
	defer r.mu.Unlock()

	var dropped []*game
	for id, g := range r.games {
		g.mu.Lock()
		idle := g.touched.Before(cutoff)
		g.mu.Unlock()
		if idle {
			delete(r.games, id)
			dropped = append(dropped, g)
		}
	}
	return dropped
}

// drain removes and returns every game.
func (r *registry) drain() []*game {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := make([]*game, 0, len(r.games))
	for _, g := range r.games {
		dropped = append(dropped, g)
	}
	clear(r.games)
	return dropped
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
