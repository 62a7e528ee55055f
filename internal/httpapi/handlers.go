package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/xyh-wiki/animal-merge/internal/config"
	"github.com/xyh-wiki/animal-merge/internal/engine"
	"github.com/xyh-wiki/animal-merge/internal/modes"
	"github.com/xyh-wiki/animal-merge/internal/storage"
	"github.com/xyh-wiki/animal-merge/internal/tiers"
)

const maxBodyBytes = 1 << 16

// ------------------------------ payloads -----------------------------------

type newGameReq struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	Size       int    `json:"size"`
	Seed       uint64 `json:"seed"`
}

type moveReq struct {
	Direction string `json:"direction"`
}

type difficultyReq struct {
	Difficulty string `json:"difficulty"`
}

type stateRes struct {
	ID             string     `json:"id"`
	Mode           string     `json:"mode"`
	Difficulty     string     `json:"difficulty"`
	Board          [][]int    `json:"board"`
	Animals        [][]string `json:"animals"`
	Score          int        `json:"score"`
	Moves          int        `json:"moves"`
	HighestLevel   int        `json:"highestLevel"`
	HighestAnimal  string     `json:"highestAnimal"`
	RemainingUndo  int        `json:"remainingUndo"`
	RemainingHint  int        `json:"remainingHint"`
	Over           bool       `json:"over"`
	Won            bool       `json:"won"`
	Hint           string     `json:"hint,omitempty"`
	Unlocked       int        `json:"unlocked,omitempty"`
	UnlockedAnimal string     `json:"unlockedAnimal,omitempty"`
	MovesLeft      *int       `json:"movesLeft,omitempty"`
	TimeLeftMs     *int64     `json:"timeLeftMs,omitempty"`
	DateKey        string     `json:"dateKey,omitempty"`
	Fingerprint    string     `json:"fingerprint"`
}

type hintRes struct {
	Available bool     `json:"available"`
	Direction string   `json:"direction,omitempty"`
	State     stateRes `json:"state"`
}

type modeRes struct {
	Key          string `json:"key"`
	Label        string `json:"label"`
	BoardSize    int    `json:"boardSize"`
	MoveLimit    int    `json:"moveLimit,omitempty"`
	TimeLimitSec int    `json:"timeLimitSec,omitempty"`
	Daily        bool   `json:"daily,omitempty"`
	Endless      bool   `json:"endless,omitempty"`
}

type entryRes struct {
	Rank          int       `json:"rank"`
	Score         int       `json:"score"`
	Moves         int       `json:"moves"`
	Difficulty    string    `json:"difficulty"`
	HighestLevel  int       `json:"highestLevel"`
	HighestAnimal string    `json:"highestAnimal"`
	Won           bool      `json:"won"`
	DateKey       string    `json:"dateKey"`
	CreatedAt     time.Time `json:"createdAt"`
}

type leaderboardRes struct {
	Mode    string     `json:"mode"`
	Date    string     `json:"date,omitempty"`
	Entries []entryRes `json:"entries"`
}

type errorRes struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ------------------------------ handlers -----------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "games": s.games.len()})
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, lo.Map(modes.List(), func(m modes.Mode, _ int) modeRes {
		return modeRes{
			Key:          m.Key,
			Label:        m.Label,
			BoardSize:    m.BoardSize,
			MoveLimit:    m.MoveLimit,
			TimeLimitSec: int(m.TimeLimit / time.Second),
			Daily:        m.Daily,
			Endless:      m.Endless,
		}
	}))
}

// handleNewGame starts a game and returns its handle and initial state.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}

	if req.Mode == "" {
		req.Mode = modes.Classic
	}
	mode, err := modes.Lookup(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_mode", err.Error())
		return
	}

	var difficulty engine.Difficulty
	if req.Difficulty != "" {
		if difficulty, err = config.ParseDifficulty(req.Difficulty); err != nil {
			writeError(w, http.StatusBadRequest, "unknown_difficulty", err.Error())
			return
		}
	}

	now := s.now()
	session, err := s.cfg.NewSession(config.SessionOptions{
		Mode:       mode,
		Difficulty: difficulty,
		Size:       req.Size,
		Seed:       req.Seed,
		Now:        now,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_game", err.Error())
		return
	}

	g, err := s.games.add(mode, session, now)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "too_many_games", err.Error())
		return
	}
	s.logger.Debug("game started", "id", g.id, "mode", mode.Key, "difficulty", session.Config().Difficulty)

	g.mu.Lock()
	defer g.mu.Unlock()
	writeJSON(w, http.StatusCreated, s.stateOf(g))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *game) (int, any) {
		return http.StatusOK, s.stateOf(g)
	})
}

// handleMove applies one slide. Blocked moves and finished games return the
// unchanged state.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	dir, err := engine.ParseDirection(req.Direction)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_direction", err.Error())
		return
	}

	s.withGame(w, r, func(g *game) (int, any) {
		//nolint:errcheck // ParseDirection only yields valid directions
		g.session.Move(dir)
		s.enforceLimits(g)
		s.saveIfFinished(g)
		return http.StatusOK, s.stateOf(g)
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *game) (int, any) {
		if s.timeUp(g) {
			return http.StatusConflict, errorRes{Error: "time_up"}
		}
		before := g.session.State()
		if after := g.session.Undo(); after.Moves != before.Moves {
			// An undone game is live again and may be recorded anew.
			g.saved = false
		}
		return http.StatusOK, s.stateOf(g)
	})
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *game) (int, any) {
		dir, ok := g.session.Hint()
		res := hintRes{Available: ok, State: s.stateOf(g)}
		if ok {
			res.Direction = dir.String()
		}
		return http.StatusOK, res
	})
}

// handleReset records the current game if it scored and starts over.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *game) (int, any) {
		s.saveRecord(g)
		g.session.Reset()
		s.restart(g)
		return http.StatusOK, s.stateOf(g)
	})
}

func (s *Server) handleDifficulty(w http.ResponseWriter, r *http.Request) {
	var req difficultyReq
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	difficulty, err := config.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_difficulty", err.Error())
		return
	}

	s.withGame(w, r, func(g *game) (int, any) {
		s.saveRecord(g)
		if _, err := g.session.SetDifficulty(difficulty); err != nil {
			return http.StatusBadRequest, errorRes{Error: "unknown_difficulty", Message: err.Error()}
		}
		s.restart(g)
		return http.StatusOK, s.stateOf(g)
	})
}

// handleEndGame drops the handle, recording the game if it scored.
func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.games.remove(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "game_not_found", "")
		return
	}

	g.mu.Lock()
	s.enforceLimits(g)
	s.saveRecord(g)
	g.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// handleLeaderboard lists the best records of a mode. The daily board is
// per date: ?date=YYYY-MM-DD, today (UTC) by default.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	mode, err := modes.Lookup(chi.URLParam(r, "mode"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_mode", err.Error())
		return
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage_disabled", "")
		return
	}

	limit := storage.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_limit", fmt.Sprintf("limit %q", v))
			return
		}
		limit = n
	}

	res := leaderboardRes{Mode: mode.Key}
	var entries []storage.LeaderboardEntry
	if mode.Daily {
		res.Date = r.URL.Query().Get("date")
		if res.Date == "" {
			res.Date = engine.DateKey(s.now())
		} else if _, err := time.Parse(time.DateOnly, res.Date); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}
		entries, err = s.store.DailyTop(res.Date, limit)
	} else {
		entries, err = s.store.TopRecords(mode.Key, limit)
	}
	if err != nil {
		s.logger.Error("leaderboard query failed", "mode", mode.Key, "error", err)
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}

	res.Entries = lo.Map(entries, func(e storage.LeaderboardEntry, _ int) entryRes {
		return entryRes{
			Rank:          e.Rank,
			Score:         e.Score,
			Moves:         e.Moves,
			Difficulty:    e.Difficulty,
			HighestLevel:  e.HighestLevel,
			HighestAnimal: e.HighestAnimal,
			Won:           e.Won,
			DateKey:       e.DateKey,
			CreatedAt:     e.CreatedAt,
		}
	})
	writeJSON(w, http.StatusOK, res)
}

// ------------------------------- helpers -----------------------------------

// withGame looks up the game named in the URL, runs fn under its lock and
// writes fn's result.
func (s *Server) withGame(w http.ResponseWriter, r *http.Request, fn func(g *game) (int, any)) {
	g, err := s.games.get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "game_not_found", "")
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.touched = s.now()
	s.enforceLimits(g)
	s.saveIfFinished(g)
	status, body := fn(g)
	writeJSON(w, status, body)
}

// enforceLimits ends the game when its mode's move or time limit ran out.
func (s *Server) enforceLimits(g *game) {
	st := g.session.State()
	if st.Terminal() {
		return
	}
	if g.mode.Expired(st.Moves, s.now().Sub(g.started)) {
		g.session.End()
	}
}

func (s *Server) timeUp(g *game) bool {
	return g.mode.Timed() && s.now().Sub(g.started) >= g.mode.TimeLimit
}

func (s *Server) restart(g *game) {
	g.started = s.now()
	g.saved = false
}

func (s *Server) saveIfFinished(g *game) {
	if g.session.State().Terminal() {
		s.saveRecord(g)
	}
}

// saveRecord stores g once. Games without a score are not recorded.
func (s *Server) saveRecord(g *game) {
	st := g.session.State()
	if g.saved || st.Moves == 0 || st.Score == 0 {
		return
	}
	g.saved = true
	if s.store == nil {
		return
	}

	rec := storage.NewRecord(g.session.Record(), s.now())
	if _, err := s.store.SaveRecord(rec); err != nil {
		s.logger.Warn("could not save record", "id", g.id, "mode", rec.Mode, "error", err)
	}
}

// stateOf renders the response body for g.
func (s *Server) stateOf(g *game) stateRes {
	st := g.session.State()
	res := stateRes{
		ID:            g.id,
		Mode:          g.mode.Key,
		Difficulty:    string(g.session.Config().Difficulty),
		Board:         st.Board,
		Animals:       animalsOf(st.Board),
		Score:         st.Score,
		Moves:         st.Moves,
		HighestLevel:  st.HighestLevel,
		HighestAnimal: tiers.NameFor(st.HighestLevel),
		RemainingUndo: st.RemainingUndo,
		RemainingHint: st.RemainingHint,
		Over:          st.Over,
		Won:           st.Won,
		Fingerprint:   strconv.FormatUint(g.session.Fingerprint(), 16),
	}
	if st.HasHint {
		res.Hint = st.HintDirection.String()
	}
	if st.Unlocked > 0 {
		res.Unlocked = st.Unlocked
		res.UnlockedAnimal = tiers.NameFor(st.Unlocked)
	}

	movesLeft, timeLeft := g.mode.Remaining(st.Moves, s.now().Sub(g.started))
	if movesLeft >= 0 {
		res.MovesLeft = &movesLeft
	}
	if timeLeft >= 0 {
		ms := timeLeft.Milliseconds()
		res.TimeLeftMs = &ms
	}
	if g.mode.Daily {
		res.DateKey = engine.DateKey(g.started)
	}
	return res
}

// animalsOf maps each occupied cell to its animal name.
func animalsOf(b engine.Board) [][]string {
	return lo.Map(b, func(row []int, _ int) []string {
		return lo.Map(row, func(v int, _ int) string {
			if v == 0 {
				return ""
			}
			return tiers.NameFor(v)
		})
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorRes{Error: code, Message: message})
}
