// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's daily game (creates or reuses session)
//   - POST /daily/guess       → guess a letter in the player's daily game
//   - GET  /daily/leaderboard → winners for today (or ?date=YYYY-MM-DD)
//
// Each player gets one daily game per date (enforced by DB + in-memory index).
// The secret comes from game.New with a seed derived from date + salt, so every
// player faces the same word. Results are persisted when the game finishes.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/store"
)

// errNoSession is returned when /daily/guess targets a game that is not a daily game.
var errNoSession = errors.New("no daily session")

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]string // live game ID keyed by playerID|date
	mu       sync.Mutex        // guards sessions
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		sessions: make(map[string]string),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// today returns today's date key and seed.
func (d *dailyServer) today() (string, uint64) {
	now := d.srv.now()
	return daily.DateKey(now), daily.Seed(now, d.salt)
}

func dailyKey(playerID, date string) string { return playerID + "|" + date }

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	Date   string    `json:"date"`
	Played bool      `json:"played"`
	Game   *gameView `json:"game,omitempty"`
}

// handleNew creates or reuses a daily session for the current date.
//   - If the player already has a DB row for today → Played=true.
//   - Otherwise create/reuse a live session and return its view.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	pid := d.srv.playerID(w, r)
	date, seed := d.today()

	played, err := d.store.AlreadyPlayed(r.Context(), pid, date)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("daily already played")
	}
	if played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: true})
		return
	}

	key := dailyKey(pid, date)
	d.mu.Lock()
	defer d.mu.Unlock()

	if id, ok := d.sessions[key]; ok {
		var v gameView
		if err := d.srv.store.View(r.Context(), id, func(g *store.Game) error {
			v = viewOf(g.Session, "")
			return nil
		}); err == nil {
			_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Game: &v})
			return
		}
		delete(d.sessions, key)
	}

	g, err := game.New(d.srv.words, seed)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("new daily game")
		writeError(w, http.StatusInternalServerError, "word_list_unavailable")
		return
	}
	entry := &store.Game{Session: g, Owner: pid, Mode: store.ModeDaily, Date: date, Started: d.srv.now()}
	if err := d.srv.store.Save(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.sessions[key] = g.ID
	d.srv.insertGameRow(w, r, g, store.ModeDaily)

	v := viewOf(g, "")
	_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Game: &v})
}

// -----------------------------------------------------------------------------
// /daily/guess

// handleGuess applies a letter to the caller's daily session.
//   - The session is looked up by gameId, so a game keeps its start date
//     even when the guess arrives after midnight.
//   - Rejects unknown, foreign, or non-daily game IDs (409).
//   - Persists the result once the game is won or lost.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	c, ok := parseLetter(req.Letter)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_letter")
		return
	}

	res, err := d.srv.applyGuess(r, req.GameID, c, func(g *store.Game) error {
		if g.Mode != store.ModeDaily {
			return errNoSession
		}
		return nil
	})
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, errNoSession):
		writeError(w, http.StatusConflict, "no_session")
		return
	case err != nil:
		writeGuessError(w, err)
		return
	}
	d.srv.recordGuess(w, r, res)

	if res.done() {
		d.mu.Lock()
		delete(d.sessions, dailyKey(res.game.Owner, res.game.Date))
		d.mu.Unlock()

		result := daily.Result{
			PlayerID:  res.game.Owner,
			Date:      res.game.Date,
			Seed:      res.view.Seed,
			Won:       res.view.State == "won",
			Misses:    res.misses,
			ElapsedMs: int(d.srv.now().Sub(res.game.Started).Milliseconds()),
		}
		if err := d.store.InsertResult(r.Context(), result); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("insert daily result")
		}
	}
	_ = json.NewEncoder(w).Encode(res.view)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _ = d.today()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
