// internal/httpserver/server.go
//
// HTTP server wiring for the Hangman backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/words", "/debug/sessions".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess, GET /game/{id}.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine (see auth.go).
//   - Best-effort persistence of game rows and user stats.
//
// Notes:
//   - Live sessions stay in the in-memory store until they finish; the database keeps history.
//   - Only the player who started a game can see or guess it; others get 404.
//   - Daily games are played through /daily only.
//   - The engine accepts any rune; this layer only insists on exactly one per guess.
//   - The word is revealed in responses once a game is finished.

package httpserver

import (
	"crypto/rand"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

var (
	// errFinished is returned from store updates when a guess targets a finished game.
	errFinished = errors.New("game finished")
	// errDailyGame is returned when /game/guess targets a daily challenge game.
	errDailyGame = errors.New("daily game")
)

// Server bundles router, live session store, word source, and DB handle.
type Server struct {
	r     *chi.Mux
	cfg   config.Config
	store store.Store
	db    *sql.DB
	words words.Source
	now   func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, db *sql.DB, src words.Source) *Server {
	s := &Server{r: chi.NewRouter(), cfg: cfg, store: st, db: db, words: src, now: time.Now}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))     // request-scoped zerolog logger
	s.r.Use(accessLog)                       // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"hangman-go","endpoints":["/health","POST /game/new","POST /game/guess","GET /game/{id}","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		n, err := words.Count(s.words)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("count words")
			writeError(w, http.StatusInternalServerError, "word_list_unavailable")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]int{"words": n})
	})
	s.r.Get("/debug/sessions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]int{"live": s.store.Len()})
	})

	// Game endpoints: optional auth (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/guess", s.handleGuess)
		r.Get("/game/{id}", s.handleGetGame)
	})

	// Daily Challenge: optional auth (guests can play; results persisted when finished)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes a single zerolog line per request with the chi request id.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	lvl := zerolog.InfoLevel
	if status >= http.StatusInternalServerError {
		lvl = zerolog.WarnLevel
	}
	hlog.FromRequest(r).WithLevel(lvl).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("requestId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
})

// writeError writes a {"error": code} body with status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// ------------------------------ GAME ---------------------------------------

// gameView is the JSON shape of a session as seen by a player.
type gameView struct {
	GameID    string   `json:"gameId"`
	Seed      uint64   `json:"seed"`
	Message   string   `json:"message,omitempty"`
	Display   string   `json:"display"`
	Remaining int      `json:"remaining"`
	Guessed   []string `json:"guessed"`
	State     string   `json:"state"` // "active" | "won" | "lost"
	Word      string   `json:"word,omitempty"`
}

// stateOf maps a session to the wire state. Won is derived, not stored.
func stateOf(g *game.Session) string {
	if g.Solved() {
		return "won"
	}
	return string(g.State())
}

func finished(g *game.Session) bool {
	return g.Solved() || g.State() == game.StateLost
}

// viewOf snapshots a session; callers must hold the store lock.
func viewOf(g *game.Session, msg string) gameView {
	guessed := make([]string, 0, len(g.Guessed()))
	for _, r := range g.Guessed() {
		guessed = append(guessed, string(r))
	}
	v := gameView{
		GameID:    g.ID,
		Seed:      g.Seed,
		Message:   msg,
		Display:   g.Show(),
		Remaining: g.Remaining(),
		Guessed:   guessed,
		State:     stateOf(g),
	}
	if finished(g) {
		v.Word = g.Word()
	}
	return v
}

// playerID returns the authenticated user ID if logged in,
// otherwise the anonymous cookie ID (set on first use).
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return s.ensureAnonID(w, r)
}

// ownedBy reports whether the caller is the player recorded as owner.
// A guest who signs in later keeps access through the anonymous cookie.
func ownedBy(r *http.Request, owner string) bool {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil && me.ID == owner {
		return true
	}
	c, err := r.Cookie(anonCookieName)
	return err == nil && c.Value != "" && c.Value == owner
}

// newGameReq is the payload for POST /game/new.
type newGameReq struct {
	Seed *uint64 `json:"seed"` // optional; random when absent
	Word string  `json:"word"` // optional fixed secret; unranked, refused in production
}

// handleNewGame creates a session, stores it in memory, and records an owner row.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}

	var (
		g    *game.Session
		err  error
		mode = store.ModeNormal
	)
	if req.Word != "" {
		if s.cfg.Production {
			writeError(w, http.StatusBadRequest, "fixed_word_disabled")
			return
		}
		mode = store.ModeFixed
		g, err = game.FromWord(req.Word)
	} else {
		seed := randomSeed()
		if req.Seed != nil {
			seed = *req.Seed
		}
		g, err = game.New(s.words, seed)
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("new game")
		writeError(w, http.StatusInternalServerError, "word_list_unavailable")
		return
	}

	entry := &store.Game{Session: g, Owner: s.playerID(w, r), Mode: mode, Started: s.now()}
	if err := s.store.Save(r.Context(), entry); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	s.insertGameRow(w, r, g, mode)
	hlog.FromRequest(r).Debug().Stringer("session", g).Str("mode", mode).Msg("game started")
	_ = json.NewEncoder(w).Encode(viewOf(g, ""))
}

// guessReq is the payload for POST /game/guess and /daily/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Letter string `json:"letter"`
}

// parseLetter returns the single rune in s.
func parseLetter(s string) (rune, bool) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(s)
	if c == utf8.RuneError {
		return 0, false
	}
	return c, true
}

// guessResult is the outcome of one guess.
type guessResult struct {
	view   gameView
	misses int
	game   store.Game // owner/mode/date snapshot; Session is nil
}

func (res guessResult) done() bool { return res.view.State != "active" }

// applyGuess runs one guess against a live game owned by the caller.
// check rejects games the calling route must not touch; games owned by
// someone else look like unknown IDs. The guess that finishes a game
// evicts it from the store.
func (s *Server) applyGuess(r *http.Request, id string, c rune, check func(*store.Game) error) (guessResult, error) {
	var res guessResult
	err := s.store.Update(r.Context(), id, func(g *store.Game) error {
		if !ownedBy(r, g.Owner) {
			return store.ErrNotFound
		}
		if err := check(g); err != nil {
			return err
		}
		if finished(g.Session) {
			return errFinished
		}
		msg := g.Session.Guess(c)
		res.view = viewOf(g.Session, msg)
		res.misses = g.Session.Misses()
		res.game = store.Game{Owner: g.Owner, Mode: g.Mode, Date: g.Date, Started: g.Started}
		if finished(g.Session) {
			hlog.FromRequest(r).Debug().Stringer("session", g.Session).Msg("evicting finished game")
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	if res.done() {
		if err := s.store.Delete(r.Context(), id); err != nil && !errors.Is(err, store.ErrNotFound) {
			hlog.FromRequest(r).Warn().Err(err).Str("gameId", id).Msg("evict game")
		}
	}
	return res, nil
}

// writeGuessError maps store/game errors to HTTP responses.
func writeGuessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, errFinished):
		writeError(w, http.StatusConflict, "game_finished")
	case errors.Is(err, errDailyGame):
		writeError(w, http.StatusConflict, "daily_game")
	default:
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

// handleGuess applies a guess to a live non-daily session, persists progress,
// and (if finished) updates user stats in a best-effort transaction.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
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

	res, err := s.applyGuess(r, req.GameID, c, func(g *store.Game) error {
		if g.Mode == store.ModeDaily {
			return errDailyGame
		}
		return nil
	})
	if err != nil {
		writeGuessError(w, err)
		return
	}

	s.recordGuess(w, r, res)
	_ = json.NewEncoder(w).Encode(res.view)
}

// handleGetGame returns the current view of a live session without guessing.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var v gameView
	err := s.store.View(r.Context(), chi.URLParam(r, "id"), func(g *store.Game) error {
		if !ownedBy(r, g.Owner) {
			return store.ErrNotFound
		}
		v = viewOf(g.Session, "")
		return nil
	})
	if err != nil {
		writeGuessError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// ------------------------------ persistence --------------------------------

// owner returns the WHERE clause and argument identifying the caller's rows.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (string, any, *authUser) {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return `user_id=?`, me.ID, me
	}
	return `anonymous_id=?`, s.ensureAnonID(w, r), nil
}

// insertGameRow persists an owner row (user_id or anonymous_id) for history/stats.
// The secret is not stored until the game finishes.
func (s *Server) insertGameRow(w http.ResponseWriter, r *http.Request, g *game.Session, mode string) {
	now := s.now().UTC().Format(time.RFC3339)
	seed := strconv.FormatUint(g.Seed, 10)
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		_, err := s.db.ExecContext(r.Context(), `INSERT INTO games (id, user_id, mode, seed, started_at, status)
		                     VALUES (?,?,?,?,?,?)`, g.ID, me.ID, mode, seed, now, "active")
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("gameId", g.ID).Msg("insert user game row")
		}
		return
	}
	anon := s.ensureAnonID(w, r)
	_, err := s.db.ExecContext(r.Context(), `INSERT INTO games (id, anonymous_id, mode, seed, started_at, status)
	                     VALUES (?,?,?,?,?,?)`, g.ID, anon, mode, seed, now, "active")
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", g.ID).Msg("insert anon game row")
	}
}

// recordGuess bumps counters on the game row and closes it out when finished.
// Failures are logged, never surfaced to the player.
// Fixed-word games are closed out but never touch user stats.
func (s *Server) recordGuess(w http.ResponseWriter, r *http.Request, res guessResult) {
	v, misses := res.view, res.misses
	ownerClause, ownerArg, me := s.owner(w, r)
	logger := hlog.FromRequest(r)

	tx, err := s.db.BeginTx(r.Context(), nil)
	if err != nil {
		logger.Warn().Err(err).Msg("begin tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET guesses = guesses + 1, misses = ? WHERE id=? AND `+ownerClause,
		misses, v.GameID, ownerArg); err != nil {
		logger.Warn().Err(err).Msg("update guesses")
	}

	if v.State == "won" || v.State == "lost" {
		if _, err := tx.Exec(`UPDATE games SET status=?, word=?, finished_at=? WHERE id=? AND `+ownerClause,
			v.State, v.Word, s.now().UTC().Format(time.RFC3339), v.GameID, ownerArg); err != nil {
			logger.Warn().Err(err).Msg("finish game")
		}
		if me != nil && res.game.Mode != store.ModeFixed {
			if err := bumpStats(tx, me.ID, v.State == "won"); err != nil {
				logger.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
		logger.Info().Str("gameId", v.GameID).Str("mode", res.game.Mode).Str("state", v.State).Int("misses", misses).Msg("game finished")
	}
	if err := tx.Commit(); err != nil {
		logger.Warn().Err(err).Msg("commit guess")
	}
}

// randomSeed returns a crypto-random seed for games started without one.
func randomSeed() uint64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}
