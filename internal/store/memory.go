// internal/store/memory.go
//
// In-memory implementation of the session Store interface.
// Holds live hangman games between HTTP requests.
//
// Characteristics:
//   - Stores *Game entries (session plus owner/mode metadata) keyed by session ID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Update runs a mutation under the write lock, so a session is only ever
//     touched by one request at a time. View runs a read under the read lock.
//   - Finished games are expected to be deleted by the caller.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/hangman/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("store: session not found")

// Game modes recorded on live games and on the games table.
const (
	ModeNormal = "normal" // seeded from the word list; counts toward stats
	ModeFixed  = "fixed"  // caller supplied the secret; never counts toward stats
	ModeDaily  = "daily"  // daily challenge; only playable through /daily
)

// Game is a live session together with who started it and how.
type Game struct {
	Session *game.Session
	Owner   string // user ID, or anonymous ID for guests
	Mode    string
	Date    string // daily date key (YYYY-MM-DD); empty for other modes
	Started time.Time
}

// Store defines the persistence interface for live games.
type Store interface {
	// Save persists or replaces a game, keyed by its session ID.
	Save(ctx context.Context, g *Game) error

	// View runs fn on the game with shared access. fn must not mutate it.
	// The error from fn is returned unchanged.
	View(ctx context.Context, id string, fn func(*Game) error) error

	// Update runs fn on the game with exclusive access.
	// The error from fn is returned unchanged.
	Update(ctx context.Context, id string, fn func(*Game) error) error

	// Delete removes a game.
	Delete(ctx context.Context, id string) error

	// Len reports how many games are held.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex     // guards games map
	games map[string]*Game // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*Game)}
}

func (m *memory) Save(ctx context.Context, g *Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.Session.ID] = g
	return nil
}

func (m *memory) View(ctx context.Context, id string, fn func(*Game) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return ErrNotFound
	}
	return fn(g)
}

func (m *memory) Update(ctx context.Context, id string, fn func(*Game) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return ErrNotFound
	}
	return fn(g)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return ErrNotFound
	}
	delete(m.games, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
