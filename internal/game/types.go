// internal/game/types.go
//
// Core type definitions for the hangman game engine.
// Defines:
//   - State: coarse lifecycle of a session (active/lost).
//   - Session: state for a single in-progress or finished game.

package game

// MaxMisses is the number of incorrect guesses tolerated before a loss.
const MaxMisses = 5

// Placeholder renders a secret rune that has not been guessed yet.
const Placeholder = '_'

// State is the lifecycle state of a session.
// There is no won state: a win is derived by the caller (see Session.Solved).
type State string

const (
	StateActive State = "active"
	StateLost   State = "lost"
)

// Session holds the state of a single hangman game.
// It is not safe for concurrent use; callers own a session exclusively.
type Session struct {
	ID   string // Unique session identifier (random hex string).
	Seed uint64 // Seed the secret was selected with (0 for fixed-word games).

	secret    []rune            // the word to guess; never changes
	guessed   map[rune]struct{} // grows only
	remaining int               // incorrect guesses left, in [0, MaxMisses]
}
