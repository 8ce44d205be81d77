// internal/game/engine.go
//
// Core game engine for a single hangman session.
// Responsibilities:
//   - Create sessions with a secret chosen reproducibly from a word source and seed.
//   - Apply single-rune guesses, tracking the guessed set and remaining misses.
//   - Render the partially revealed word ("_ a _").
//
// Notes:
//   - Runes are matched exactly: 'A' and 'a' are different guesses.
//   - A rune that was already guessed never costs another miss.
//   - Once remaining reaches zero the session is lost and ignores further guesses.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/robalobadob/hangman/internal/words"
)

// ErrEmptyWord is returned when a session would be built around an empty secret.
var ErrEmptyWord = errors.New("game: secret word is empty")

// New constructs a session whose secret is chosen from src by seed.
// Load failures from src are returned unchanged so callers can inspect them.
func New(src words.Source, seed uint64) (*Session, error) {
	w, err := words.Choose(src, seed)
	if err != nil {
		return nil, err
	}
	s, err := FromWord(w)
	if err != nil {
		return nil, err
	}
	s.Seed = seed
	return s, nil
}

// FromWord constructs a session around a fixed secret.
func FromWord(word string) (*Session, error) {
	if word == "" {
		return nil, ErrEmptyWord
	}
	return &Session{
		ID:        randomID(),
		secret:    []rune(word),
		guessed:   make(map[rune]struct{}),
		remaining: MaxMisses,
	}, nil
}

// Show renders the secret with unguessed runes masked by Placeholder,
// cells separated by single spaces.
func (s *Session) Show() string {
	var b strings.Builder
	b.Grow(len(s.secret) * 2)
	for i, r := range s.secret {
		if i > 0 {
			b.WriteByte(' ')
		}
		if _, ok := s.guessed[r]; ok {
			b.WriteRune(r)
		} else {
			b.WriteRune(Placeholder)
		}
	}
	return b.String()
}

// Guess records c and returns the message for the player:
//   - the display, if the secret contains c;
//   - "Nope -- <display>", if it does not and misses remain;
//   - "You lose. The word was <secret>", once the last miss is spent.
//
// Guessing a rune twice has no further effect on remaining.
// After a loss, Guess changes nothing and repeats the loss message.
func (s *Session) Guess(c rune) string {
	if s.remaining <= 0 {
		return s.lossMessage()
	}
	_, seen := s.guessed[c]
	s.guessed[c] = struct{}{}

	if s.contains(c) {
		return s.Show()
	}
	if !seen {
		s.remaining--
	}
	if s.remaining <= 0 {
		return s.lossMessage()
	}
	return "Nope -- " + s.Show()
}

// Word returns the secret word.
func (s *Session) Word() string { return string(s.secret) }

// Remaining returns how many incorrect guesses are still tolerated.
func (s *Session) Remaining() int { return s.remaining }

// Misses returns how many incorrect guesses have been spent.
func (s *Session) Misses() int { return MaxMisses - s.remaining }

// Guessed returns the guessed runes in ascending order.
func (s *Session) Guessed() []rune {
	out := make([]rune, 0, len(s.guessed))
	for r := range s.guessed {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasGuessed reports whether c is in the guessed set.
func (s *Session) HasGuessed(c rune) bool {
	_, ok := s.guessed[c]
	return ok
}

// State reports the lifecycle state.
func (s *Session) State() State {
	if s.remaining <= 0 {
		return StateLost
	}
	return StateActive
}

// Solved reports whether every rune of the secret has been guessed.
// It is computed on demand; the session keeps no win flag.
func (s *Session) Solved() bool {
	for _, r := range s.secret {
		if _, ok := s.guessed[r]; !ok {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer for logs and debugging.
func (s *Session) String() string {
	return fmt.Sprintf("session %s [%s] remaining=%d", s.ID, s.Show(), s.remaining)
}

func (s *Session) contains(c rune) bool {
	for _, r := range s.secret {
		if r == c {
			return true
		}
	}
	return false
}

func (s *Session) lossMessage() string {
	return "You lose. The word was " + string(s.secret)
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
