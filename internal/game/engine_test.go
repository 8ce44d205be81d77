package game

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/robalobadob/hangman/internal/words"
)

const word0 = "rebroadened"

// newSession builds a seed-0 session over a list that can only yield word0.
func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(words.List{word0}, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Word() != word0 || s.Remaining() != MaxMisses || len(s.Guessed()) != 0 {
		t.Fatalf("unexpected initial session: word=%q remaining=%d guessed=%v",
			s.Word(), s.Remaining(), s.Guessed())
	}
	return s
}

func TestNew(t *testing.T) {
	t.Run("initial display is fully masked", func(t *testing.T) {
		s := newSession(t)
		if got := s.Show(); got != "_ _ _ _ _ _ _ _ _ _ _" {
			t.Errorf("Show() = %q", got)
		}
		if s.State() != StateActive {
			t.Errorf("State() = %s, want active", s.State())
		}
		if s.ID == "" {
			t.Error("expected a session ID")
		}
	})

	t.Run("same seed same word", func(t *testing.T) {
		src := words.List{"apple", "banana", "cherry", "damson", "elderberry", "fig", "grape"}
		for _, seed := range []uint64{0, 3, 99, 12345} {
			a, err := New(src, seed)
			if err != nil {
				t.Fatalf("New(%d) error = %v", seed, err)
			}
			b, _ := New(src, seed)
			if a.Word() != b.Word() {
				t.Errorf("seed %d chose %q then %q", seed, a.Word(), b.Word())
			}
			if a.Seed != seed {
				t.Errorf("Seed = %d, want %d", a.Seed, seed)
			}
		}
	})

	t.Run("io error propagates", func(t *testing.T) {
		_, err := New(words.File(filepath.Join(t.TempDir(), "missing.txt")), 0)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected fs.ErrNotExist, got %v", err)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		_, err := New(words.List{}, 0)
		if !errors.Is(err, words.ErrEmpty) {
			t.Errorf("expected words.ErrEmpty, got %v", err)
		}
	})

	t.Run("embedded list", func(t *testing.T) {
		s, err := New(words.Embedded{}, 0)
		if err != nil {
			t.Fatalf("New(Embedded) error = %v", err)
		}
		if s.Word() == "" {
			t.Error("expected a secret word")
		}
	})
}

func TestFromWord_Empty(t *testing.T) {
	if _, err := FromWord(""); !errors.Is(err, ErrEmptyWord) {
		t.Errorf("expected ErrEmptyWord, got %v", err)
	}
}

func TestGuess_Correct(t *testing.T) {
	s := newSession(t)
	if got := s.Guess('a'); got != "_ _ _ _ _ a _ _ _ _ _" {
		t.Errorf("Guess('a') = %q", got)
	}
	if s.Remaining() != MaxMisses {
		t.Errorf("Remaining() = %d, want %d", s.Remaining(), MaxMisses)
	}
	if !s.HasGuessed('a') || len(s.Guessed()) != 1 {
		t.Errorf("Guessed() = %q", string(s.Guessed()))
	}
}

func TestGuess_Incorrect(t *testing.T) {
	s := newSession(t)
	if got := s.Guess('z'); got != "Nope -- _ _ _ _ _ _ _ _ _ _ _" {
		t.Errorf("Guess('z') = %q", got)
	}
	if s.Remaining() != MaxMisses-1 {
		t.Errorf("Remaining() = %d, want %d", s.Remaining(), MaxMisses-1)
	}
	if !s.HasGuessed('z') {
		t.Error("z should be recorded as guessed")
	}
}

func TestGuess_AllRight(t *testing.T) {
	s := newSession(t)
	steps := []struct {
		c    rune
		want string
	}{
		{'r', "r _ _ r _ _ _ _ _ _ _"},
		{'e', "r e _ r _ _ _ e _ e _"},
		{'b', "r e b r _ _ _ e _ e _"},
		{'r', "r e b r _ _ _ e _ e _"},
		{'o', "r e b r o _ _ e _ e _"},
		{'a', "r e b r o a _ e _ e _"},
		{'d', "r e b r o a d e _ e d"},
		{'e', "r e b r o a d e _ e d"},
		{'n', "r e b r o a d e n e d"},
		{'e', "r e b r o a d e n e d"},
		{'d', "r e b r o a d e n e d"},
	}
	for _, st := range steps {
		if got := s.Guess(st.c); got != st.want {
			t.Errorf("Guess(%q) = %q, want %q", st.c, got, st.want)
		}
	}
	if got := s.Show(); got != "r e b r o a d e n e d" {
		t.Errorf("Show() = %q", got)
	}
	if !s.Solved() {
		t.Error("expected Solved() after revealing every letter")
	}
	if s.Remaining() != MaxMisses || s.State() != StateActive {
		t.Errorf("remaining=%d state=%s", s.Remaining(), s.State())
	}
}

func TestGuess_Lose(t *testing.T) {
	s := newSession(t)
	steps := []struct {
		c    rune
		want string
	}{
		{'z', "Nope -- _ _ _ _ _ _ _ _ _ _ _"},
		{'r', "r _ _ r _ _ _ _ _ _ _"},
		{'y', "Nope -- r _ _ r _ _ _ _ _ _ _"},
		{'e', "r e _ r _ _ _ e _ e _"},
		{'x', "Nope -- r e _ r _ _ _ e _ e _"},
		{'b', "r e b r _ _ _ e _ e _"},
		{'w', "Nope -- r e b r _ _ _ e _ e _"},
		{'o', "r e b r o _ _ e _ e _"},
		{'v', "You lose. The word was rebroadened"},
	}
	for _, st := range steps {
		if got := s.Guess(st.c); got != st.want {
			t.Errorf("Guess(%q) = %q, want %q", st.c, got, st.want)
		}
	}
	if s.Remaining() != 0 || s.State() != StateLost {
		t.Errorf("remaining=%d state=%s, want 0 lost", s.Remaining(), s.State())
	}
	if s.Solved() {
		t.Error("a lost game should not be solved")
	}
}

func TestGuess_AfterLossIsNoop(t *testing.T) {
	s := newSession(t)
	for _, c := range "zyxwv" {
		s.Guess(c)
	}
	before := len(s.Guessed())
	for _, c := range "abu" {
		if got := s.Guess(c); got != "You lose. The word was rebroadened" {
			t.Errorf("Guess(%q) after loss = %q", c, got)
		}
	}
	if s.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", s.Remaining())
	}
	if len(s.Guessed()) != before {
		t.Errorf("guessed set changed after loss: %q", string(s.Guessed()))
	}
	if s.HasGuessed('a') {
		t.Error("post-loss guess should not be recorded")
	}
}

func TestGuess_RepeatedMissIsFree(t *testing.T) {
	s := newSession(t)
	first := s.Guess('q')
	second := s.Guess('q')
	if first != second {
		t.Errorf("repeat guess changed display: %q then %q", first, second)
	}
	if s.Remaining() != MaxMisses-1 {
		t.Errorf("Remaining() = %d, want %d", s.Remaining(), MaxMisses-1)
	}
}

func TestGuess_CaseSensitive(t *testing.T) {
	s := newSession(t)
	if got := s.Guess('R'); got != "Nope -- _ _ _ _ _ _ _ _ _ _ _" {
		t.Errorf("Guess('R') = %q", got)
	}
	if s.HasGuessed('r') {
		t.Error("'R' must not count as 'r'")
	}
}

func TestGuess_NonASCII(t *testing.T) {
	s, err := FromWord("café")
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Guess('é'); got != "_ _ _ é" {
		t.Errorf("Guess('é') = %q", got)
	}
	if got := s.Guess('€'); got != "Nope -- _ _ _ é" {
		t.Errorf("Guess('€') = %q", got)
	}
}

func TestShow_LengthInvariant(t *testing.T) {
	s := newSession(t)
	want := 2*utf8.RuneCountInString(word0) - 1
	for _, c := range "aqzrebxyodnw" {
		s.Guess(c)
		if got := utf8.RuneCountInString(s.Show()); got != want {
			t.Fatalf("after %q: len(Show()) = %d, want %d", c, got, want)
		}
	}
}

func TestShow_Idempotent(t *testing.T) {
	s := newSession(t)
	s.Guess('e')
	if a, b := s.Show(), s.Show(); a != b {
		t.Errorf("Show() not stable: %q vs %q", a, b)
	}
}

func TestMonotonicity(t *testing.T) {
	s := newSession(t)
	prevRemaining := s.Remaining()
	prevGuessed := map[rune]bool{}
	for _, c := range "zrzyeaqqxbwov!" {
		s.Guess(c)
		if s.Remaining() > prevRemaining {
			t.Fatalf("remaining grew from %d to %d", prevRemaining, s.Remaining())
		}
		if s.Remaining() < 0 || s.Remaining() > MaxMisses {
			t.Fatalf("remaining out of range: %d", s.Remaining())
		}
		for r := range prevGuessed {
			if !s.HasGuessed(r) {
				t.Fatalf("guessed set lost %q", r)
			}
		}
		for _, r := range s.Guessed() {
			prevGuessed[r] = true
		}
		prevRemaining = s.Remaining()
		if s.Word() != word0 {
			t.Fatalf("secret changed to %q", s.Word())
		}
	}
}

func TestMisses(t *testing.T) {
	s := newSession(t)
	s.Guess('z')
	s.Guess('y')
	s.Guess('e')
	if s.Misses() != 2 {
		t.Errorf("Misses() = %d, want 2", s.Misses())
	}
}

func TestString(t *testing.T) {
	s := newSession(t)
	s.Guess('e')
	s.Guess('z')

	want := "session " + s.ID + " [_ e _ _ _ _ _ e _ e _] remaining=4"
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
