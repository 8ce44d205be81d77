// internal/words/words.go
//
// Word sources for the hangman game engine.
//
// Responsibilities:
//   - Supply the pool of candidate secret words (Source).
//   - Select one word reproducibly from a 64-bit seed (Pick, Choose).
//
// Sources:
//   - File:     one word per line from a file on disk (WORDS_FILE).
//   - Embedded: the default list compiled into the binary (assets/words.txt).
//   - List:     an in-memory slice, mostly for tests and fixed games.
//
// Constraints:
//   • Lines are trimmed; blank lines and "#" comments are skipped.
//   • Case is preserved. The engine matches guesses case-sensitively.
//   • A source that yields no words is an error (ErrEmpty).

package words

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/robalobadob/hangman/assets"
)

// ErrEmpty is returned when a source loads successfully but holds no words.
var ErrEmpty = errors.New("words: word list is empty")

// Source supplies the ordered list of candidate words.
// Implementations must return the same order on every call so that a seed
// always selects the same word.
type Source interface {
	Words() ([]string, error)
}

// File reads candidate words from a text file, one per line.
type File string

// Words opens the file and returns its words.
// Any I/O failure is returned wrapped, with the path for context.
func (f File) Words() ([]string, error) {
	fh, err := os.Open(string(f))
	if err != nil {
		return nil, fmt.Errorf("words: open %s: %w", string(f), err)
	}
	defer fh.Close()

	var out []string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		if w, ok := normalize(sc.Text()); ok {
			out = append(out, w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: read %s: %w", string(f), err)
	}
	return out, nil
}

// Embedded is the default word list bundled with the binary.
type Embedded struct{}

// Words returns the embedded list.
func (Embedded) Words() ([]string, error) {
	ws, err := assets.WordList()
	if err != nil {
		return nil, fmt.Errorf("words: embedded list: %w", err)
	}
	return ws, nil
}

// List is a fixed in-memory word list.
type List []string

// Words returns a copy of the list with blank entries dropped.
func (l List) Words() ([]string, error) {
	out := make([]string, 0, len(l))
	for _, w := range l {
		if w, ok := normalize(w); ok {
			out = append(out, w)
		}
	}
	return out, nil
}

// FromPath returns a File source for a non-empty path, else the embedded list.
func FromPath(path string) Source {
	if path == "" {
		return Embedded{}
	}
	return File(path)
}

// Pick returns an index in [0, n) chosen by a ChaCha8 generator seeded from seed.
// The same seed and n always give the same index. n must be positive.
func Pick(seed uint64, n int) int {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	rng := rand.New(rand.NewChaCha8(key))
	return rng.IntN(n)
}

// Choose loads src and returns the word selected by seed.
func Choose(src Source, seed uint64) (string, error) {
	ws, err := src.Words()
	if err != nil {
		return "", err
	}
	if len(ws) == 0 {
		return "", ErrEmpty
	}
	return ws[Pick(seed, len(ws))], nil
}

// Count returns the number of words in src, for diagnostics.
func Count(src Source) (int, error) {
	ws, err := src.Words()
	if err != nil {
		return 0, err
	}
	return len(ws), nil
}

// normalize trims a raw line and reports whether it holds a word.
func normalize(line string) (string, bool) {
	w := strings.TrimSpace(line)
	if w == "" || strings.HasPrefix(w, "#") {
		return "", false
	}
	return w, true
}
