// assets/embed.go
//
// Embedded default word list for the hangman server and terminal client.
// Used whenever no WORDS_FILE is configured.

package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed words.txt
var FS embed.FS

// readLines returns the trimmed, non-blank, non-comment lines of an embedded file.
// Words keep their case; guesses are matched case-sensitively.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// WordList returns the embedded default candidate words.
func WordList() ([]string, error) {
	return readLines("words.txt")
}
