// cmd/hangman/main.go
//
// Terminal hangman client. Reads one guess per line from stdin and prints the
// engine's reply until the word is revealed or the misses run out.
//
// Usage:
//   hangman [--seed N] [--words /path/to/words.txt]
//
// Without --seed a random seed is used and printed, so a game can be replayed.

package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/words"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newCommand(os.Stdin, os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("hangman")
	}
}

func newCommand(in io.Reader, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "hangman",
		Usage: "guess the secret word one letter at a time",
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:    "seed",
				Usage:   "seed for word selection (random when unset)",
				Sources: cli.EnvVars("HANGMAN_SEED"),
			},
			&cli.StringFlag{
				Name:    "words",
				Usage:   "word list file, one word per line (embedded list when unset)",
				Sources: cli.EnvVars("WORDS_FILE"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			seed := cmd.Uint64("seed")
			if !cmd.IsSet("seed") {
				seed = randomSeed()
			}
			s, err := game.New(words.FromPath(cmd.String("words")), seed)
			if err != nil {
				return fmt.Errorf("start game: %w", err)
			}
			log.Debug().Uint64("seed", seed).Msg("game started")
			fmt.Fprintf(out, "seed %d\n", seed)
			return play(ctx, in, out, s)
		},
	}
}

// play runs the guess loop until the session is lost, solved, or input ends.
func play(ctx context.Context, in io.Reader, out io.Writer, s *game.Session) error {
	fmt.Fprintf(out, "%s  (%d misses left)\n", s.Show(), s.Remaining())

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		c, _ := utf8.DecodeRuneInString(line)

		fmt.Fprintln(out, s.Guess(c))
		switch {
		case s.State() == game.StateLost:
			return nil
		case s.Solved():
			fmt.Fprintf(out, "You win! The word was %s\n", s.Word())
			return nil
		}
		fmt.Fprintf(out, "(%d misses left)\n", s.Remaining())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read guesses: %w", err)
	}
	fmt.Fprintln(out, "Game abandoned.")
	return nil
}

func randomSeed() uint64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}
