package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/db"
	"github.com/robalobadob/hangman/internal/httpserver"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

func main() {
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	src := words.FromPath(cfg.WordsFile)
	n, err := words.Count(src)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.WordsFile).Msg("failed to load word list")
	}
	if n == 0 {
		log.Fatal().Err(words.ErrEmpty).Str("path", cfg.WordsFile).Msg("failed to load word list")
	}
	log.Info().Int("words", n).Msg("word list loaded")

	sqlDB, err := db.OpenAndMigrate(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("failed to open database")
	}
	defer sqlDB.Close()

	mem := store.NewMemoryStore()
	srv := httpserver.New(cfg, mem, sqlDB, src)
	log.Info().Str("port", cfg.Port).Msg("starting go-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
