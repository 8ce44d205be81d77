// internal/config/config.go
//
// Environment-driven configuration for the hangman server.
// An optional .env file is loaded first (development), then each key falls
// back to a default when unset or empty.
//
// Environment variables:
//   PORT=5175                      listen port
//   LOG_LEVEL=info                 zerolog level
//   WORDS_FILE=/path/to/words.txt  word list; empty uses the embedded list
//   DB_PATH=./data/app.db          sqlite database file
//   JWT_SECRET, JWT_EXPIRES_DAYS   auth token signing
//   COOKIE_NAME=hangman_token      auth cookie name
//   CLIENT_ORIGIN                  CORS origin
//   DAILY_SALT                     salt for the daily word seed
//   NODE_ENV=production            secure cookies

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the resolved server configuration.
type Config struct {
	Port           string
	LogLevel       string
	WordsFile      string
	DBPath         string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	DailySalt      string
	Production     bool
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		WordsFile:      os.Getenv("WORDS_FILE"),
		DBPath:         getEnv("DB_PATH", "./data/app.db"),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: getEnvInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "hangman_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		Production:     os.Getenv("NODE_ENV") == "production",
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
