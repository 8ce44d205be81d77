// internal/daily/daily.go
//
// Deterministic word selection for the Daily Challenge.
// Every player gets the same seed for a given UTC date, so game.New picks
// the same secret from the same word list.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic seed for a date using HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) uint64 {
	return SeedForKey(DateKey(date), salt)
}

// SeedForKey is Seed for an already formatted date key.
func SeedForKey(dateKey, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dateKey))
	sum := h.Sum(nil)
	// first 8 bytes of the MAC
	return binary.BigEndian.Uint64(sum[:8])
}
