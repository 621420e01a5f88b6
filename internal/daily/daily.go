// Package daily derives the shared secret of the daily challenge.
//
// Every player gets the same secret for a given UTC date, chosen by
// HMAC(salt, YYYY-MM-DD) so it cannot be predicted without the salt.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/numberguess/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseDateKey parses a YYYY-MM-DD key.
func ParseDateKey(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// Secret returns the day's secret in [game.MinNumber, game.MaxNumber].
func Secret(date time.Time, salt string) int {
	span := uint64(game.MaxNumber - game.MinNumber + 1)
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n%span) + game.MinNumber
}
