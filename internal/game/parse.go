package game

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidGuess is returned by ParseGuess when the text holds no
// leading integer.
var ErrInvalidGuess = errors.New("invalid guess")

// fullWidthOffset maps U+FF10..U+FF19 onto '0'..'9'.
const fullWidthOffset = '０' - '0'

// NormalizeDigits rewrites full-width digits as ASCII digits and leaves
// every other rune untouched.
func NormalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return r - fullWidthOffset
		}
		return r
	}, s)
}

// ParseGuess normalizes raw and reads its leading integer.
//
// Leading white space and one sign are accepted; parsing stops at the
// first non-digit, so "12abc" is 12 and "7.9" is 7. Text without any
// leading digit (including "") is ErrInvalidGuess. Out-of-range values
// saturate to math.MaxInt / math.MinInt.
func ParseGuess(raw string) (int, error) {
	s := strings.TrimLeftFunc(NormalizeDigits(raw), unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, ErrInvalidGuess
	}

	digits := s[:n]
	if neg {
		digits = "-" + digits
	}
	v, err := strconv.Atoi(digits)
	if err != nil {
		// Only ErrRange is possible here; keep the sign.
		if neg {
			return math.MinInt, nil
		}
		return math.MaxInt, nil
	}
	return v, nil
}
