package game

import (
	"errors"
	"math"
	"testing"
)

func TestNormalizeDigits(t *testing.T) {
	cases := map[string]string{
		"０１２３４５６７８９": "0123456789",
		"５０":         "50",
		"a５b":        "a5b",
		"１２abc":      "12abc",
		"":           "",
		"ａｂｃ":        "ａｂｃ", // full-width letters stay
	}
	for in, want := range cases {
		if got := NormalizeDigits(in); got != want {
			t.Errorf("NormalizeDigits(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseGuess(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"50", 50},
		{"５０", 50},
		{"  7", 7},
		{"　7", 7},
		{"12abc", 12},
		{"7.9", 7},
		{"007", 7},
		{"+3", 3},
		{"-3", -3},
		{"1e2", 1},
		{"42 ", 42},
		{"99999999999999999999", math.MaxInt},
		{"-99999999999999999999", math.MinInt},
	}
	for _, tt := range tests {
		got, err := ParseGuess(tt.in)
		if err != nil {
			t.Errorf("ParseGuess(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseGuess(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseGuessInvalid(t *testing.T) {
	for _, in := range []string{"", " ", "abc", "-", "+-1", "a1", ".5", "一"} {
		if _, err := ParseGuess(in); !errors.Is(err, ErrInvalidGuess) {
			t.Errorf("ParseGuess(%q) err = %v, want ErrInvalidGuess", in, err)
		}
	}
}
