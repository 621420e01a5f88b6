// internal/game/types.go
//
// Core type definitions for the number-guessing round.
// Defines:
//   - Status: lifecycle state of a round (in_progress/won/lost).
//   - Outcome: what a single Submit produced; doubles as the message key.
//   - Hint: optional clue attached to an incorrect guess.
//   - Feedback: everything a shell needs to re-render after an action.
//   - Round: state for a single in-progress or finished round.

package game

import "time"

// Status is the coarse state of a round.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Outcome classifies the result of the last action on a round.
// The string values are stable message keys for the i18n catalog.
type Outcome string

const (
	OutcomePrompt      Outcome = "round.prompt"       // fresh round, ask for a number
	OutcomeInvalid     Outcome = "round.invalid"      // unparseable input, nothing consumed
	OutcomeVeryClose   Outcome = "round.very_close"   // |guess-secret| <= 5
	OutcomeGuessLower  Outcome = "round.guess_lower"  // guess above secret
	OutcomeGuessHigher Outcome = "round.guess_higher" // guess below secret
	OutcomeWon         Outcome = "round.won"
	OutcomeLost        Outcome = "round.lost"
)

// HintKind selects which style of clue was generated.
type HintKind string

const (
	HintParity HintKind = "parity"
	HintRange  HintKind = "range"
)

// Hint is a supplementary clue about the secret. Only the fields that
// belong to Kind are meaningful.
type Hint struct {
	Kind  HintKind `json:"kind"`
	Even  bool     `json:"even,omitempty"`  // HintParity
	Lower int      `json:"lower,omitempty"` // HintRange, inclusive
	Upper int      `json:"upper,omitempty"` // HintRange, inclusive
}

// Feedback is the value returned by every round operation.
type Feedback struct {
	Outcome     Outcome `json:"outcome"`
	Hint        *Hint   `json:"hint,omitempty"`
	Attempts    int     `json:"attempts"`
	MaxAttempts int     `json:"maxAttempts"`
	Score       int     `json:"score"`
	Status      Status  `json:"status"`
	Secret      int     `json:"secret,omitempty"` // revealed only once lost
}

// InputEnabled reports whether the shell should accept more guesses.
func (f Feedback) InputEnabled() bool { return f.Status == StatusInProgress }

// Round holds the state of one play-through, from secret selection to
// won or lost. A Round is never reset; Start builds a new one.
type Round struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time // zero while in progress

	secret   int
	attempts int
	score    int
	status   Status
	last     Feedback
	rnd      Rand
}

// Rand is the random capability a round draws from: secret selection,
// the hint coin flip and the range offset. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	// IntN returns a uniform int in [0, n).
	IntN(n int) int
}
