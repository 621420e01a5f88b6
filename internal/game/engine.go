// internal/game/engine.go
//
// Core game engine for a single number-guessing round.
// Responsibilities:
//   - Start rounds with a uniformly drawn secret in [MinNumber, MaxNumber].
//   - Normalize and parse raw guess text (see parse.go).
//   - Classify proximity and generate hints for incorrect guesses.
//   - Track state transitions: in_progress → won/lost.
//
// Notes:
//   - The engine holds no locks; a Round belongs to exactly one session.
//   - All randomness comes from the Rand handed to Start.
package game

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinNumber     = 1
	MaxNumber     = 100
	MaxAttempts   = 7
	StartingScore = 1000
	MissPenalty   = 100

	// closeDistance is the largest |guess-secret| reported as "very close".
	closeDistance = 5
	// rangeWidth is upper-lower for an unclamped range hint.
	rangeWidth = 5
)

// Start constructs a fresh round drawing its secret from r.
// The round keeps r for hint generation.
func Start(r Rand) *Round {
	return StartWithSecret(r, r.IntN(MaxNumber-MinNumber+1)+MinNumber)
}

// StartWithSecret constructs a round with a fixed secret (testing, replays).
// Secrets outside [MinNumber, MaxNumber] are clamped.
func StartWithSecret(r Rand, secret int) *Round {
	g := &Round{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		secret:    clamp(secret, MinNumber, MaxNumber),
		score:     StartingScore,
		status:    StatusInProgress,
		rnd:       r,
	}
	g.last = g.snapshot(OutcomePrompt, nil)
	return g
}

// Submit evaluates one raw guess and returns the resulting feedback.
//
// Rules, in order:
//   - Finished rounds ignore input and return the last feedback.
//   - Unparseable input yields OutcomeInvalid and mutates nothing.
//   - Otherwise attempts++ and the guess is checked: a hit wins, the
//     MaxAttempts-th miss loses, any other miss costs MissPenalty and
//     carries proximity feedback plus a hint.
func (g *Round) Submit(raw string) Feedback {
	if g.status != StatusInProgress {
		return g.last
	}

	guess, err := ParseGuess(raw)
	if err != nil {
		// Not recorded as last: invalid input leaves the round untouched.
		return g.snapshot(OutcomeInvalid, nil)
	}

	g.attempts++

	switch {
	case guess == g.secret:
		g.finish(StatusWon)
		g.last = g.snapshot(OutcomeWon, nil)
	case g.attempts >= MaxAttempts:
		g.finish(StatusLost)
		g.last = g.snapshot(OutcomeLost, nil)
	default:
		outcome := Proximity(guess, g.secret)
		hint := g.nextHint()
		g.score -= MissPenalty
		g.last = g.snapshot(outcome, &hint)
	}
	return g.last
}

// Feedback returns the feedback of the last state-changing action.
func (g *Round) Feedback() Feedback { return g.last }

// Status reports the round's lifecycle state.
func (g *Round) Status() Status { return g.status }

// Attempts reports how many guesses have been evaluated.
func (g *Round) Attempts() int { return g.attempts }

// Score reports the current score.
func (g *Round) Score() int { return g.score }

// Secret reports the secret. Callers must not show it while in progress.
func (g *Round) Secret() int { return g.secret }

// Finished reports whether the round reached a terminal status.
func (g *Round) Finished() bool { return g.status != StatusInProgress }

// Proximity classifies an incorrect guess against the secret.
// "very close" takes priority over direction.
func Proximity(guess, secret int) Outcome {
	// Compared against shifted bounds so huge guesses cannot overflow.
	if guess >= secret-closeDistance && guess <= secret+closeDistance {
		return OutcomeVeryClose
	}
	if guess > secret {
		return OutcomeGuessLower
	}
	return OutcomeGuessHigher
}

// RangeHint builds the bounding-range clue for secret with the given
// offset in [0, rangeWidth]. lower <= secret <= upper always holds.
func RangeHint(secret, offset int) Hint {
	return Hint{
		Kind:  HintRange,
		Lower: max(MinNumber, secret-offset),
		Upper: min(MaxNumber, secret+rangeWidth-offset),
	}
}

// ParityHint builds the even/odd clue for secret.
func ParityHint(secret int) Hint {
	return Hint{Kind: HintParity, Even: secret%2 == 0}
}

// nextHint flips a fair coin between a parity and a range hint.
// The round keeps no memory of previous hints.
func (g *Round) nextHint() Hint {
	if g.rnd.IntN(2) == 0 {
		return ParityHint(g.secret)
	}
	return RangeHint(g.secret, g.rnd.IntN(rangeWidth+1))
}

func (g *Round) finish(s Status) {
	g.status = s
	g.FinishedAt = time.Now().UTC()
}

// snapshot captures the current counters under the given outcome.
func (g *Round) snapshot(o Outcome, h *Hint) Feedback {
	fb := Feedback{
		Outcome:     o,
		Hint:        h,
		Attempts:    g.attempts,
		MaxAttempts: MaxAttempts,
		Score:       g.score,
		Status:      g.status,
	}
	if g.status == StatusLost {
		fb.Secret = g.secret
	}
	return fb
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
