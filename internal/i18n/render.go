package i18n

import (
	"strconv"

	"golang.org/x/text/message"

	"github.com/robalobadob/numberguess/internal/game"
)

// Message renders the outcome text of fb. Numbers are passed
// pre-formatted so the printer does not group digits ("1000", not "1,000").
func Message(p *message.Printer, fb game.Feedback) string {
	key := string(fb.Outcome)
	switch fb.Outcome {
	case game.OutcomeWon:
		return p.Sprintf(key, strconv.Itoa(fb.Score), strconv.Itoa(fb.Attempts))
	case game.OutcomeLost:
		return p.Sprintf(key, strconv.Itoa(fb.Secret))
	default:
		return p.Sprintf(key)
	}
}

// Hint renders h, or "" when there is no hint.
func Hint(p *message.Printer, h *game.Hint) string {
	if h == nil {
		return ""
	}
	switch h.Kind {
	case game.HintRange:
		return p.Sprintf(HintRangeKey, strconv.Itoa(h.Lower), strconv.Itoa(h.Upper))
	case game.HintParity:
		if h.Even {
			return p.Sprintf(HintEvenKey)
		}
		return p.Sprintf(HintOddKey)
	}
	return ""
}
