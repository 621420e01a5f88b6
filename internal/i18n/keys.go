// Package i18n renders round feedback into localized text.
//
// The game core only emits message keys (game.Outcome) and structured
// hints; this package owns the wording. Japanese is the default locale,
// English is the alternate.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/robalobadob/numberguess/internal/game"
)

// Hint message keys.
const (
	HintEvenKey  = "hint.even"
	HintOddKey   = "hint.odd"
	HintRangeKey = "hint.range"
)

// Keys lists every message key the catalogs must define.
var Keys = []string{
	string(game.OutcomePrompt),
	string(game.OutcomeInvalid),
	string(game.OutcomeVeryClose),
	string(game.OutcomeGuessLower),
	string(game.OutcomeGuessHigher),
	string(game.OutcomeWon),
	string(game.OutcomeLost),
	HintEvenKey,
	HintOddKey,
	HintRangeKey,
}

var supported = []language.Tag{language.Japanese, language.English}

var matcher = language.NewMatcher(supported)

// Supported returns the list of supported language tags, default first.
func Supported() []language.Tag { return append([]language.Tag(nil), supported...) }

// Default returns the default language tag.
func Default() language.Tag { return supported[0] }

// Match maps arbitrary tags onto the closest supported tag.
func Match(tags ...language.Tag) language.Tag {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default()
	}
	return supported[idx]
}

// ParseTag parses value and reports whether it names a supported language.
func ParseTag(value string) (language.Tag, bool) {
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Und, false
	}
	return supported[idx], true
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(Match(tag))
}
