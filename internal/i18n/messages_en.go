package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/robalobadob/numberguess/internal/game"
)

func init() {
	lang := language.English

	message.SetString(lang, string(game.OutcomePrompt), "Guess a number from 1 to 100!")
	message.SetString(lang, string(game.OutcomeInvalid), "Please enter a valid number.")
	message.SetString(lang, string(game.OutcomeVeryClose), "🔥 Very close!")
	message.SetString(lang, string(game.OutcomeGuessLower), "🔽 Try a smaller number!")
	message.SetString(lang, string(game.OutcomeGuessHigher), "🔼 Try a bigger number!")
	message.SetString(lang, string(game.OutcomeWon), "🎉 Correct! Score: %s (solved in %s attempts)")
	message.SetString(lang, string(game.OutcomeLost), "😢 Out of attempts… the answer was %s!")
	message.SetString(lang, HintEvenKey, "The answer might be even.")
	message.SetString(lang, HintOddKey, "The answer might be odd.")
	message.SetString(lang, HintRangeKey, "The answer might be somewhere in %s–%s.")
}
