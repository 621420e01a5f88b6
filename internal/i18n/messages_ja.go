package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/robalobadob/numberguess/internal/game"
)

func init() {
	lang := language.Japanese

	message.SetString(lang, string(game.OutcomePrompt), "1～100の数字を当ててください！")
	message.SetString(lang, string(game.OutcomeInvalid), "有効な数字を入力してください。")
	message.SetString(lang, string(game.OutcomeVeryClose), "🔥 すごく近いです！")
	message.SetString(lang, string(game.OutcomeGuessLower), "🔽 もっと小さい数字です！")
	message.SetString(lang, string(game.OutcomeGuessHigher), "🔼 もっと大きい数字です！")
	message.SetString(lang, string(game.OutcomeWon), "🎉 正解！スコア: %s点（%s回で正解）")
	message.SetString(lang, string(game.OutcomeLost), "😢 失敗… 正解は %s でした！")
	message.SetString(lang, HintEvenKey, "正解は偶数かも？")
	message.SetString(lang, HintOddKey, "正解は奇数かも？")
	message.SetString(lang, HintRangeKey, "正解は %s～%s のどこかかも？")
}
