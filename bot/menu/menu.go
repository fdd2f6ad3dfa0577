// Package menu builds the inline keyboards of the conversation.
package menu

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/coinbot/bot/callback"
	"github.com/m3rciful/coinbot/bot/catalog"
	"github.com/m3rciful/coinbot/bot/i18n"
	"github.com/m3rciful/coinbot/core/telegram/keyboard"
)

// Texts resolves interface strings. *i18n.Store satisfies it.
type Texts interface {
	T(code, key string) string
	Name(code string) string
	Codes() []string
}

// Language offers every supported language in one row.
func Language(tx Texts) *tele.ReplyMarkup {
	codes := tx.Codes()
	row := make([]keyboard.InlineBtn, 0, len(codes))
	for _, code := range codes {
		row = append(row, keyboard.InlineBtn{Text: tx.Name(code), Data: callback.Lang(code)})
	}
	return keyboard.InlineButtonsRows(row)
}

// LanguagePrompt is the /start text: every language's own prompt, one per line.
func LanguagePrompt(tx Texts) string {
	codes := tx.Codes()
	lines := make([]string, 0, len(codes))
	for _, code := range codes {
		lines = append(lines, tx.T(code, i18n.KeySelectLanguage))
	}
	return strings.Join(lines, "\n")
}

var periodKeys = map[int]string{
	1:  i18n.KeyChart24h,
	7:  i18n.KeyChart7d,
	30: i18n.KeyChart30d,
}

// Period offers the chart periods in one row.
func Period(tx Texts, lang string) *tele.ReplyMarkup {
	periods := catalog.Periods()
	row := make([]keyboard.InlineBtn, 0, len(periods))
	for _, p := range periods {
		row = append(row, keyboard.InlineBtn{Text: tx.T(lang, periodKeys[p.Days]), Data: callback.Period(p.Days)})
	}
	return keyboard.InlineButtonsRows(row)
}

// Fiat offers RUB and USD, then both together.
func Fiat(tx Texts, lang string) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: tx.T(lang, i18n.KeyFiatRUB), Data: callback.Fiat("RUB")},
			{Text: tx.T(lang, i18n.KeyFiatUSD), Data: callback.Fiat("USD")},
		},
		[]keyboard.InlineBtn{
			{Text: tx.T(lang, i18n.KeyFiatBoth), Data: callback.Fiat(catalog.Both)},
		},
	)
}

// Crypto offers the assets two per row, then a way back to the fiat menu.
func Crypto(tx Texts, lang string) *tele.ReplyMarkup {
	cryptos := catalog.Cryptos()
	rows := make([][]keyboard.InlineBtn, 0, len(cryptos)/2+2)
	var row []keyboard.InlineBtn
	for _, c := range cryptos {
		row = append(row, keyboard.InlineBtn{
			Text: tx.T(lang, "crypto_"+strings.ToLower(c.Symbol)),
			Data: callback.Crypto(c.Symbol),
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	rows = append(rows, row, []keyboard.InlineBtn{
		{Text: tx.T(lang, i18n.KeyBackToFiat), Data: callback.Back(callback.BackFiat)},
	})
	return keyboard.InlineButtonsRows(rows...)
}

// Main is the main menu. The instruction entry is shown in private chats
// only; channelURL adds a link button when set.
func Main(tx Texts, lang string, private bool, channelURL string) *tele.ReplyMarkup {
	buttons := []keyboard.InlineBtn{
		{Text: tx.T(lang, i18n.KeyGetCurrencyRate), Data: callback.Main(callback.MainGetPrice)},
	}
	if private {
		buttons = append(buttons, keyboard.InlineBtn{Text: tx.T(lang, i18n.KeyInstruction), Data: callback.Main(callback.MainInstruction)})
	}
	buttons = append(buttons, keyboard.InlineBtn{Text: tx.T(lang, i18n.KeySettings), Data: callback.Main(callback.MainSettings)})
	if channelURL != "" {
		buttons = append(buttons, keyboard.InlineBtn{Text: tx.T(lang, i18n.KeyTGChannel), URL: channelURL})
	}
	return keyboard.InlineButtons(buttons...)
}

// BackToMenu is the single button attached to error and usage replies.
func BackToMenu(tx Texts, lang string) *tele.ReplyMarkup {
	return keyboard.InlineButtons(keyboard.InlineBtn{Text: tx.T(lang, i18n.KeyBackToMenu), Data: callback.Main(callback.MainMenu)})
}

// PriceActions follows a price message: open the chart, or go back to the asset list.
func PriceActions(tx Texts, lang, symbol string) *tele.ReplyMarkup {
	return keyboard.InlineButtons(
		keyboard.InlineBtn{Text: tx.T(lang, i18n.KeyShowChart), Data: callback.Chart(symbol)},
		keyboard.InlineBtn{Text: tx.T(lang, i18n.KeyBackToCrypto), Data: callback.Back(callback.BackCrypto)},
	)
}

// BackToPrice follows a chart and restores the price view it replaced.
func BackToPrice(tx Texts, lang, symbol, fiat string) *tele.ReplyMarkup {
	return keyboard.InlineButtons(keyboard.InlineBtn{Text: tx.T(lang, i18n.KeyBackToPrice), Data: callback.Price(symbol, fiat)})
}
