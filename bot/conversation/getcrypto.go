package conversation

import (
	"context"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/coinbot/bot/catalog"
	"github.com/m3rciful/coinbot/bot/chart"
	"github.com/m3rciful/coinbot/bot/menu"
	"github.com/m3rciful/coinbot/bot/price"
)

const getCryptoUsage = "Usage: /getcrypto <lang> <fiat> <crypto> <period>\nExample: /getcrypto en_us usd btc 7d"

type getCryptoArgs struct {
	Lang   string `arg:"" name:"lang"`
	Fiat   string `arg:"" name:"fiat"`
	Crypto string `arg:"" name:"crypto"`
	Period string `arg:"" name:"period"`
}

func parseGetCrypto(payload string) (getCryptoArgs, error) {
	var args getCryptoArgs
	parser, err := kong.New(&args,
		kong.Name("getcrypto"),
		kong.NoDefaultHelp(),
		kong.Exit(func(int) {}),
		kong.Writers(io.Discard, io.Discard),
	)
	if err != nil {
		return args, err
	}
	_, err = parser.Parse(strings.Fields(payload))
	return args, err
}

// GetCrypto answers "/getcrypto <lang> <fiat> <crypto> <period>" with a price
// message followed by a chart, both new messages in the requested language.
// Invalid input gets a usage reply; the session is never touched.
func (r *Router) GetCrypto(ctx context.Context, chatID int64, payload string) error {
	lang := r.language(chatID)
	args, err := parseGetCrypto(payload)
	if err != nil {
		return r.reject(ctx, chatID, lang, getCryptoUsage)
	}

	if !r.texts.Has(args.Lang) {
		return r.reject(ctx, chatID, lang, "Invalid language. Available: "+strings.Join(r.texts.Codes(), ", "))
	}
	lang = args.Lang

	fiat, ok := catalog.NormalizeFiat(args.Fiat)
	if !ok {
		codes := make([]string, 0, 2)
		for _, f := range catalog.Fiats() {
			codes = append(codes, f.Code)
		}
		return r.reject(ctx, chatID, lang, "Invalid fiat currency. Available: "+strings.Join(codes, ", ")+", or "+catalog.Both)
	}
	coin, ok := catalog.LookupCrypto(args.Crypto)
	if !ok {
		return r.reject(ctx, chatID, lang, "Invalid crypto currency. Available: "+strings.Join(catalog.CryptoSymbols(), ", "))
	}
	period, ok := catalog.LookupPeriod(args.Period)
	if !ok {
		return r.reject(ctx, chatID, lang, "Invalid period. Available: "+strings.Join(catalog.PeriodLabels(), ", "))
	}

	// The two replies are independent: a failed chart does not retract the price.
	r.prices.Show(ctx, price.Request{ChatID: chatID, Crypto: coin.Symbol, Fiat: fiat, Language: lang})
	r.charts.Send(ctx, chart.Request{ChatID: chatID, Crypto: coin.Symbol, Fiat: fiat, Days: period.Days, Language: lang})
	return nil
}

func (r *Router) reject(ctx context.Context, chatID int64, lang, text string) error {
	_, err := r.out.Send(ctx, tele.ChatID(chatID), text, &tele.SendOptions{ReplyMarkup: menu.BackToMenu(r.texts, lang)})
	return err
}
