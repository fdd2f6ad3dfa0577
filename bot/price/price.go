// Package price shows the current rate of an asset in one or both fiats.
package price

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/coinbot/bot/catalog"
	"github.com/m3rciful/coinbot/bot/i18n"
	"github.com/m3rciful/coinbot/bot/market"
	"github.com/m3rciful/coinbot/bot/menu"
	"github.com/m3rciful/coinbot/core/logger"
	"github.com/m3rciful/coinbot/core/telegram/format"
	"github.com/m3rciful/coinbot/core/telegram/sender"
)

// NotAvailable stands in for a fiat the provider left out of a BOTH answer.
const NotAvailable = "N/A"

// Texts resolves reply texts and menu labels. *i18n.Store satisfies it.
type Texts interface {
	menu.Texts
	Text(ctx context.Context, code, key string) string
}

// Source returns spot prices. *market.Client satisfies it.
type Source interface {
	SimplePrice(ctx context.Context, ids, vs []string) (market.Prices, error)
}

// Request selects what to show and where.
type Request struct {
	ChatID    int64
	MessageID int // edited in place when set, otherwise a new message is sent
	Crypto    string
	Fiat      string // a fiat code or catalog.Both
	Language  string
}

// Service renders price messages.
type Service struct {
	src   Source
	out   sender.Messenger
	texts Texts
}

func NewService(src Source, out sender.Messenger, texts Texts) *Service {
	return &Service{src: src, out: out, texts: texts}
}

// Show replies with the price or a localized failure. Problems are logged,
// never returned.
func (s *Service) Show(ctx context.Context, r Request) {
	attrs := []slog.Attr{
		slog.String("crypto", r.Crypto),
		slog.String("fiat", r.Fiat),
	}

	coin, ok := catalog.LookupCrypto(r.Crypto)
	if !ok {
		logger.Warn(ctx, logger.CompPrice, "price.unknown_crypto", attrs...)
		s.fail(ctx, r)
		return
	}
	fiats := requested(r.Fiat)
	vs := make([]string, len(fiats))
	for i, f := range fiats {
		vs[i] = f.Lower()
	}

	prices, err := s.src.SimplePrice(ctx, []string{coin.CoinID()}, vs)
	if err != nil {
		logger.Error(ctx, logger.CompPrice, "price.fetch.fail", append(attrs, logger.Err(err))...)
		s.fail(ctx, r)
		return
	}
	byFiat, ok := prices[coin.CoinID()]
	if !ok {
		logger.Debug(ctx, logger.CompPrice, "price.empty", attrs...)
		s.fail(ctx, r)
		return
	}
	if len(fiats) == 1 {
		if _, ok := byFiat[fiats[0].Lower()]; !ok {
			logger.Debug(ctx, logger.CompPrice, "price.empty", attrs...)
			s.fail(ctx, r)
			return
		}
	}

	text := Format(coin, fiats, byFiat)
	opts := &tele.SendOptions{
		ParseMode:   tele.ModeMarkdown,
		ReplyMarkup: menu.PriceActions(s.texts, r.Language, coin.Symbol),
	}
	s.reply(ctx, r, text, opts)
}

// Format renders the header and one line per fiat. Fiats missing from
// byFiat show NotAvailable.
func Format(coin catalog.Crypto, fiats []catalog.Fiat, byFiat map[string]decimal.Decimal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s (%s)*\n\n", coin.Emoji, format.EscapeMarkdown(coin.Name), coin.Symbol)
	for _, f := range fiats {
		value := NotAvailable
		if p, ok := byFiat[f.Lower()]; ok {
			value = FormatAmount(f, p)
		}
		fmt.Fprintf(&b, "%s %s%s\n", f.Emoji, f.Symbol, value)
	}
	return b.String()
}

// FormatAmount formats p with the grouping and decimal separator of the fiat's locale.
func FormatAmount(f catalog.Fiat, p decimal.Decimal) string {
	return message.NewPrinter(f.Locale).Sprint(number.Decimal(p.InexactFloat64(), number.MaxFractionDigits(3)))
}

// requested expands a fiat selection. Unknown or unset codes fall back to USD.
func requested(code string) []catalog.Fiat {
	if strings.EqualFold(code, catalog.Both) {
		return catalog.Fiats()
	}
	if f, ok := catalog.LookupFiat(code); ok {
		return []catalog.Fiat{f}
	}
	usd, _ := catalog.LookupFiat("USD")
	return []catalog.Fiat{usd}
}

func (s *Service) fail(ctx context.Context, r Request) {
	s.reply(ctx, r, s.texts.Text(ctx, r.Language, i18n.KeyPriceFetchError), &tele.SendOptions{
		ReplyMarkup: menu.BackToMenu(s.texts, r.Language),
	})
}

func (s *Service) reply(ctx context.Context, r Request, text string, opts *tele.SendOptions) {
	if r.MessageID != 0 {
		msg := &tele.StoredMessage{MessageID: strconv.Itoa(r.MessageID), ChatID: r.ChatID}
		_, _ = s.out.Edit(ctx, msg, text, opts)
		return
	}
	_, _ = s.out.Send(ctx, tele.ChatID(r.ChatID), text, opts)
}
