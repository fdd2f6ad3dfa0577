// Package conversation drives the per-chat menu flow: it decodes button
// presses and commands, updates the chat's session and hands off to the
// price and chart services.
package conversation

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/coinbot/bot/callback"
	"github.com/m3rciful/coinbot/bot/catalog"
	"github.com/m3rciful/coinbot/bot/chart"
	"github.com/m3rciful/coinbot/bot/i18n"
	"github.com/m3rciful/coinbot/bot/menu"
	"github.com/m3rciful/coinbot/bot/price"
	"github.com/m3rciful/coinbot/bot/session"
	"github.com/m3rciful/coinbot/core/logger"
	"github.com/m3rciful/coinbot/core/telegram/sender"
)

// Texts resolves interface strings and knows which languages exist.
type Texts interface {
	menu.Texts
	Text(ctx context.Context, code, key string) string
	Has(code string) bool
	Resolve(code string) string
}

// PriceShower is implemented by *price.Service.
type PriceShower interface {
	Show(ctx context.Context, r price.Request)
}

// ChartSender is implemented by *chart.Service.
type ChartSender interface {
	Send(ctx context.Context, r chart.Request)
}

// Options wires a Router.
type Options struct {
	Sessions   *session.Store
	Texts      Texts
	Messenger  sender.Messenger
	Prices     PriceShower
	Charts     ChartSender
	ChannelURL string
}

// Router owns the session store and reacts to chat input.
type Router struct {
	sessions   *session.Store
	texts      Texts
	out        sender.Messenger
	prices     PriceShower
	charts     ChartSender
	channelURL string
}

func New(opts Options) *Router {
	return &Router{
		sessions:   opts.Sessions,
		texts:      opts.Texts,
		out:        opts.Messenger,
		prices:     opts.Prices,
		charts:     opts.Charts,
		channelURL: opts.ChannelURL,
	}
}

// Callback is a button press on one of the bot's messages.
type Callback struct {
	ChatID    int64
	MessageID int
	Private   bool
	Data      string
}

// HandleCallback applies a button press. Payloads that do not decode, or
// that carry values outside the catalogs, are logged and otherwise ignored.
func (r *Router) HandleCallback(ctx context.Context, cb Callback) error {
	p, err := callback.Decode(cb.Data)
	if err != nil {
		r.ignore(ctx, cb, err.Error())
		return nil
	}
	sess := r.sessions.GetOrCreate(cb.ChatID)
	lang := r.texts.Resolve(sess.Language)

	switch p.Action {
	case callback.ActionLang:
		if !r.texts.Has(p.Value) {
			r.ignore(ctx, cb, "unknown language")
			return nil
		}
		r.sessions.SetLanguage(cb.ChatID, p.Value)
		return r.edit(ctx, cb, r.texts.Text(ctx, p.Value, i18n.KeySelectPeriod), menu.Period(r.texts, p.Value))

	case callback.ActionPeriod:
		days, err := p.Days()
		if err != nil {
			r.ignore(ctx, cb, err.Error())
			return nil
		}
		if !knownPeriod(days) {
			r.ignore(ctx, cb, "unknown period")
			return nil
		}
		r.sessions.SetPeriod(cb.ChatID, days)
		return r.edit(ctx, cb, r.texts.Text(ctx, lang, i18n.KeyWelcome), r.mainMenu(lang, cb.Private))

	case callback.ActionMain:
		return r.handleMain(ctx, cb, lang, p.Value)

	case callback.ActionFiat:
		fiat, ok := catalog.NormalizeFiat(p.Value)
		if !ok {
			r.ignore(ctx, cb, "unknown fiat")
			return nil
		}
		r.sessions.SetFiat(cb.ChatID, fiat)
		return r.edit(ctx, cb, r.texts.Text(ctx, lang, i18n.KeySelectCrypto), menu.Crypto(r.texts, lang))

	case callback.ActionCrypto:
		coin, ok := catalog.LookupCrypto(p.Value)
		if !ok {
			r.ignore(ctx, cb, "unknown crypto")
			return nil
		}
		sess = r.sessions.SetCrypto(cb.ChatID, coin.Symbol)
		r.prices.Show(ctx, price.Request{
			ChatID:    cb.ChatID,
			MessageID: cb.MessageID,
			Crypto:    coin.Symbol,
			Fiat:      sess.Fiat,
			Language:  lang,
		})
		return nil

	case callback.ActionBack:
		switch p.Value {
		case callback.BackFiat:
			return r.edit(ctx, cb, r.texts.Text(ctx, lang, i18n.KeySelectFiat), menu.Fiat(r.texts, lang))
		case callback.BackCrypto:
			return r.edit(ctx, cb, r.texts.Text(ctx, lang, i18n.KeySelectCrypto), menu.Crypto(r.texts, lang))
		}
		r.ignore(ctx, cb, "unknown back target")
		return nil

	case callback.ActionChart:
		coin, ok := catalog.LookupCrypto(p.Value)
		if !ok {
			r.ignore(ctx, cb, "unknown crypto")
			return nil
		}
		r.charts.Send(ctx, chart.Request{
			ChatID:           cb.ChatID,
			Crypto:           coin.Symbol,
			Fiat:             sess.Fiat,
			Days:             sess.Period,
			Language:         lang,
			ReplaceMessageID: cb.MessageID,
			ShowBackButton:   true,
		})
		return nil

	case callback.ActionPrice:
		coin, okCoin := catalog.LookupCrypto(p.Value)
		fiat, okFiat := catalog.NormalizeFiat(p.Extra)
		if !okCoin || !okFiat {
			r.ignore(ctx, cb, "unknown crypto or fiat")
			return nil
		}
		r.sessions.Update(cb.ChatID, func(s *session.Session) {
			s.Crypto = coin.Symbol
			s.Fiat = fiat
		})
		// The sender logs a failed delete; the price view is shown either way.
		_ = r.out.Delete(ctx, r.message(cb))
		r.prices.Show(ctx, price.Request{ChatID: cb.ChatID, Crypto: coin.Symbol, Fiat: fiat, Language: lang})
		return nil
	}

	r.ignore(ctx, cb, "unhandled action")
	return nil
}

func (r *Router) handleMain(ctx context.Context, cb Callback, lang, item string) error {
	switch item {
	case callback.MainGetPrice:
		return r.edit(ctx, cb, r.texts.Text(ctx, lang, i18n.KeySelectFiat), menu.Fiat(r.texts, lang))
	case callback.MainSettings:
		return r.edit(ctx, cb, r.texts.Text(ctx, lang, i18n.KeySelectLanguage), menu.Language(r.texts))
	case callback.MainInstruction:
		_ = r.out.Delete(ctx, r.message(cb))
		if _, err := r.out.Send(ctx, tele.ChatID(cb.ChatID), r.texts.Text(ctx, lang, i18n.KeyInstructionTextPrivate)); err != nil {
			return err
		}
		return r.send(ctx, cb.ChatID, r.texts.Text(ctx, lang, i18n.KeyWelcome), r.mainMenu(lang, cb.Private))
	case callback.MainMenu:
		return r.edit(ctx, cb, r.texts.Text(ctx, lang, i18n.KeyWelcome), r.mainMenu(lang, cb.Private))
	}
	r.ignore(ctx, cb, "unknown menu item")
	return nil
}

// Start offers the language picker, prompting in every language at once.
func (r *Router) Start(ctx context.Context, chatID int64) error {
	return r.send(ctx, chatID, menu.LanguagePrompt(r.texts), menu.Language(r.texts))
}

// Menu shows the main menu in the chat's language.
func (r *Router) Menu(ctx context.Context, chatID int64, private bool) error {
	lang := r.language(chatID)
	return r.send(ctx, chatID, r.texts.Text(ctx, lang, i18n.KeyWelcome), r.mainMenu(lang, private))
}

// AddedToGroup greets a group the bot has just joined and explains the
// command syntax used there.
func (r *Router) AddedToGroup(ctx context.Context, chatID int64) error {
	lang := r.language(chatID)
	text := r.texts.Text(ctx, lang, i18n.KeyWelcomeGroup) + "\n\n" + r.texts.Text(ctx, lang, i18n.KeyInstructionTextGroup)
	_, err := r.out.Send(ctx, tele.ChatID(chatID), text)
	return err
}

func knownPeriod(days int) bool {
	for _, p := range catalog.Periods() {
		if p.Days == days {
			return true
		}
	}
	return false
}

func (r *Router) language(chatID int64) string {
	return r.texts.Resolve(r.sessions.Get(chatID).Language)
}

func (r *Router) mainMenu(lang string, private bool) *tele.ReplyMarkup {
	return menu.Main(r.texts, lang, private, r.channelURL)
}

func (r *Router) message(cb Callback) tele.Editable {
	return &tele.StoredMessage{MessageID: strconv.Itoa(cb.MessageID), ChatID: cb.ChatID}
}

func (r *Router) edit(ctx context.Context, cb Callback, text string, markup *tele.ReplyMarkup) error {
	_, err := r.out.Edit(ctx, r.message(cb), text, &tele.SendOptions{ReplyMarkup: markup})
	if errors.Is(err, tele.ErrMessageNotModified) {
		return nil
	}
	return err
}

func (r *Router) send(ctx context.Context, chatID int64, text string, markup *tele.ReplyMarkup) error {
	_, err := r.out.Send(ctx, tele.ChatID(chatID), text, &tele.SendOptions{ReplyMarkup: markup})
	return err
}

func (r *Router) ignore(ctx context.Context, cb Callback, reason string) {
	logger.Debug(ctx, logger.CompTG, "callback.ignored",
		slog.String("payload", logger.SanitizeLimit(cb.Data, 64)),
		slog.String("reason", reason),
	)
}
