// Package chart renders historical price charts and posts them as photos.
package chart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/coinbot/bot/catalog"
	"github.com/m3rciful/coinbot/bot/i18n"
	"github.com/m3rciful/coinbot/bot/market"
	"github.com/m3rciful/coinbot/bot/menu"
	"github.com/m3rciful/coinbot/bot/quickchart"
	"github.com/m3rciful/coinbot/core/logger"
	"github.com/m3rciful/coinbot/core/telegram/sender"
)

// Texts resolves reply texts and menu labels. *i18n.Store satisfies it.
type Texts interface {
	menu.Texts
	Text(ctx context.Context, code, key string) string
}

// Source returns historical prices. *market.Client satisfies it.
type Source interface {
	MarketChart(ctx context.Context, id, vs string, days int) ([]market.Point, error)
}

// Renderer turns a chart configuration into an image URL. *quickchart.Client satisfies it.
type Renderer interface {
	Create(ctx context.Context, r quickchart.Request) (string, error)
}

// Options are the rendering parameters.
type Options struct {
	Width           int
	Height          int
	Version         string
	BackgroundColor string
	DefaultDays     int // used when a request carries no period
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 500
	}
	if o.Height <= 0 {
		o.Height = 300
	}
	if o.Version == "" {
		o.Version = "2.9.4"
	}
	if o.DefaultDays <= 0 {
		o.DefaultDays = 7
	}
	return o
}

// Request selects what to chart and where.
type Request struct {
	ChatID           int64
	Crypto           string
	Fiat             string // a fiat code or catalog.Both; Both charts USD
	Days             int
	Language         string
	ReplaceMessageID int // deleted before the photo is posted when set
	ShowBackButton   bool
}

// Service fetches, renders and posts charts.
type Service struct {
	src    Source
	render Renderer
	out    sender.Messenger
	texts  Texts
	opts   Options
}

func NewService(src Source, render Renderer, out sender.Messenger, texts Texts, opts Options) *Service {
	return &Service{src: src, render: render, out: out, texts: texts, opts: opts.withDefaults()}
}

var errUnknownCrypto = errors.New("unknown crypto")

// Send posts the chart or a localized failure. Problems are logged, never returned.
func (s *Service) Send(ctx context.Context, r Request) {
	if r.Days <= 0 {
		r.Days = s.opts.DefaultDays
	}
	fiatCode, ok := catalog.NormalizeFiat(r.Fiat)
	if !ok {
		fiatCode = "USD"
	}
	chartFiat := fiatCode
	if chartFiat == catalog.Both {
		chartFiat = "USD"
	}
	fiat, _ := catalog.LookupFiat(chartFiat)

	attrs := []slog.Attr{
		slog.String("crypto", r.Crypto),
		slog.String("fiat", fiat.Code),
		slog.Int("days", r.Days),
	}

	coin, ok := catalog.LookupCrypto(r.Crypto)
	if !ok {
		s.fail(ctx, r, append(attrs, logger.Err(errUnknownCrypto)))
		return
	}

	points, err := s.src.MarketChart(ctx, coin.CoinID(), fiat.Lower(), r.Days)
	if err != nil {
		s.fail(ctx, r, append(attrs, logger.Err(fmt.Errorf("fetch series: %w", err))))
		return
	}
	if len(points) == 0 {
		logger.Debug(ctx, logger.CompChart, "chart.empty", attrs...)
		_, _ = s.out.Send(ctx, tele.ChatID(r.ChatID), s.texts.Text(ctx, r.Language, i18n.KeyChartNoData),
			&tele.SendOptions{ReplyMarkup: menu.BackToMenu(s.texts, r.Language)})
		return
	}

	url, err := s.render.Create(ctx, quickchart.Request{
		Chart:           BuildConfig(coin, fiat, r.Days, points),
		Width:           s.opts.Width,
		Height:          s.opts.Height,
		Version:         s.opts.Version,
		BackgroundColor: s.opts.BackgroundColor,
	})
	if err != nil {
		s.fail(ctx, r, append(attrs, logger.Err(fmt.Errorf("render: %w", err))))
		return
	}

	if r.ReplaceMessageID != 0 {
		// A text message cannot be edited into a photo; a failed delete leaves the old one in place.
		_ = s.out.Delete(ctx, &tele.StoredMessage{MessageID: strconv.Itoa(r.ReplaceMessageID), ChatID: r.ChatID})
	}

	opts := &tele.SendOptions{}
	if r.ShowBackButton {
		opts.ReplyMarkup = menu.BackToPrice(s.texts, r.Language, coin.Symbol, fiatCode)
	}
	photo := &tele.Photo{File: tele.FromURL(url)}
	if _, err := s.out.Send(ctx, tele.ChatID(r.ChatID), photo, opts); err != nil {
		s.fail(ctx, r, append(attrs, logger.Err(fmt.Errorf("send photo: %w", err))))
		return
	}
	logger.Debug(ctx, logger.CompChart, "chart.sent", append(attrs, slog.Int("points", len(points)))...)
}

func (s *Service) fail(ctx context.Context, r Request, attrs []slog.Attr) {
	logger.Error(ctx, logger.CompChart, "chart.fail", attrs...)
	_, _ = s.out.Send(ctx, tele.ChatID(r.ChatID), s.texts.Text(ctx, r.Language, i18n.KeyChartFetchError),
		&tele.SendOptions{ReplyMarkup: menu.BackToMenu(s.texts, r.Language)})
}
