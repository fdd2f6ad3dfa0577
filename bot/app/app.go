// Package app wires configuration, Telegram runtime and bot services together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/coinbot/bot/chart"
	"github.com/m3rciful/coinbot/bot/conversation"
	"github.com/m3rciful/coinbot/bot/i18n"
	"github.com/m3rciful/coinbot/bot/market"
	"github.com/m3rciful/coinbot/bot/price"
	"github.com/m3rciful/coinbot/bot/quickchart"
	"github.com/m3rciful/coinbot/bot/session"
	"github.com/m3rciful/coinbot/core/bootstrap"
	coreconfig "github.com/m3rciful/coinbot/core/config"
	"github.com/m3rciful/coinbot/core/logger"
	tg "github.com/m3rciful/coinbot/core/telegram"
	"github.com/m3rciful/coinbot/core/telegram/dispatch"
	"github.com/m3rciful/coinbot/core/telegram/router"
	"github.com/m3rciful/coinbot/core/telegram/sender"
)

// App is a fully wired bot ready to run.
type App struct {
	cfg          *Config
	bot          *tele.Bot
	exec         *dispatch.Executor
	registry     *tg.Registry
	conv         *conversation.Router
	sessions     *session.Store
	startMetrics func(ctx context.Context)
}

// newBot is replaced in tests to avoid talking to Telegram.
var newBot = func(cfg *coreconfig.Config, client *http.Client) (*tele.Bot, error) {
	return tg.NewBot(cfg, client)
}

// Bootstrap initializes logging and metrics, connects to Telegram and builds every service.
func Bootstrap(ctx context.Context, cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}
	res, err := bootstrap.Run(bootstrap.Options{Config: &cfg.Config})
	if err != nil {
		return nil, err
	}

	texts, err := i18n.New(cfg.Bot.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("app: locales: %w", err)
	}

	client := tg.BuildHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second)
	bot, err := newBot(&cfg.Config, client)
	if err != nil {
		return nil, err
	}

	out := sender.New(bot)
	mkt := market.NewClient(client, cfg.Bot.Market.BaseURL, cfg.Bot.Market.APIKey)
	renderer := quickchart.NewClient(client, cfg.Bot.Chart.BaseURL)
	sessions := session.NewStore(texts.Default())

	conv := conversation.New(conversation.Options{
		Sessions:  sessions,
		Texts:     texts,
		Messenger: out,
		Prices:    price.NewService(mkt, out, texts),
		Charts: chart.NewService(mkt, renderer, out, texts, chart.Options{
			Width:           cfg.Bot.Chart.Width,
			Height:          cfg.Bot.Chart.Height,
			Version:         cfg.Bot.Chart.Version,
			BackgroundColor: cfg.Bot.Chart.Background,
			DefaultDays:     cfg.Bot.Chart.DefaultDays,
		}),
		ChannelURL: cfg.Bot.ChannelURL,
	})

	reg := tg.NewRegistry()
	if err := conv.Register(reg); err != nil {
		return nil, fmt.Errorf("app: register handlers: %w", err)
	}

	exec := dispatch.New(dispatch.Options{
		Workers:   cfg.Dispatch.Workers,
		QueueSize: cfg.Dispatch.QueueSize,
	})

	logger.Info(ctx, logger.CompApp, "bootstrap.complete",
		slog.String("lang", texts.Default()),
		slog.Int("commands", len(reg.Commands())),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)

	return &App{
		cfg:          cfg,
		bot:          bot,
		exec:         exec,
		registry:     reg,
		conv:         conv,
		sessions:     sessions,
		startMetrics: res.StartMetrics,
	}, nil
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	if a == nil || a.bot == nil {
		return tg.RunOptions{}, fmt.Errorf("app: not bootstrapped")
	}
	routes := router.CommandRoutes(a.registry)
	routes = append(routes, router.CallbackRoute(a.registry))
	routes = append(routes, router.EventRoutes(router.EventOptions{AddedToGroup: a.conv.OnAddedToGroup})...)

	return tg.RunOptions{
		Config:      &a.cfg.Config,
		Bot:         a.bot,
		Registry:    a.registry,
		Executor:    a.exec,
		Middlewares: tg.DefaultMiddlewares(a.exec),
		Routes:      routes,
		OnStart: func(ctx context.Context, _ tg.Runtime) error {
			a.startMetrics(ctx)
			return nil
		},
		OnStop: func(ctx context.Context, _ tg.Runtime) error {
			logger.Info(ctx, logger.CompApp, "sessions", slog.Int("count", a.sessions.Len()))
			return nil
		},
	}, nil
}
