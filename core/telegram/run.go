package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	coreconfig "github.com/m3rciful/coinbot/core/config"
	"github.com/m3rciful/coinbot/core/logger"
	"github.com/m3rciful/coinbot/core/telegram/dispatch"

	tele "gopkg.in/telebot.v4"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls the behaviour of RunTelegram.
type RunOptions struct {
	Config   *coreconfig.Config
	Bot      *tele.Bot
	Registry *Registry
	Executor *dispatch.Executor

	Middlewares []Middleware
	Routes      []Route

	DisableWebhookCleanup bool

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Bot      *tele.Bot
	Executor *dispatch.Executor
	Registry *Registry
}

// NewBot builds a synchronous telebot instance: updates leave the poller one
// at a time and ordering across chats is left to the middleware chain.
func NewBot(cfg *coreconfig.Config, client *http.Client) (*tele.Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("telegram: nil config provided")
	}
	if client == nil {
		client = BuildHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second)
	}
	poller := BuildPoller(PollerOptions{
		RunMode:                cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		Webhook: WebhookOptions{
			Listen: cfg.Webhook.Listen,
			Port:   cfg.Webhook.Port,
			URL:    cfg.Webhook.URL,
		},
	})

	start := time.Now()
	bot, err := tele.NewBot(tele.Settings{
		Token:       cfg.Telegram.Token,
		Poller:      poller,
		Client:      client,
		Synchronous: true,
		OnError:     logBotError,
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: bot initialization failed: %w", redactToken(err))
	}

	switch p := poller.(type) {
	case *tele.Webhook:
		logger.Info(context.Background(), logger.CompTG, "mode",
			slog.String("mode", coreconfig.RunModeWebhook),
			slog.String("listen", p.Listen),
			slog.String("public_url", p.Endpoint.PublicURL),
			slog.Duration("duration", logger.Took(start)),
		)
	case *tele.LongPoller:
		logger.Info(context.Background(), logger.CompTG, "mode",
			slog.String("mode", coreconfig.RunModeLongpoll),
			slog.Duration("timeout", p.Timeout),
			slog.Duration("duration", logger.Took(start)),
		)
	}
	return bot, nil
}

// logBotError receives errors telebot could not hand to a handler, polling failures included.
func logBotError(err error, c tele.Context) {
	ctx := context.Background()
	if c != nil {
		if upd := c.Update(); upd.ID != 0 {
			ctx = logger.WithUpdateMeta(ctx, upd.ID, 0, 0)
		}
	}
	logger.Error(ctx, logger.CompTG, "polling.error",
		slog.String("err", dispatch.SanitizeError(err)),
		slog.String("error_kind", dispatch.ClassifyError(err)),
	)
}

type sanitizedError struct{ err error }

func (e sanitizedError) Error() string { return dispatch.SanitizeError(e.err) }
func (e sanitizedError) Unwrap() error { return e.err }

// redactToken hides the bot token that tele.NewBot errors may embed in URLs.
func redactToken(err error) error {
	return sanitizedError{err: err}
}

// RunTelegram wires middlewares and routes into opts.Bot and runs it until ctx is done.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("telegram: nil config provided")
	}

	bot := opts.Bot
	if bot == nil {
		var err error
		if bot, err = NewBot(opts.Config, nil); err != nil {
			return err
		}
	}
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}
	rt := Runtime{Bot: bot, Executor: opts.Executor, Registry: reg}

	if _, polling := bot.Poller.(*tele.LongPoller); polling && !opts.DisableWebhookCleanup {
		if err := bot.RemoveWebhook(false); err != nil {
			logger.Warn(ctx, logger.CompTG, "delete_webhook",
				slog.String("status", "fail"),
				slog.String("err", dispatch.SanitizeError(err)),
			)
		}
	}

	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			bot.Use(mw.Use)
		}
	}
	for _, route := range opts.Routes {
		if route.Endpoint != nil && route.Handler != nil {
			bot.Handle(route.Endpoint, route.Handler)
		}
	}
	InitBotCommands(bot, reg)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			closeExecutor(opts.Executor)
			return err
		}
	}

	runDone := make(chan struct{})
	go func() {
		bot.Start()
		close(runDone)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		bot.Stop()
		<-runDone
		runErr = ctx.Err()
	case <-runDone:
	}

	var stopErr error
	if opts.OnStop != nil {
		stopErr = opts.OnStop(context.WithoutCancel(ctx), rt)
	}
	closeExecutor(opts.Executor)

	if stopErr != nil {
		return stopErr
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func closeExecutor(exec *dispatch.Executor) {
	if exec != nil {
		exec.Close()
	}
}
