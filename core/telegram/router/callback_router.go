package router

import (
	"log/slog"
	"time"

	"github.com/m3rciful/coinbot/core/logger"
	tg "github.com/m3rciful/coinbot/core/telegram"
	"github.com/m3rciful/coinbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/coinbot/core/telegram/helpers"
	"github.com/m3rciful/coinbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute returns a handler that routes callbacks through the registry by action key.
// Acknowledgement is left to middleware.AckCallback.
func CallbackRoute(reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		key, payload := callbacks.Split(cb)
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		h, ok := reg.GetCallback(key)
		if !ok {
			h = reg.CallbackNotFound()
		}
		if h == nil {
			logger.Debug(tghelpers.WithHandler(c, name), logger.CompTG, "callback.unknown",
				slog.String("cb_key", logger.SanitizeLimit(key, 64)),
				slog.String("payload", logger.SanitizeLimit(payload, 128)),
			)
			logHandlerSummary(c, name, start, "skip", "ok", nil, extras...)
			return nil
		}
		return handleWithSummary(c, name, start, func() error { return h(c) }, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(handler),
	}
}
