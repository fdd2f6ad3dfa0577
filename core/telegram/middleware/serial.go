package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m3rciful/coinbot/core/logger"
	"github.com/m3rciful/coinbot/core/telegram/dispatch"
	tghelpers "github.com/m3rciful/coinbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Serial hands each update to exec keyed by chat id and returns once it is queued.
// Updates of the same chat therefore run one after another in arrival order.
func Serial(exec *dispatch.Executor) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			ctx := tghelpers.BuildContext(c)
			var key int64
			if chat := c.Chat(); chat != nil {
				key = chat.ID
			} else if user := c.Sender(); user != nil {
				key = user.ID
			}
			err := exec.Submit(ctx, key, "update", func(context.Context) error {
				return next(c)
			})
			if errors.Is(err, dispatch.ErrClosed) {
				logger.Warn(ctx, logger.CompDispatch, "update.dropped",
					slog.String("cause", "executor closed"),
				)
				return nil
			}
			return err
		}
	}
}
