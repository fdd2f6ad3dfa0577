package middleware

import (
	"github.com/m3rciful/coinbot/core/logger"
	tghelpers "github.com/m3rciful/coinbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AckCallback answers a callback query on the calling goroutine and then
// passes the update on. It must run before Serial so a busy shard never
// holds back the acknowledgement.
func AckCallback(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Callback() != nil {
			if err := c.Respond(); err != nil {
				logger.Debug(tghelpers.BuildContext(c), logger.CompTG, "callback.ack.fail", logger.Err(err))
			}
		}
		return next(c)
	}
}
