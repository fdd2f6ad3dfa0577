package middleware

import (
	"github.com/m3rciful/coinbot/core/metrics"
	tghelpers "github.com/m3rciful/coinbot/core/telegram/helpers"
	"github.com/m3rciful/coinbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

const counterKey = "msg_counter"

// MessageMetricsMiddleware counts the update by kind and attaches a
// sender.Counter so handlers' outbound messages are tallied per update.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		metrics.RecordUpdate(updateKind(c.Update()))
		counter := &sender.Counter{}
		c.Set(counterKey, counter)
		tghelpers.StoreContext(c, sender.WithCounter(tghelpers.BuildContext(c), counter))
		return next(c)
	}
}

// GetCounters reads message count and keyboard presence flags for the current update.
func GetCounters(c tele.Context) (int, bool) {
	counter, _ := c.Get(counterKey).(*sender.Counter)
	return counter.Messages(), counter.Keyboard()
}

func updateKind(u tele.Update) string {
	switch {
	case u.Callback != nil:
		return "callback"
	case u.Message != nil && len(u.Message.UsersJoined) > 0:
		return "members"
	case u.Message != nil:
		return "message"
	case u.MyChatMember != nil:
		return "my_chat_member"
	default:
		return "other"
	}
}
