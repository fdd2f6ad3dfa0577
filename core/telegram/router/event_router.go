package router

import (
	"time"

	tg "github.com/m3rciful/coinbot/core/telegram"
	"github.com/m3rciful/coinbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// EventOptions binds handlers to non-command updates. Nil handlers are not routed.
type EventOptions struct {
	// AddedToGroup runs when the bot itself joins a group or supergroup.
	AddedToGroup tele.HandlerFunc
}

// EventRoutes builds routes for service updates such as membership changes.
func EventRoutes(opts EventOptions) []tg.Route {
	var routes []tg.Route
	if opts.AddedToGroup != nil {
		h := opts.AddedToGroup
		routes = append(routes, tg.Route{
			Endpoint: tele.OnAddedToGroup,
			Handler: middleware.RecoverMiddleware(func(c tele.Context) error {
				return handleWithSummary(c, "event.added_to_group", time.Now(), func() error { return h(c) })
			}),
		})
	}
	return routes
}
