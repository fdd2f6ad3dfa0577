package telegram

import (
	"github.com/m3rciful/coinbot/core/telegram/dispatch"
	"github.com/m3rciful/coinbot/core/telegram/middleware"
)

// DefaultMiddlewares builds the shared middleware chain for bots.
// When exec is non-nil, handlers run on it keyed by chat instead of on the poller goroutine.
func DefaultMiddlewares(exec *dispatch.Executor) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
		{Name: "ack", Use: middleware.AckCallback},
	}
	if exec != nil {
		mws = append(mws, Middleware{Name: "serial", Use: middleware.Serial(exec)})
	}
	return mws
}
