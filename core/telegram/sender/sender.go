// Package sender is the outbound boundary towards Telegram: every send, edit
// and delete made by handlers goes through a Messenger.
package sender

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/m3rciful/coinbot/core/logger"
	"github.com/m3rciful/coinbot/core/metrics"
	"github.com/m3rciful/coinbot/core/telegram/dispatch"

	tele "gopkg.in/telebot.v4"
)

// Messenger sends, edits and deletes chat messages.
type Messenger interface {
	Send(ctx context.Context, to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(ctx context.Context, msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(ctx context.Context, msg tele.Editable) error
}

// API is the subset of *tele.Bot used by Sender.
type API interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
}

// Sender implements Messenger on top of the Telegram API with logging, metrics and per-update counters.
type Sender struct {
	api API
}

// New wraps api, typically a *tele.Bot.
func New(api API) *Sender {
	return &Sender{api: api}
}

func (s *Sender) Send(ctx context.Context, to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	action := "send.text"
	if _, ok := what.(*tele.Photo); ok {
		action = "send.photo"
	}
	msg, err := s.api.Send(to, what, opts...)
	s.record(ctx, action, err, hasKeyboard(opts))
	return msg, err
}

func (s *Sender) Edit(ctx context.Context, msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error) {
	out, err := s.api.Edit(msg, what, opts...)
	s.record(ctx, "edit.text", err, hasKeyboard(opts))
	return out, err
}

func (s *Sender) Delete(ctx context.Context, msg tele.Editable) error {
	err := s.api.Delete(msg)
	s.record(ctx, "delete", err, false)
	return err
}

func (s *Sender) record(ctx context.Context, action string, err error, kb bool) {
	if err != nil {
		metrics.RecordMessageSent(action, "fail")
		logger.Warn(ctx, logger.CompSender, "send.fail",
			slog.String("action", action),
			slog.String("err", dispatch.SanitizeError(err)),
			slog.String("error_kind", dispatch.ClassifyError(err)),
		)
		return
	}
	metrics.RecordMessageSent(action, "ok")
	if c := CounterFrom(ctx); c != nil {
		c.messages.Add(1)
		if kb {
			c.kb.Store(true)
		}
	}
}

func hasKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

// Counter tallies successful outbound calls made while handling one update.
type Counter struct {
	messages atomic.Int64
	kb       atomic.Bool
}

// Messages reports how many messages were sent or edited.
func (c *Counter) Messages() int {
	if c == nil {
		return 0
	}
	return int(c.messages.Load())
}

// Keyboard reports whether any of them carried reply markup.
func (c *Counter) Keyboard() bool {
	return c != nil && c.kb.Load()
}

type counterKey struct{}

// WithCounter attaches c to ctx.
func WithCounter(ctx context.Context, c *Counter) context.Context {
	return context.WithValue(ctx, counterKey{}, c)
}

// CounterFrom returns the counter attached to ctx, if any.
func CounterFrom(ctx context.Context) *Counter {
	if ctx == nil {
		return nil
	}
	c, _ := ctx.Value(counterKey{}).(*Counter)
	return c
}
