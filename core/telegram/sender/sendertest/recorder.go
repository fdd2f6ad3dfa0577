// Package sendertest provides a recording sender.Messenger for tests.
package sendertest

import (
	"context"
	"strconv"
	"sync"

	tele "gopkg.in/telebot.v4"
)

// Call is one recorded outbound operation.
type Call struct {
	Op        string // send, edit or delete
	ChatID    int64
	MessageID string // edit and delete targets
	Text      string // text body or photo URL
	Photo     bool
	Markup    *tele.ReplyMarkup
	ParseMode tele.ParseMode
}

// Recorder records every call. Err, when set, is returned by all of them.
// DeleteErr fails only deletes.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	next  int

	Err       error
	DeleteErr error
}

func (r *Recorder) Send(_ context.Context, to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	chatID, _ := strconv.ParseInt(to.Recipient(), 10, 64)
	c := Call{Op: "send", ChatID: chatID}
	fill(&c, what, opts)
	return r.add(c)
}

func (r *Recorder) Edit(_ context.Context, msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error) {
	id, chatID := msg.MessageSig()
	c := Call{Op: "edit", ChatID: chatID, MessageID: id}
	fill(&c, what, opts)
	return r.add(c)
}

func (r *Recorder) Delete(_ context.Context, msg tele.Editable) error {
	id, chatID := msg.MessageSig()
	if _, err := r.add(Call{Op: "delete", ChatID: chatID, MessageID: id}); err != nil {
		return err
	}
	return r.DeleteErr
}

// Calls returns a copy of everything recorded so far.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Last returns the most recent call, or a zero Call.
func (r *Recorder) Last() Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}
	}
	return r.calls[len(r.calls)-1]
}

// Reset forgets recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

func (r *Recorder) add(c Call) (*tele.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	if r.Err != nil {
		return nil, r.Err
	}
	r.next++
	return &tele.Message{ID: 1000 + r.next, Chat: &tele.Chat{ID: c.ChatID}}, nil
}

func fill(c *Call, what interface{}, opts []interface{}) {
	switch v := what.(type) {
	case string:
		c.Text = v
	case *tele.Photo:
		c.Photo = true
		c.Text = v.FileURL
	}
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil {
				c.Markup = v.ReplyMarkup
				c.ParseMode = v.ParseMode
			}
		case *tele.ReplyMarkup:
			c.Markup = v
		case tele.ParseMode:
			c.ParseMode = v
		}
	}
}

// Buttons flattens a markup's inline keyboard.
func Buttons(m *tele.ReplyMarkup) []tele.InlineButton {
	if m == nil {
		return nil
	}
	var out []tele.InlineButton
	for _, row := range m.InlineKeyboard {
		out = append(out, row...)
	}
	return out
}
