package sender

import (
	"context"
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"
)

type stubAPI struct {
	err   error
	calls []string
}

func (s *stubAPI) Send(tele.Recipient, interface{}, ...interface{}) (*tele.Message, error) {
	s.calls = append(s.calls, "send")
	return &tele.Message{ID: 1}, s.err
}

func (s *stubAPI) Edit(tele.Editable, interface{}, ...interface{}) (*tele.Message, error) {
	s.calls = append(s.calls, "edit")
	return &tele.Message{ID: 1}, s.err
}

func (s *stubAPI) Delete(tele.Editable) error {
	s.calls = append(s.calls, "delete")
	return s.err
}

func TestSenderCountsSuccessfulCalls(t *testing.T) {
	api := &stubAPI{}
	s := New(api)
	counter := &Counter{}
	ctx := WithCounter(context.Background(), counter)

	markup := &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{{{Text: "x", Data: "y"}}}}
	if _, err := s.Send(ctx, tele.ChatID(1), "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := s.Edit(ctx, tele.StoredMessage{MessageID: "5", ChatID: 1}, "hi", &tele.SendOptions{ReplyMarkup: markup}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := s.Delete(ctx, tele.StoredMessage{MessageID: "5", ChatID: 1}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if counter.Messages() != 3 {
		t.Fatalf("messages = %d, want 3", counter.Messages())
	}
	if !counter.Keyboard() {
		t.Fatal("keyboard flag not set")
	}
}

func TestSenderDoesNotCountFailures(t *testing.T) {
	api := &stubAPI{err: errors.New("telegram: Bad Request (400)")}
	s := New(api)
	counter := &Counter{}
	ctx := WithCounter(context.Background(), counter)

	if _, err := s.Send(ctx, tele.ChatID(1), "hi"); err == nil {
		t.Fatal("expected error to propagate")
	}
	if counter.Messages() != 0 {
		t.Fatalf("messages = %d, want 0", counter.Messages())
	}
}

func TestCounterFromMissing(t *testing.T) {
	if CounterFrom(context.Background()) != nil {
		t.Fatal("expected nil counter")
	}
	var c *Counter
	if c.Messages() != 0 || c.Keyboard() {
		t.Fatal("nil counter must report zero")
	}
}
