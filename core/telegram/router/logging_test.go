package router

import (
	"errors"
	"fmt"
	"testing"

	tele "gopkg.in/telebot.v4"
)

type codedErr struct{}

func (codedErr) Error() string { return "coded" }
func (codedErr) Code() string  { return "market status" }

type plainErr struct{}

func (*plainErr) Error() string { return "plain" }

func TestDeriveErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("wrapped: %w", codedErr{}), "MARKET_STATUS"},
		{&plainErr{}, "PLAINERR"},
		{fmt.Errorf("telebot: %w", tele.ErrMessageNotModified), "TG_400"},
		{errors.New("x"), "ERRORSTRING"},
	}
	for _, tc := range cases {
		if got := deriveErrorCode(tc.err); got != tc.want {
			t.Fatalf("deriveErrorCode(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestNormalizeHandlerName(t *testing.T) {
	if got := normalizeHandlerName("/GetCrypto"); got != "getcrypto" {
		t.Fatalf("got %q", got)
	}
	if got := normalizeHandlerName(" "); got != "unknown" {
		t.Fatalf("got %q", got)
	}
}
