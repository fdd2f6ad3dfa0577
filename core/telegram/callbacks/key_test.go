package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		cb          *tele.Callback
		key, payload string
	}{
		{nil, "", ""},
		{&tele.Callback{Data: "crypto|BTC"}, "crypto", "BTC"},
		{&tele.Callback{Data: "price|ETH|BOTH"}, "price", "ETH|BOTH"},
		{&tele.Callback{Data: "\fmain|menu"}, "main", "menu"},
		{&tele.Callback{Data: "bare"}, "bare", ""},
		{&tele.Callback{Unique: "u", Data: "d"}, "u", "d"},
	}
	for _, tc := range cases {
		key, payload := Split(tc.cb)
		if key != tc.key || payload != tc.payload {
			t.Fatalf("Split(%+v) = %q,%q want %q,%q", tc.cb, key, payload, tc.key, tc.payload)
		}
	}
}
