package price

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/coinbot/bot/catalog"
	"github.com/m3rciful/coinbot/bot/i18n"
	"github.com/m3rciful/coinbot/bot/market"
	"github.com/m3rciful/coinbot/core/telegram/sender/sendertest"
)

type fakeSource struct {
	prices market.Prices
	err    error
	ids    []string
	vs     []string
}

func (f *fakeSource) SimplePrice(_ context.Context, ids, vs []string) (market.Prices, error) {
	f.ids, f.vs = ids, vs
	return f.prices, f.err
}

func newService(t *testing.T, src Source) (*Service, *sendertest.Recorder, *i18n.Store) {
	t.Helper()
	tx, err := i18n.New("")
	if err != nil {
		t.Fatalf("i18n.New: %v", err)
	}
	rec := &sendertest.Recorder{}
	return NewService(src, rec, tx), rec, tx
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestShowSingleFiatEditsInPlace(t *testing.T) {
	src := &fakeSource{prices: market.Prices{"bitcoin": {"usd": d("64000.5")}}}
	svc, rec, _ := newService(t, src)

	svc.Show(context.Background(), Request{ChatID: 5, MessageID: 77, Crypto: "BTC", Fiat: "USD", Language: i18n.English})

	if strings.Join(src.ids, ",") != "bitcoin" || strings.Join(src.vs, ",") != "usd" {
		t.Fatalf("query ids=%v vs=%v", src.ids, src.vs)
	}
	calls := rec.Calls()
	if len(calls) != 1 || calls[0].Op != "edit" || calls[0].MessageID != "77" {
		t.Fatalf("calls=%+v", calls)
	}
	want := "₿ *Bitcoin (BTC)*\n\n🇺🇸 $64,000.5\n"
	if calls[0].Text != want {
		t.Fatalf("text=%q want %q", calls[0].Text, want)
	}
	if calls[0].ParseMode != tele.ModeMarkdown {
		t.Fatalf("parse mode=%q", calls[0].ParseMode)
	}
	btns := sendertest.Buttons(calls[0].Markup)
	if len(btns) != 2 || btns[0].Data != "chart|BTC" || btns[1].Data != "back|crypto" {
		t.Fatalf("buttons=%+v", btns)
	}
}

func TestShowBothWithOneMissing(t *testing.T) {
	src := &fakeSource{prices: market.Prices{"bitcoin": {"usd": d("100")}}}
	svc, rec, _ := newService(t, src)

	svc.Show(context.Background(), Request{ChatID: 5, Crypto: "BTC", Fiat: "BOTH", Language: i18n.Russian})

	if strings.Join(src.vs, ",") != "usd,rub" {
		t.Fatalf("vs=%v", src.vs)
	}
	call := rec.Last()
	if call.Op != "send" {
		t.Fatalf("op=%s", call.Op)
	}
	if !strings.Contains(call.Text, "🇺🇸 $100\n") || !strings.Contains(call.Text, "🇷🇺 ₽N/A\n") {
		t.Fatalf("text=%q", call.Text)
	}
}

func TestShowBothWithBothPresent(t *testing.T) {
	src := &fakeSource{prices: market.Prices{"ethereum": {"usd": d("2500.25"), "rub": d("230000.75")}}}
	svc, rec, _ := newService(t, src)

	svc.Show(context.Background(), Request{ChatID: 5, Crypto: "eth", Fiat: "both", Language: i18n.English})

	text := rec.Last().Text
	if !strings.Contains(text, "$2,500.25") {
		t.Fatalf("usd line: %q", text)
	}
	if !strings.Contains(text, "230") || !strings.Contains(text, ",75") || strings.Contains(text, "N/A") {
		t.Fatalf("rub line: %q", text)
	}
}

func TestShowNoAssetData(t *testing.T) {
	svc, rec, tx := newService(t, &fakeSource{prices: market.Prices{}})

	svc.Show(context.Background(), Request{ChatID: 5, Crypto: "SOL", Fiat: "RUB", Language: i18n.English})

	call := rec.Last()
	if call.Text != tx.T(i18n.English, i18n.KeyPriceFetchError) {
		t.Fatalf("text=%q", call.Text)
	}
	if btns := sendertest.Buttons(call.Markup); len(btns) != 1 || btns[0].Data != "main|menu" {
		t.Fatalf("buttons=%+v", btns)
	}
}

func TestShowSingleFiatMissing(t *testing.T) {
	svc, rec, tx := newService(t, &fakeSource{prices: market.Prices{"solana": {"usd": d("1")}}})

	svc.Show(context.Background(), Request{ChatID: 5, Crypto: "SOL", Fiat: "RUB", Language: i18n.Russian})

	if rec.Last().Text != tx.T(i18n.Russian, i18n.KeyPriceFetchError) {
		t.Fatalf("text=%q", rec.Last().Text)
	}
}

func TestShowProviderErrorEdits(t *testing.T) {
	svc, rec, tx := newService(t, &fakeSource{err: errors.New("boom")})

	svc.Show(context.Background(), Request{ChatID: 5, MessageID: 9, Crypto: "BTC", Fiat: "USD", Language: i18n.English})

	call := rec.Last()
	if call.Op != "edit" || call.MessageID != "9" || call.Text != tx.T(i18n.English, i18n.KeyPriceFetchError) {
		t.Fatalf("call=%+v", call)
	}
}

func TestShowSendFailureIsSwallowed(t *testing.T) {
	svc, rec, _ := newService(t, &fakeSource{prices: market.Prices{"bitcoin": {"usd": d("1")}}})
	rec.Err = errors.New("telegram down")

	svc.Show(context.Background(), Request{ChatID: 5, Crypto: "BTC", Fiat: "USD", Language: i18n.English})

	if len(rec.Calls()) != 1 {
		t.Fatalf("calls=%d", len(rec.Calls()))
	}
}

func TestFormatAmount(t *testing.T) {
	usd, _ := catalog.LookupFiat("USD")
	rub, _ := catalog.LookupFiat("RUB")
	if got := FormatAmount(usd, d("1234567.891234")); got != "1,234,567.891" {
		t.Fatalf("usd=%q", got)
	}
	got := FormatAmount(rub, d("1234.5"))
	if !strings.HasSuffix(got, ",5") || strings.Contains(got, ".") {
		t.Fatalf("rub=%q", got)
	}
}
