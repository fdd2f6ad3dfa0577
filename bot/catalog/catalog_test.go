package catalog

import "testing"

func TestLookupCryptoCaseInsensitive(t *testing.T) {
	c, ok := LookupCrypto("btc")
	if !ok || c.Symbol != "BTC" || c.CoinID() != "bitcoin" {
		t.Fatalf("LookupCrypto(btc) = %+v, %v", c, ok)
	}
	if _, ok := LookupCrypto("DOGE"); ok {
		t.Fatal("DOGE should not be supported")
	}
}

func TestNormalizeFiat(t *testing.T) {
	cases := map[string]string{"usd": "USD", "RUB": "RUB", "both": Both, " Both ": Both}
	for in, want := range cases {
		got, ok := NormalizeFiat(in)
		if !ok || got != want {
			t.Fatalf("NormalizeFiat(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := NormalizeFiat("EUR"); ok {
		t.Fatal("EUR should be rejected")
	}
	if _, ok := LookupFiat(Both); ok {
		t.Fatal("BOTH is not a real fiat")
	}
}

func TestPeriods(t *testing.T) {
	want := map[string]int{"24h": 1, "7d": 7, "30d": 30}
	for label, days := range want {
		p, ok := LookupPeriod(label)
		if !ok || p.Days != days {
			t.Fatalf("LookupPeriod(%q) = %+v, %v", label, p, ok)
		}
	}
	if _, ok := LookupPeriod("1y"); ok {
		t.Fatal("1y should be rejected")
	}
}

func TestCoinIDs(t *testing.T) {
	want := []string{"bitcoin", "ethereum", "tether", "solana"}
	for i, c := range Cryptos() {
		if c.CoinID() != want[i] {
			t.Fatalf("coin id %d = %q, want %q", i, c.CoinID(), want[i])
		}
	}
}
