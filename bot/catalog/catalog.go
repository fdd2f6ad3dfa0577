// Package catalog holds the compiled-in currency and period tables.
package catalog

import (
	"strings"

	"golang.org/x/text/language"
)

// Crypto describes a supported cryptocurrency.
type Crypto struct {
	Symbol string // BTC
	Name   string // Bitcoin
	Emoji  string
}

// CoinID is the market data identifier of the asset: its lowercased name.
func (c Crypto) CoinID() string {
	return strings.ToLower(c.Name)
}

// Fiat describes a supported fiat currency.
type Fiat struct {
	Code   string // USD
	Name   string
	Symbol string
	Emoji  string
	// Locale selects digit grouping and decimal separator for prices in this currency.
	Locale language.Tag
}

// Lower is the currency code as market data providers expect it.
func (f Fiat) Lower() string {
	return strings.ToLower(f.Code)
}

// Both is the pseudo-fiat selecting USD and RUB together.
const Both = "BOTH"

var cryptos = []Crypto{
	{Symbol: "BTC", Name: "Bitcoin", Emoji: "₿"},
	{Symbol: "ETH", Name: "Ethereum", Emoji: "♦️"},
	{Symbol: "USDT", Name: "Tether", Emoji: "₮"},
	{Symbol: "SOL", Name: "Solana", Emoji: "☀️"},
}

var fiats = []Fiat{
	{Code: "USD", Name: "US dollar", Symbol: "$", Emoji: "🇺🇸", Locale: language.AmericanEnglish},
	{Code: "RUB", Name: "Russian ruble", Symbol: "₽", Emoji: "🇷🇺", Locale: language.MustParse("ru-RU")},
}

// Period is a selectable chart range.
type Period struct {
	Label string
	Days  int
}

var periods = []Period{
	{Label: "24h", Days: 1},
	{Label: "7d", Days: 7},
	{Label: "30d", Days: 30},
}

// Cryptos lists supported assets in display order.
func Cryptos() []Crypto {
	return append([]Crypto(nil), cryptos...)
}

// Fiats lists real fiat currencies in display order; Both is not included.
func Fiats() []Fiat {
	return append([]Fiat(nil), fiats...)
}

// Periods lists chart ranges in display order.
func Periods() []Period {
	return append([]Period(nil), periods...)
}

// LookupCrypto finds an asset by symbol, case-insensitively.
func LookupCrypto(symbol string) (Crypto, bool) {
	for _, c := range cryptos {
		if strings.EqualFold(c.Symbol, strings.TrimSpace(symbol)) {
			return c, true
		}
	}
	return Crypto{}, false
}

// LookupFiat finds a real fiat currency by code, case-insensitively.
func LookupFiat(code string) (Fiat, bool) {
	for _, f := range fiats {
		if strings.EqualFold(f.Code, strings.TrimSpace(code)) {
			return f, true
		}
	}
	return Fiat{}, false
}

// NormalizeFiat returns the canonical upper-case code for a fiat or Both.
func NormalizeFiat(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == Both {
		return Both, true
	}
	if f, ok := LookupFiat(code); ok {
		return f.Code, true
	}
	return "", false
}

// LookupPeriod resolves a label such as "7d", case-insensitively.
func LookupPeriod(label string) (Period, bool) {
	for _, p := range periods {
		if strings.EqualFold(p.Label, strings.TrimSpace(label)) {
			return p, true
		}
	}
	return Period{}, false
}

// CryptoSymbols lists asset symbols, e.g. for "Available: ..." messages.
func CryptoSymbols() []string {
	out := make([]string, len(cryptos))
	for i, c := range cryptos {
		out[i] = c.Symbol
	}
	return out
}

// PeriodLabels lists period labels in display order.
func PeriodLabels() []string {
	out := make([]string, len(periods))
	for i, p := range periods {
		out[i] = p.Label
	}
	return out
}
