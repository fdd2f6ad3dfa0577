// Package callback encodes and decodes inline button payloads.
//
// A payload is "action|value|extra" where trailing empty fields are omitted.
// '%' and '|' inside value and extra are escaped as %25 and %7C, so decoding
// an encoded payload always yields the original.
package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Action is the closed set of button kinds the bot understands.
type Action string

const (
	ActionLang   Action = "lang"
	ActionPeriod Action = "period"
	ActionMain   Action = "main"
	ActionFiat   Action = "fiat"
	ActionCrypto Action = "crypto"
	ActionBack   Action = "back"
	ActionChart  Action = "chart"
	ActionPrice  Action = "price"
)

// Actions lists every known action.
var Actions = []Action{ActionLang, ActionPeriod, ActionMain, ActionFiat, ActionCrypto, ActionBack, ActionChart, ActionPrice}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// Main menu items carried by ActionMain.
const (
	MainGetPrice    = "getPrice"
	MainSettings    = "settings"
	MainInstruction = "instruction"
	MainMenu        = "menu"
)

// Back targets carried by ActionBack.
const (
	BackFiat   = "fiat"
	BackCrypto = "crypto"
)

// MaxDataLen is Telegram's limit for callback data, in bytes.
const MaxDataLen = 64

// ErrUnknownAction is returned by Decode for tags outside Actions.
var ErrUnknownAction = errors.New("callback: unknown action")

// Payload is a decoded button press.
type Payload struct {
	Action Action
	Value  string
	Extra  string
}

var (
	escaper   = strings.NewReplacer("%", "%25", "|", "%7C")
	unescaper = strings.NewReplacer("%25", "%", "%7C", "|")
)

// Encode renders p as callback data.
func Encode(p Payload) string {
	var b strings.Builder
	b.WriteString(string(p.Action))
	if p.Value != "" || p.Extra != "" {
		b.WriteByte('|')
		b.WriteString(escaper.Replace(p.Value))
	}
	if p.Extra != "" {
		b.WriteByte('|')
		b.WriteString(escaper.Replace(p.Extra))
	}
	return b.String()
}

// Decode parses callback data produced by Encode.
func Decode(data string) (Payload, error) {
	parts := strings.Split(data, "|")
	if len(parts) > 3 {
		return Payload{}, fmt.Errorf("callback: too many fields in %q", data)
	}
	p := Payload{Action: Action(parts[0])}
	if !p.Action.Valid() {
		return Payload{}, fmt.Errorf("%w: %q", ErrUnknownAction, parts[0])
	}
	if len(parts) > 1 {
		p.Value = unescaper.Replace(parts[1])
	}
	if len(parts) > 2 {
		p.Extra = unescaper.Replace(parts[2])
	}
	return p, nil
}

// Days parses Value as a period length in days.
func (p Payload) Days() (int, error) {
	days, err := strconv.Atoi(p.Value)
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("callback: invalid days %q", p.Value)
	}
	return days, nil
}

// Lang selects an interface language.
func Lang(code string) string { return Encode(Payload{Action: ActionLang, Value: code}) }

// Period selects a default chart period.
func Period(days int) string {
	return Encode(Payload{Action: ActionPeriod, Value: strconv.Itoa(days)})
}

// Main opens a main menu item.
func Main(item string) string { return Encode(Payload{Action: ActionMain, Value: item}) }

// Fiat selects a fiat currency or catalog.Both.
func Fiat(code string) string { return Encode(Payload{Action: ActionFiat, Value: code}) }

// Crypto selects an asset and shows its price.
func Crypto(symbol string) string { return Encode(Payload{Action: ActionCrypto, Value: symbol}) }

// Back returns to the named menu.
func Back(target string) string { return Encode(Payload{Action: ActionBack, Value: target}) }

// Chart renders a chart for the asset.
func Chart(symbol string) string { return Encode(Payload{Action: ActionChart, Value: symbol}) }

// Price restores an asset and fiat and shows the price again.
func Price(symbol, fiat string) string {
	return Encode(Payload{Action: ActionPrice, Value: symbol, Extra: fiat})
}
