// Package callbacks extracts routing keys from raw callback data.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Split returns the routing key and the remainder of the callback data.
// Data looks like "<key>|<payload>"; telebot's "\f<unique>" form is accepted too.
func Split(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	key, payload, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(key), payload
}
