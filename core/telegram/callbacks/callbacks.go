// Package callbacks reads callback button data. Both telebot's
// "\f<unique>|<payload>" envelope and raw data such as "list_tasks" are
// understood.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ParseCallbackData splits callback data into its key and payload.
func ParseCallbackData(cb *tele.Callback) (key, payload string) {
	if cb == nil {
		return "", ""
	}
	key, payload, _ = strings.Cut(strings.TrimPrefix(cb.Data, "\f"), "|")
	return strings.TrimSpace(key), payload
}

// CallbackKey returns the routing key of the update's callback: the unique
// telebot already extracted, or the key parsed from the data.
func CallbackKey(c tele.Context) string {
	cb := c.Callback()
	switch {
	case cb == nil:
		return ""
	case cb.Unique != "":
		return cb.Unique
	}
	key, _ := ParseCallbackData(cb)
	return key
}
