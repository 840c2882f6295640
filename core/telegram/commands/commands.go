package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler and the description shown
// in the Telegram command menu. Hidden commands are routed but not advertised.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	Hidden      bool
}
