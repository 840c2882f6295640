// Package netutil decides which Telegram API failures are worth another try.
package netutil

import (
	"errors"
	"net"
	"syscall"

	tele "gopkg.in/telebot.v4"
)

// goneErrors mean the chat will not accept messages from the bot again.
var goneErrors = []error{
	tele.ErrBlockedByUser,
	tele.ErrUserIsDeactivated,
	tele.ErrChatNotFound,
	tele.ErrKickedFromGroup,
	tele.ErrKickedFromSuperGroup,
	tele.ErrNotStartedByUser,
}

// RecipientGone reports whether err means the chat can no longer receive
// messages from the bot.
func RecipientGone(err error) bool {
	for _, target := range goneErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ShouldRetry reports whether err is a transient network failure: a
// timeout, a failed dial or a connection reset. API errors and gone
// recipients are final.
func ShouldRetry(err error) bool {
	if err == nil || RecipientGone(err) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED)
}
