package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var dispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher installs the sender used by SendText; nil makes sends
// synchronous again.
func SetDispatcher(d *sender.Dispatcher) {
	dispatcher.Store(d)
}

// submit queues run on the dispatcher. Without one, or when the queue
// refuses the job, run executes inline so the reply is never lost.
func submit(c tele.Context, action, endpoint string, run func() error) error {
	d := dispatcher.Load()
	if d == nil {
		return run()
	}
	ctx := BuildContext(c)
	err := d.Enqueue(ctx, action, endpoint, run)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("action", action),
			slog.String("endpoint", endpoint),
			slog.String("err", err.Error()),
		)
		return run()
	}
	return err
}

// SendText sends plain text (no parse mode) to the update's chat.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	var args []any
	if len(opts) > 0 && opts[0] != nil {
		args = append(args, opts[0])
	}
	return submit(c, "send.text", "sendMessage", func() error {
		return c.Send(text, args...)
	})
}

// SendWithMarkup sends plain text with an optional inline keyboard.
func SendWithMarkup(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if markup == nil {
		return SendText(c, text)
	}
	return SendText(c, text, &tele.SendOptions{ReplyMarkup: markup})
}

// EditText replaces the text of the message the callback came from. A nil
// markup removes the inline keyboard. Edits run synchronously so a
// following callback answer never overtakes them; an unchanged message is
// not an error.
func EditText(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if markup == nil {
		markup = &tele.ReplyMarkup{}
	}
	err := c.Edit(text, &tele.SendOptions{ReplyMarkup: markup})
	if errors.Is(err, tele.ErrSameMessageContent) {
		logger.Debug(BuildContext(c), "tg.sender", "edit.unchanged", slog.String("status", "skip"))
		return nil
	}
	return err
}
