// Package broadcast sends one message to every registered user.
package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/core/telegram/sender"
	"github.com/m3rciful/planbot/internal/domain"
)

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 10 * time.Second

// UserLister enumerates the recipients.
type UserLister interface {
	List(ctx context.Context) ([]domain.User, error)
}

// Sender delivers text to a chat.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Report summarizes one broadcast pass.
type Report struct {
	Attempted int
	Delivered int
	Failed    int
}

// Engine fans a message out to all users, one attempt per recipient.
type Engine struct {
	Users   UserLister
	Sender  Sender
	Timeout time.Duration
}

// Broadcast delivers body to every user in store order. Delivery failures are
// logged and counted but never stop the pass; only a failure to list the
// recipients is returned.
func (e *Engine) Broadcast(ctx context.Context, body string) (Report, error) {
	users, err := e.Users.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("broadcast: %w", err)
	}
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	start := time.Now()
	var rep Report
	for _, u := range users {
		rep.Attempted++
		if err := e.deliver(ctx, u.ChatID, body, timeout); err != nil {
			rep.Failed++
			derr := domain.Delivery("broadcast.send", err)
			logger.Warn(ctx, "service.broadcast", "broadcast.delivery_failed",
				slog.Int64("user_id", u.ID),
				slog.Int64("recipient_chat_id", u.ChatID),
				slog.String("error_kind", sender.Classify(err)),
				slog.String("err", sender.SanitizeError(derr)),
			)
			continue
		}
		rep.Delivered++
	}

	logger.Info(ctx, "service.broadcast", "broadcast.done",
		slog.Int("recipients", rep.Attempted),
		slog.Int("delivered", rep.Delivered),
		slog.Int("failed", rep.Failed),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return rep, nil
}

func (e *Engine) deliver(ctx context.Context, chatID int64, body string, timeout time.Duration) error {
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return e.Sender.SendText(sendCtx, chatID, body)
}
