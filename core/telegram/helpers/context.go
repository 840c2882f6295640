// Package helpers bridges tele.Context and the rest of core: the per-update
// log context and reply helpers that go through the async sender.
package helpers

import (
	"context"

	"github.com/m3rciful/planbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// ctxKey is the tele.Context store slot holding the update's context.Context.
const ctxKey = "logger_ctx"

// StoreContext remembers ctx for the rest of the update.
func StoreContext(c tele.Context, ctx context.Context) {
	if c != nil && ctx != nil {
		c.Set(ctxKey, ctx)
	}
}

// ContextFrom returns the context stored by StoreContext.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	ctx, ok := c.Get(ctxKey).(context.Context)
	return ctx, ok && ctx != nil
}

// BuildContext returns the update's log context, creating and storing one
// with rid, update, user and chat ids when no middleware did.
func BuildContext(c tele.Context) context.Context {
	if ctx, ok := ContextFrom(c); ok {
		return ctx
	}
	var userID int64
	if u := c.Sender(); u != nil {
		userID = u.ID
	}
	updateID, chatID := c.Update().ID, ChatID(c)

	rid, _ := c.Get("rid").(string)
	if rid == "" {
		rid = logger.BuildRID(updateID, chatID, userID)
	}
	ctx := logger.WithUpdateMeta(logger.WithRID(context.Background(), rid), updateID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.TG)
	StoreContext(c, ctx)
	return ctx
}

// ChatID is the chat the update belongs to, or the sender for updates
// without a chat.
func ChatID(c tele.Context) int64 {
	if c == nil {
		return 0
	}
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

// WithHandler tags the update's context with the handler name and returns it.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler == "" || logger.HandlerFrom(ctx) == handler {
		return ctx
	}
	ctx = logger.WithHandler(ctx, handler)
	StoreContext(c, ctx)
	return ctx
}
