package middleware

import (
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

const statsKey = "reply_stats"

// Stats counts what a handler sent back for one update.
type Stats struct {
	Messages int
	Edits    int
	Keyboard bool
}

// counters may be bumped from sender workers while the handler summary is
// being written.
type counters struct {
	messages atomic.Int64
	edits    atomic.Int64
	keyboard atomic.Bool
}

// ReplyStats returns the counters collected by ReplyStatsMiddleware.
func ReplyStats(c tele.Context) Stats {
	n, ok := c.Get(statsKey).(*counters)
	if !ok || n == nil {
		return Stats{}
	}
	return Stats{
		Messages: int(n.messages.Load()),
		Edits:    int(n.edits.Load()),
		Keyboard: n.keyboard.Load(),
	}
}

// ReplyStatsMiddleware hands the handler a context that counts successful
// sends and edits.
func ReplyStatsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		n := &counters{}
		c.Set(statsKey, n)
		return next(countingContext{Context: c, n: n})
	}
}

type countingContext struct {
	tele.Context
	n *counters
}

func (c countingContext) count(err error, edit bool, opts []any) error {
	if err != nil {
		return err
	}
	if edit {
		c.n.edits.Add(1)
	} else {
		c.n.messages.Add(1)
	}
	if carriesMarkup(opts) {
		c.n.keyboard.Store(true)
	}
	return nil
}

func carriesMarkup(opts []any) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil && len(v.ReplyMarkup.InlineKeyboard) > 0 {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil && len(v.InlineKeyboard) > 0 {
				return true
			}
		}
	}
	return false
}

func (c countingContext) Send(what any, opts ...any) error {
	return c.count(c.Context.Send(what, opts...), false, opts)
}

func (c countingContext) Reply(what any, opts ...any) error {
	return c.count(c.Context.Reply(what, opts...), false, opts)
}

func (c countingContext) Edit(what any, opts ...any) error {
	return c.count(c.Context.Edit(what, opts...), true, opts)
}

func (c countingContext) EditOrSend(what any, opts ...any) error {
	return c.count(c.Context.EditOrSend(what, opts...), c.Callback() != nil, opts)
}
