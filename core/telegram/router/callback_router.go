package router

import (
	"log/slog"

	tg "github.com/m3rciful/planbot/core/telegram"
	"github.com/m3rciful/planbot/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute routes button presses by callback key. Handlers answer the
// callback themselves; the route answers only when none exists or one
// fails, so the client never keeps a spinning button.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler: func(c tele.Context) error {
			if c.Callback() == nil {
				return nil
			}
			key, _ := callbacks.ParseCallbackData(c.Callback())
			s := newSummary(handlerName("callback.", key), slog.String("cb_key", key))

			h, ok := reg.GetCallback(key)
			if !ok || h == nil {
				s.extras = append(s.extras, slog.String("reason", "not_found"))
				h = reg.CallbackNotFound()
				if h == nil {
					h = opts.NotFound
				}
			}
			return s.run(c, func(c tele.Context) error {
				if h == nil {
					return c.Respond()
				}
				err := h(c)
				if err != nil {
					_ = c.Respond()
				}
				return err
			})
		},
	}
}
