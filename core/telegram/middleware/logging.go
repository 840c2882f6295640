package middleware

import (
	"log/slog"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/planbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// LoggerMiddleware assigns the update its rid, stores the correlated
// context for handlers and services, and writes a sampled debug line
// describing what arrived.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		chatID := tghelpers.ChatID(c)
		var userID int64
		if u := c.Sender(); u != nil {
			userID = u.ID
		}

		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		ctx := logger.WithUpdateMeta(logger.WithRID(logger.Background(), rid), upd.ID, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.TG)
		tghelpers.StoreContext(c, ctx)

		if logger.ShouldSampleDebug() {
			logger.LogEvent(ctx, logger.TG, slog.LevelDebug, "update.received", receivedAttrs(c)...)
		}
		return next(c)
	}
}

func receivedAttrs(c tele.Context) []slog.Attr {
	attrs := []slog.Attr{slog.String("status", "ok")}
	if chat := c.Chat(); chat != nil {
		attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
	}
	if u := c.Sender(); u != nil {
		if u.Username != "" {
			attrs = append(attrs, slog.String("username", logger.SanitizeLimit(u.Username, 64)))
		}
		if u.LanguageCode != "" {
			attrs = append(attrs, slog.String("lang", u.LanguageCode))
		}
	}

	upd := c.Update()
	if upd.Callback != nil {
		key, payload := callbacks.ParseCallbackData(upd.Callback)
		return append(attrs,
			slog.String("cb_key", logger.SanitizeLimit(key, 128)),
			slog.String("payload", logger.SanitizeLimit(payload, 256)),
		)
	}
	if m := upd.Message; m != nil {
		attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(c.Text(), 256)))
		if m.Document != nil || m.Photo != nil || m.Video != nil {
			attrs = append(attrs, slog.Bool("media", true))
		}
	}
	return attrs
}
