package middleware

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	coreconfig "github.com/m3rciful/planbot/core/config"
	"github.com/m3rciful/planbot/core/logger"
	tghelpers "github.com/m3rciful/planbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
// Interval is the sustained spacing between updates of one user; Burst lets
// a few updates through back to back before the interval applies.
type RateLimitOptions struct {
	Interval  time.Duration
	Burst     int
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
}

// RateLimitMiddleware returns a middleware that keeps one token bucket per user.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	var limiters sync.Map // int64 -> *rate.Limiter

	limiterFor := func(userID int64) *rate.Limiter {
		if l, ok := limiters.Load(userID); ok {
			return l.(*rate.Limiter)
		}
		l, _ := limiters.LoadOrStore(userID, rate.NewLimiter(rate.Every(opts.Interval), burst))
		return l.(*rate.Limiter)
	}

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}

			if _, skip := opts.Exclude[updateKind(c.Update())]; skip {
				return next(c)
			}

			if limiterFor(user.ID).Allow() {
				return next(c)
			}

			ctx := tghelpers.BuildContext(c)
			logger.Warn(ctx, "tg", "tg.rate_limit",
				slog.String("status", "rate_limited"),
				slog.String("kind", updateKind(c.Update())),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}

func updateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return coreconfig.UpdateCallback
	case upd.Message != nil:
		return coreconfig.UpdateMessage
	default:
		return "other"
	}
}
