package router

import (
	"log/slog"

	"github.com/m3rciful/planbot/core/logger"
	tg "github.com/m3rciful/planbot/core/telegram"
	"github.com/m3rciful/planbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

// CommandRoutes returns one route per registered command, in registration
// order.
func CommandRoutes(reg *tg.Registry) []tg.Route {
	if reg == nil {
		return nil
	}
	var routes []tg.Route
	reg.EachCommand(func(name string, cmd commands.Command) {
		h := cmd.Handler
		routes = append(routes, tg.Route{
			Endpoint: name,
			Handler: func(c tele.Context) error {
				return newSummary(handlerName("command.", name)).run(c, h)
			},
		})
	})

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(routes)),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)
	return routes
}
