// Package app wires storage, conversation state, broadcasting and the
// dispatch router into the Telegram runtime.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/planbot/core/bootstrap"
	corecmd "github.com/m3rciful/planbot/core/cmd"
	"github.com/m3rciful/planbot/core/logger"
	tg "github.com/m3rciful/planbot/core/telegram"
	"github.com/m3rciful/planbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/planbot/core/telegram/helpers"
	tgrouter "github.com/m3rciful/planbot/core/telegram/router"
	"github.com/m3rciful/planbot/internal/broadcast"
	"github.com/m3rciful/planbot/internal/config"
	"github.com/m3rciful/planbot/internal/conversation"
	"github.com/m3rciful/planbot/internal/dispatch"
	"github.com/m3rciful/planbot/internal/menu"
	"github.com/m3rciful/planbot/internal/repository"

	tele "gopkg.in/telebot.v4"
)

const textRateLimited = "Слишком много запросов, попробуйте чуть позже."

// App holds the long-lived components of a running bot.
type App struct {
	cfg     *config.Config
	store   *repository.Store
	conv    *conversation.Machine
	channel *channel
	router  *dispatch.Router
}

// Bootstrap adapts New to the core command runner.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}
	return New(cfg, res.DB), nil
}

// New builds the application around an open, migrated database.
func New(cfg *config.Config, db *sqlx.DB) *App {
	store := repository.New(db)
	conv := conversation.New(nil)
	ch := newChannel(cfg.Storage.FilesDir)

	engine := &broadcast.Engine{
		Users:   store.Users(),
		Sender:  ch,
		Timeout: time.Duration(cfg.Broadcast.SendTimeoutSeconds) * time.Second,
	}
	router := dispatch.New(dispatch.Deps{
		Users:        store.Users(),
		Tasks:        store.Tasks(),
		Events:       store.Events(),
		Files:        store.Files(),
		Conversation: conv,
		Broadcaster:  engine,
		Downloader:   ch,
	})

	return &App{cfg: cfg, store: store, conv: conv, channel: ch, router: router}
}

// Handle turns one update into exactly one reply.
func (a *App) Handle(c tele.Context) error {
	ev, ok := eventFrom(c)
	if !ok {
		if c.Callback() != nil {
			return c.Respond()
		}
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	reply := a.router.Dispatch(ctx, ev)
	return deliver(c, reply)
}

// Registry registers every command and menu action against Handle.
func (a *App) Registry() (*tg.Registry, error) {
	reg := tg.NewRegistry()
	var errs []error
	for _, info := range dispatch.Commands() {
		errs = append(errs, reg.RegisterCommand("/"+string(info.Name), commands.Command{
			Handler:     a.Handle,
			Description: info.Description,
		}))
	}
	for _, action := range menu.Actions() {
		errs = append(errs, reg.RegisterCallback(string(action), a.Handle))
	}
	reg.SetCallbackNotFound(a.Handle)
	reg.SetTextFallback(a.Handle)
	return reg, errors.Join(errs...)
}

// TelegramRunOptions satisfies the core command runner.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	core := a.cfg.CoreConfig()
	reg, err := a.Registry()
	if err != nil {
		return tg.RunOptions{}, err
	}

	routes := tgrouter.CommandRoutes(reg)
	routes = append(routes, tgrouter.CallbackRoute(reg, tgrouter.CallbackOptions{}))
	routes = append(routes, tgrouter.TextRoutes(reg, tgrouter.TextOptions{
		Conversation:   a.conv,
		OnConversation: a.Handle,
		Media:          a.Handle,
	})...)

	return tg.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(core, onLimited),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			a.channel.attach(rt.Bot)
			logger.TWire.Info("tg.wire",
				slog.String("event", "channel_attached"),
				slog.String("files_dir", a.cfg.Storage.FilesDir),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			a.channel.attach(nil)
			return a.Close()
		},
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.store.Close()
}

func onLimited(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: textRateLimited})
	}
	return tghelpers.SendText(c, textRateLimited)
}
