// Package dispatch routes classified chat updates to handlers and turns their
// results into exactly one reply. Errors never leave Dispatch: each route owns
// a table of reply texts keyed by error kind, applied in respond.
package dispatch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/internal/broadcast"
	"github.com/m3rciful/planbot/internal/conversation"
	"github.com/m3rciful/planbot/internal/domain"
	"github.com/m3rciful/planbot/internal/menu"
)

// UserStore resolves and registers chats.
type UserStore interface {
	Register(ctx context.Context, chatID int64, name string) (domain.User, bool, error)
	FindByChatID(ctx context.Context, chatID int64) (domain.User, error)
}

// TaskStore persists tasks.
type TaskStore interface {
	Create(ctx context.Context, in domain.NewTask) (domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	Delete(ctx context.Context, id int64) (string, error)
}

// EventStore persists events.
type EventStore interface {
	Create(ctx context.Context, in domain.NewEvent) (domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	Delete(ctx context.Context, id int64) (string, error)
}

// FileStore persists file references.
type FileStore interface {
	Create(ctx context.Context, in domain.NewFile) (domain.File, error)
	List(ctx context.Context) ([]domain.File, error)
	Delete(ctx context.Context, id int64) (string, error)
}

// Broadcaster fans a message out to every registered user.
type Broadcaster interface {
	Broadcast(ctx context.Context, body string) (broadcast.Report, error)
}

// Downloader fetches an attachment from the messaging channel into local
// storage and returns the stored path.
type Downloader interface {
	Download(ctx context.Context, fileID, fileName string) (string, error)
}

// Deps are the collaborators of a Router.
type Deps struct {
	Users        UserStore
	Tasks        TaskStore
	Events       EventStore
	Files        FileStore
	Conversation *conversation.Machine
	Broadcaster  Broadcaster
	Downloader   Downloader
}

type handlerFunc func(ctx context.Context, ev Event) (Reply, error)

// errorTexts maps error kinds to reply texts. fallback covers kinds without
// an entry and infrastructure failures.
type errorTexts struct {
	byKind   map[domain.Kind]string
	fallback string
}

type route struct {
	name   string
	handle handlerFunc
	errs   errorTexts
}

// Router dispatches events. It is safe for concurrent use; the only mutable
// state it touches is the per-chat conversation.
type Router struct {
	deps     Deps
	commands map[Command]route
	actions  map[menu.Action]route
}

// New builds the dispatch tables.
func New(deps Deps) *Router {
	if deps.Conversation == nil {
		deps.Conversation = conversation.New(nil)
	}
	r := &Router{deps: deps}
	r.commands = r.commandTable()
	r.actions = r.actionTable()
	return r
}

var (
	addTaskErrs = errorTexts{fallback: textTaskAddErr, byKind: map[domain.Kind]string{
		domain.KindPreconditionFailed: textStartFirst,
	}}
	deleteTaskErrs = errorTexts{fallback: textTaskDelErr, byKind: map[domain.Kind]string{
		domain.KindNotFound: textTaskNone,
	}}
	deleteEventErrs = errorTexts{fallback: textEventDelErr, byKind: map[domain.Kind]string{
		domain.KindNotFound: textEventNone,
	}}
	deleteFileErrs = errorTexts{fallback: textFileDelErr, byKind: map[domain.Kind]string{
		domain.KindNotFound: textFileNone,
	}}
	attachmentErrs = errorTexts{fallback: textFileUploadErr, byKind: map[domain.Kind]string{
		domain.KindPreconditionFailed: textStartFirst,
	}}
)

func (r *Router) commandTable() map[Command]route {
	return map[Command]route{
		CmdStart:            {name: "start", handle: r.start, errs: errorTexts{fallback: textInternal}},
		CmdHelp:             {name: "help", handle: r.help},
		CmdMenu:             {name: "menu", handle: r.showMenu},
		CmdCancel:           {name: "cancel", handle: r.cancel},
		CmdSendMessageToAll: {name: "send_message_to_all", handle: r.sendToAll, errs: errorTexts{fallback: textBroadcastErr}},
		CmdListTasks:        {name: "list_tasks", handle: r.listTasks, errs: errorTexts{fallback: textTasksErr}},
		CmdAddTask:          {name: "add_task", handle: r.addTask, errs: addTaskErrs},
		CmdDeleteTask:       {name: "delete_task", handle: r.deleteTask, errs: deleteTaskErrs},
		CmdListEvents:       {name: "list_events", handle: r.listEvents, errs: errorTexts{fallback: textEventsErr}},
		CmdAddEvent:         {name: "add_event", handle: r.addEvent, errs: errorTexts{fallback: textEventAddErr}},
		CmdDeleteEvent:      {name: "delete_event", handle: r.deleteEvent, errs: deleteEventErrs},
		CmdListFiles:        {name: "list_files", handle: r.listFiles, errs: errorTexts{fallback: textFilesErr}},
		CmdUploadFile:       {name: "upload_file", handle: r.uploadFile, errs: errorTexts{fallback: textFileUploadErr}},
		CmdDeleteFile:       {name: "delete_file", handle: r.deleteFile, errs: deleteFileErrs},
	}
}

func (r *Router) actionTable() map[menu.Action]route {
	return map[menu.Action]route{
		menu.ActionListTasks:       {name: "cb.list_tasks", handle: r.listTasks, errs: errorTexts{fallback: textTasksErr}},
		menu.ActionAddTask:         {name: "cb.add_task", handle: prompt(promptAddTask)},
		menu.ActionListEvents:      {name: "cb.list_events", handle: r.listEvents, errs: errorTexts{fallback: textEventsErr}},
		menu.ActionAddEvent:        {name: "cb.add_event", handle: prompt(promptAddEvent)},
		menu.ActionDeleteEvent:     {name: "cb.delete_event", handle: prompt(promptDeleteEvent)},
		menu.ActionListFiles:       {name: "cb.list_files", handle: r.listFiles, errs: errorTexts{fallback: textFilesErr}},
		menu.ActionUploadFile:      {name: "cb.upload_file", handle: prompt(promptUploadFile)},
		menu.ActionDeleteFile:      {name: "cb.delete_file", handle: prompt(promptDeleteFile)},
		menu.ActionBroadcastPrompt: {name: "cb.broadcast_prompt", handle: r.broadcastPrompt},
		menu.ActionMenu:            {name: "cb.menu", handle: r.refreshMenu},
		menu.ActionCancel:          {name: "cb.cancel", handle: r.cancel},
	}
}

// Dispatch produces the reply for one event.
func (r *Router) Dispatch(ctx context.Context, ev Event) Reply {
	if r.deps.Conversation.Active(ev.ChatID) {
		return r.dispatchAwaiting(ctx, ev)
	}
	switch ev.Kind {
	case KindCommand:
		rt, ok := r.commands[ev.Command]
		if !ok {
			return r.unroutable(ctx, ev, string(ev.Command))
		}
		return r.run(ctx, rt, ev)
	case KindCallback:
		rt, ok := r.actions[menu.Action(ev.Callback)]
		if !ok {
			return r.unroutable(ctx, ev, ev.Callback)
		}
		return r.run(ctx, rt, ev)
	case KindAttachment:
		return r.run(ctx, route{name: "attachment", handle: r.receiveAttachment, errs: attachmentErrs}, ev)
	default:
		return r.unroutable(ctx, ev, "")
	}
}

// dispatchAwaiting handles events for a chat that owes a broadcast body.
// Plain text is consumed as the body; /cancel and the cancel button leave the
// conversation; everything else is rejected and the conversation is kept.
func (r *Router) dispatchAwaiting(ctx context.Context, ev Event) Reply {
	switch {
	case ev.Kind == KindText:
		return r.run(ctx, route{name: "broadcast_body", handle: r.broadcastBody, errs: errorTexts{fallback: textBroadcastErr}}, ev)
	case ev.Kind == KindCommand && ev.Command == CmdCancel,
		ev.Kind == KindCallback && menu.Action(ev.Callback) == menu.ActionCancel:
		return r.run(ctx, route{name: "cancel", handle: r.cancel}, ev)
	default:
		logger.Debug(ctx, "tg.router", "conversation.busy",
			slog.String("status", "skip"),
			slog.String("kind", ev.Kind.String()),
			slog.Int64("chat_id", ev.ChatID),
		)
		return send(textBusy)
	}
}

func (r *Router) run(ctx context.Context, rt route, ev Event) Reply {
	ctx = logger.WithHandler(ctx, rt.name)
	reply, err := rt.handle(ctx, ev)
	return respond(ctx, rt, reply, err)
}

// respond converts a handler result into the reply sent to the chat.
func respond(ctx context.Context, rt route, reply Reply, err error) Reply {
	if err == nil {
		return reply
	}
	kind := domain.KindOf(err)
	text, ok := rt.errs.byKind[kind]
	if !ok {
		text = rt.errs.fallback
	}
	if text == "" {
		text = textInternal
	}

	attrs := []slog.Attr{
		slog.String("handler", rt.name),
		slog.String("err", err.Error()),
	}
	var de *domain.Error
	if errors.As(err, &de) {
		attrs = append(attrs, slog.String("err_code", de.Code()))
		logger.Info(ctx, "tg.router", "handler.rejected", attrs...)
	} else {
		logger.Error(ctx, "tg.router", "handler.failed", attrs...)
	}
	return send(text)
}

func (r *Router) unroutable(ctx context.Context, ev Event, id string) Reply {
	err := domain.Unroutable("dispatch", id)
	logger.Debug(ctx, "tg.router", "event.unroutable",
		slog.String("kind", ev.Kind.String()),
		slog.Int64("chat_id", ev.ChatID),
		slog.String("err", err.Error()),
	)
	return send(textUnknown)
}

func prompt(text string) handlerFunc {
	return func(context.Context, Event) (Reply, error) {
		return send(text), nil
	}
}
