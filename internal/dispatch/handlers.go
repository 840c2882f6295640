package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/internal/domain"
	"github.com/m3rciful/planbot/internal/menu"
)

func (r *Router) start(ctx context.Context, ev Event) (Reply, error) {
	name := strings.TrimSpace(ev.SenderName)
	if name == "" {
		name = strconv.FormatInt(ev.ChatID, 10)
	}
	u, _, err := r.deps.Users.Register(ctx, ev.ChatID, name)
	if err != nil {
		return Reply{}, err
	}
	m := menu.Build(menu.ScreenMain)
	m.Text = fmt.Sprintf(textWelcome, u.Name) + "\n\n" + m.Text
	return sendMenu(m), nil
}

func (r *Router) help(context.Context, Event) (Reply, error) {
	var b strings.Builder
	b.WriteString(textHelpHead)
	for _, c := range Commands() {
		fmt.Fprintf(&b, "\n/%s - %s", c.Name, c.Description)
	}
	return send(b.String()), nil
}

func (r *Router) showMenu(context.Context, Event) (Reply, error) {
	return sendMenu(menu.Build(menu.ScreenMain)), nil
}

// refreshMenu edits the displayed message into the main menu, or only
// acknowledges the callback when the message already shows it.
func (r *Router) refreshMenu(_ context.Context, ev Event) (Reply, error) {
	m := menu.Build(menu.ScreenMain)
	if ev.Displayed != nil && ev.Displayed.Equal(m) {
		return ack(), nil
	}
	return Reply{Kind: ReplyEdit, Text: m.Text, Menu: &m}, nil
}

func (r *Router) cancel(ctx context.Context, ev Event) (Reply, error) {
	text := textNoAction
	if r.deps.Conversation.Cancel(ctx, ev.ChatID) {
		text = textCancelled
	}
	if ev.Kind == KindCallback {
		return Reply{Kind: ReplyEdit, Text: text}, nil
	}
	return send(text), nil
}

// sendToAll broadcasts the argument tail, or starts waiting for the body
// when the command came without one.
func (r *Router) sendToAll(ctx context.Context, ev Event) (Reply, error) {
	body := strings.TrimSpace(ev.Args)
	if body == "" {
		return r.broadcastPrompt(ctx, ev)
	}
	return r.broadcast(ctx, body)
}

func (r *Router) broadcastPrompt(ctx context.Context, ev Event) (Reply, error) {
	r.deps.Conversation.Begin(ctx, ev.ChatID)
	return sendMenu(menu.Build(menu.ScreenBroadcastPrompt)), nil
}

// broadcastBody consumes the awaited text. The conversation ends here whether
// or not the broadcast succeeds.
func (r *Router) broadcastBody(ctx context.Context, ev Event) (Reply, error) {
	if !r.deps.Conversation.Consume(ctx, ev.ChatID) {
		return send(textUnknown), nil
	}
	body := strings.TrimSpace(ev.Text)
	if body == "" {
		return send(textBroadcastEmpty), nil
	}
	return r.broadcast(ctx, body)
}

func (r *Router) broadcast(ctx context.Context, body string) (Reply, error) {
	if r.deps.Broadcaster == nil {
		return Reply{}, errors.New("broadcast: no broadcaster configured")
	}
	if _, err := r.deps.Broadcaster.Broadcast(ctx, body); err != nil {
		return Reply{}, err
	}
	return send(textBroadcastDone), nil
}

// owner resolves the registered user of the chat or fails with PreconditionFailed.
func (r *Router) owner(ctx context.Context, op string, chatID int64) (domain.User, error) {
	u, err := r.deps.Users.FindByChatID(ctx, chatID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.PreconditionFailed(op, "chat is not registered")
	}
	return u, err
}

func (r *Router) listTasks(ctx context.Context, _ Event) (Reply, error) {
	tasks, err := r.deps.Tasks.List(ctx)
	if err != nil {
		return Reply{}, err
	}
	return send(listing(textTasksHead, textTasksEmpty, tasks, func(t domain.Task) (int64, string) {
		return t.ID, t.Title
	})), nil
}

func (r *Router) addTask(ctx context.Context, ev Event) (Reply, error) {
	const op = "add_task"
	args, err := parseArgs(op, ev.Args, 3)
	if err != nil {
		return Reply{}, err
	}
	due, err := parseDate(op, domain.TaskDateLayout, args[2])
	if err != nil {
		return Reply{}, err
	}
	u, err := r.owner(ctx, op, ev.ChatID)
	if err != nil {
		return Reply{}, err
	}
	task, err := r.deps.Tasks.Create(ctx, domain.NewTask{
		UserID:      u.ID,
		Title:       args[0],
		Description: args[1],
		DueDate:     due,
	})
	if err != nil {
		return Reply{}, err
	}
	return send(fmt.Sprintf(textTaskAdded, task.Title)), nil
}

func (r *Router) deleteTask(ctx context.Context, ev Event) (Reply, error) {
	id, err := parseID("delete_task", ev.Args)
	if err != nil {
		return Reply{}, err
	}
	title, err := r.deps.Tasks.Delete(ctx, id)
	if err != nil {
		return Reply{}, err
	}
	return send(fmt.Sprintf(textTaskGone, title)), nil
}

func (r *Router) listEvents(ctx context.Context, _ Event) (Reply, error) {
	events, err := r.deps.Events.List(ctx)
	if err != nil {
		return Reply{}, err
	}
	return send(listing(textEventsHead, textEventsEmpty, events, func(e domain.Event) (int64, string) {
		return e.ID, e.Title
	})), nil
}

func (r *Router) addEvent(ctx context.Context, ev Event) (Reply, error) {
	const op = "add_event"
	args, err := parseArgs(op, ev.Args, 2)
	if err != nil {
		return Reply{}, err
	}
	date, err := parseDate(op, domain.EventDateLayout, args[1])
	if err != nil {
		return Reply{}, err
	}
	created, err := r.deps.Events.Create(ctx, domain.NewEvent{Title: args[0], Date: date})
	if err != nil {
		return Reply{}, err
	}
	return send(fmt.Sprintf(textEventAdded, created.Title)), nil
}

func (r *Router) deleteEvent(ctx context.Context, ev Event) (Reply, error) {
	id, err := parseID("delete_event", ev.Args)
	if err != nil {
		return Reply{}, err
	}
	title, err := r.deps.Events.Delete(ctx, id)
	if err != nil {
		return Reply{}, err
	}
	return send(fmt.Sprintf(textEventGone, title)), nil
}

func (r *Router) listFiles(ctx context.Context, _ Event) (Reply, error) {
	files, err := r.deps.Files.List(ctx)
	if err != nil {
		return Reply{}, err
	}
	return send(listing(textFilesHead, textFilesEmpty, files, func(f domain.File) (int64, string) {
		return f.ID, f.FileName
	})), nil
}

func (r *Router) deleteFile(ctx context.Context, ev Event) (Reply, error) {
	id, err := parseID("delete_file", ev.Args)
	if err != nil {
		return Reply{}, err
	}
	name, err := r.deps.Files.Delete(ctx, id)
	if err != nil {
		return Reply{}, err
	}
	return send(fmt.Sprintf(textFileGone, name)), nil
}

// uploadFile stores a document sent with the /upload_file caption. The
// record has no owner.
func (r *Router) uploadFile(ctx context.Context, ev Event) (Reply, error) {
	att := ev.Attachment
	if att == nil || att.Media != MediaDocument {
		return send(promptUploadFile), nil
	}
	if r.deps.Downloader == nil {
		return Reply{}, errors.New("upload file: no downloader configured")
	}
	stored, err := r.deps.Downloader.Download(ctx, att.FileID, att.FileName)
	if err != nil {
		return Reply{}, fmt.Errorf("upload file: %w", err)
	}
	f, err := r.deps.Files.Create(ctx, domain.NewFile{FileID: att.FileID, FileName: att.FileName})
	if err != nil {
		return Reply{}, err
	}
	logger.Info(ctx, "service.files", "file.stored",
		slog.Int64("file_id", f.ID),
		slog.String("path", stored),
	)
	return send(fmt.Sprintf(textFileUploaded, f.FileName)), nil
}

// receiveAttachment records any document, photo or video from a registered
// chat as a file owned by that chat's user.
func (r *Router) receiveAttachment(ctx context.Context, ev Event) (Reply, error) {
	const op = "receive_attachment"
	att := ev.Attachment
	if att == nil || att.FileID == "" {
		return Reply{}, domain.Validation(op, "message has no attachment", nil)
	}
	u, err := r.owner(ctx, op, ev.ChatID)
	if err != nil {
		return Reply{}, err
	}
	name := att.FileName
	if name == "" {
		switch att.Media {
		case MediaPhoto:
			name = namePhoto
		case MediaVideo:
			name = nameVideo
		default:
			name = string(att.Media)
		}
	}
	f, err := r.deps.Files.Create(ctx, domain.NewFile{FileID: att.FileID, FileName: name, UserID: &u.ID})
	if err != nil {
		return Reply{}, err
	}
	return send(fmt.Sprintf(textFileReceived, f.FileName)), nil
}

func listing[T any](head, empty string, items []T, line func(T) (int64, string)) string {
	if len(items) == 0 {
		return empty
	}
	var b strings.Builder
	b.WriteString(head)
	for _, it := range items {
		id, title := line(it)
		fmt.Fprintf(&b, "\n%d - %s", id, title)
	}
	return b.String()
}
