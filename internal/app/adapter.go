package app

import (
	"strings"

	"github.com/m3rciful/planbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/planbot/core/telegram/helpers"
	"github.com/m3rciful/planbot/core/telegram/keyboard"
	"github.com/m3rciful/planbot/internal/dispatch"
	"github.com/m3rciful/planbot/internal/menu"

	tele "gopkg.in/telebot.v4"
)

// eventFrom classifies a telebot update. ok is false for updates the bot
// does not act on, such as service messages.
func eventFrom(c tele.Context) (dispatch.Event, bool) {
	ev := dispatch.Event{ChatID: tghelpers.ChatID(c)}
	if u := c.Sender(); u != nil {
		ev.SenderName = u.FirstName
	}

	if cb := c.Callback(); cb != nil {
		ev.Kind = dispatch.KindCallback
		ev.Callback = callbacks.CallbackKey(c)
		if cb.Message != nil {
			ev.Displayed = displayedMenu(cb.Message)
		}
		return ev, ev.Callback != ""
	}

	msg := c.Message()
	if msg == nil {
		return ev, false
	}
	att := attachmentOf(msg)

	text := msg.Text
	if att != nil {
		text = msg.Caption
	}
	if cmd, args, ok := dispatch.ParseCommand(text); ok {
		ev.Kind = dispatch.KindCommand
		ev.Command = cmd
		ev.Args = args
		ev.Attachment = att
		return ev, true
	}

	if att != nil {
		ev.Kind = dispatch.KindAttachment
		ev.Attachment = att
		return ev, true
	}
	if strings.TrimSpace(text) == "" {
		return ev, false
	}
	ev.Kind = dispatch.KindText
	ev.Text = text
	return ev, true
}

func attachmentOf(m *tele.Message) *dispatch.Attachment {
	switch {
	case m.Document != nil:
		return &dispatch.Attachment{FileID: m.Document.FileID, FileName: m.Document.FileName, Media: dispatch.MediaDocument}
	case m.Photo != nil:
		// Telegram lists photo sizes smallest first; telebot keeps the largest.
		return &dispatch.Attachment{FileID: m.Photo.FileID, Media: dispatch.MediaPhoto}
	case m.Video != nil:
		return &dispatch.Attachment{FileID: m.Video.FileID, FileName: m.Video.FileName, Media: dispatch.MediaVideo}
	default:
		return nil
	}
}

// displayedMenu rebuilds the menu a callback was pressed on.
func displayedMenu(m *tele.Message) *menu.Menu {
	grid := keyboard.Grid(m.ReplyMarkup)
	out := &menu.Menu{Text: m.Text, Rows: make([][]menu.Button, 0, len(grid))}
	for _, row := range grid {
		r := make([]menu.Button, 0, len(row))
		for _, b := range row {
			r = append(r, menu.Button{Label: b.Text, Action: menu.Action(b.Data)})
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

func markupFor(m *menu.Menu) *tele.ReplyMarkup {
	if m == nil || len(m.Rows) == 0 {
		return nil
	}
	grid := make([][]keyboard.Button, len(m.Rows))
	for i, row := range m.Rows {
		grid[i] = make([]keyboard.Button, len(row))
		for j, b := range row {
			grid[i][j] = keyboard.Button{Text: b.Label, Data: string(b.Action)}
		}
	}
	return keyboard.Inline(grid)
}

// deliver performs the reply through telebot. Callbacks are always answered
// so the client stops showing progress on the button.
func deliver(c tele.Context, r dispatch.Reply) error {
	var err error
	switch r.Kind {
	case dispatch.ReplyEdit:
		err = tghelpers.EditText(c, r.Text, markupFor(r.Menu))
	case dispatch.ReplySend:
		err = tghelpers.SendWithMarkup(c, r.Text, markupFor(r.Menu))
	}
	if c.Callback() != nil {
		if rerr := c.Respond(); err == nil {
			err = rerr
		}
	}
	return err
}
