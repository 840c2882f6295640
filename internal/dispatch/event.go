package dispatch

import "github.com/m3rciful/planbot/internal/menu"

// Kind tags the shape of an inbound Event.
type Kind int

const (
	KindCommand Kind = iota + 1
	KindCallback
	KindText
	KindAttachment
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindCallback:
		return "callback"
	case KindText:
		return "text"
	case KindAttachment:
		return "attachment"
	default:
		return "unknown"
	}
}

// Media identifies the kind of attachment carried by a message.
type Media string

const (
	MediaDocument Media = "document"
	MediaPhoto    Media = "photo"
	MediaVideo    Media = "video"
)

// Attachment is a file handle delivered by the messaging channel.
type Attachment struct {
	FileID   string
	FileName string
	Media    Media
}

// Event is one classified inbound update. Which fields are set depends on Kind:
// commands carry Command and Args (and an Attachment for a captioned document),
// callbacks carry Callback and the menu currently displayed, text carries Text.
type Event struct {
	Kind       Kind
	ChatID     int64
	SenderName string

	Command Command
	Args    string

	Callback  string
	Displayed *menu.Menu

	Text       string
	Attachment *Attachment
}

// ReplyKind selects how a Reply is delivered.
type ReplyKind int

const (
	// ReplySend sends a new message.
	ReplySend ReplyKind = iota + 1
	// ReplyEdit edits the message the callback came from.
	ReplyEdit
	// ReplyAck only acknowledges a callback.
	ReplyAck
)

func (k ReplyKind) String() string {
	switch k {
	case ReplySend:
		return "send"
	case ReplyEdit:
		return "edit"
	case ReplyAck:
		return "ack"
	default:
		return "unknown"
	}
}

// Reply is the single outbound action produced for an Event.
// Menu is optional and becomes the inline keyboard of the message.
type Reply struct {
	Kind ReplyKind
	Text string
	Menu *menu.Menu
}

func send(text string) Reply { return Reply{Kind: ReplySend, Text: text} }

func sendMenu(m menu.Menu) Reply { return Reply{Kind: ReplySend, Text: m.Text, Menu: &m} }

func ack() Reply { return Reply{Kind: ReplyAck} }
