package router

import (
	tg "github.com/m3rciful/planbot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// Conversation reports whether a chat currently owes the bot a follow-up message.
type Conversation interface {
	Active(chatID int64) bool
}

// TextOptions controls routing of plain text and media updates.
type TextOptions struct {
	// Conversation, when set, sends text from chats with an active
	// conversation to OnConversation instead of the fallback.
	Conversation   Conversation
	OnConversation tele.HandlerFunc
	UnknownText    tele.HandlerFunc
	// Media handles documents, photos and videos.
	Media tele.HandlerFunc
}

func (o TextOptions) inConversation(c tele.Context) bool {
	return o.Conversation != nil && o.OnConversation != nil &&
		c.Chat() != nil && o.Conversation.Active(c.Chat().ID)
}

// TextRoutes builds the OnText route and, when Media is set, the document,
// photo and video routes.
func TextRoutes(reg *tg.Registry, opts TextOptions) []tg.Route {
	text := func(c tele.Context) error {
		if opts.inConversation(c) {
			return newSummary("conversation").run(c, opts.OnConversation)
		}
		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return newSummary("fallback").run(c, fb)
			}
		}
		if opts.UnknownText != nil {
			return newSummary("unknown_text").run(c, opts.UnknownText)
		}
		s := newSummary("unknown_text")
		s.status = "skip"
		s.log(c, nil)
		return nil
	}

	routes := []tg.Route{{Endpoint: tele.OnText, Handler: text}}
	if opts.Media == nil {
		return routes
	}
	media := func(c tele.Context) error {
		return newSummary(handlerName("media.", mediaKind(c.Message()))).run(c, opts.Media)
	}
	for _, endpoint := range []string{tele.OnDocument, tele.OnPhoto, tele.OnVideo} {
		routes = append(routes, tg.Route{Endpoint: endpoint, Handler: media})
	}
	return routes
}

func mediaKind(m *tele.Message) string {
	switch {
	case m == nil:
		return "unknown"
	case m.Document != nil:
		return "document"
	case m.Photo != nil:
		return "photo"
	case m.Video != nil:
		return "video"
	}
	return "unknown"
}
