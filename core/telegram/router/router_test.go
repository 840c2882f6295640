package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tg "github.com/m3rciful/planbot/core/telegram"
	"github.com/m3rciful/planbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

type activeChats map[int64]bool

func (a activeChats) Active(chatID int64) bool { return a[chatID] }

func offlineBot(t *testing.T) *tele.Bot {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)
	return b
}

func textFrom(b *tele.Bot, chatID int64, text string) tele.Context {
	return b.NewContext(tele.Update{Message: &tele.Message{
		Sender: &tele.User{ID: chatID},
		Chat:   &tele.Chat{ID: chatID},
		Text:   text,
	}})
}

func TestCommandRoutesFollowRegistrationOrder(t *testing.T) {
	reg := tg.NewRegistry()
	var hit []string
	for _, name := range []string{"/start", "/list_tasks", "/cancel"} {
		name := name
		require.NoError(t, reg.RegisterCommand(name, commands.Command{
			Description: name,
			Handler:     func(tele.Context) error { hit = append(hit, name); return nil },
		}))
	}

	routes := CommandRoutes(reg)
	require.Len(t, routes, 3)
	b := offlineBot(t)
	for i, want := range []string{"/start", "/list_tasks", "/cancel"} {
		assert.Equal(t, want, routes[i].Endpoint)
		require.NoError(t, routes[i].Handler(textFrom(b, 1, want)))
	}
	assert.Equal(t, []string{"/start", "/list_tasks", "/cancel"}, hit)
}

func TestCallbackRouteFallsBackForUnknownKeys(t *testing.T) {
	reg := tg.NewRegistry()
	var got []string
	require.NoError(t, reg.RegisterCallback("list_tasks", func(tele.Context) error {
		got = append(got, "known")
		return nil
	}))
	reg.SetCallbackNotFound(func(tele.Context) error {
		got = append(got, "fallback")
		return nil
	})

	route := CallbackRoute(reg, CallbackOptions{})
	b := offlineBot(t)
	for _, data := range []string{"list_tasks", "nope"} {
		c := b.NewContext(tele.Update{Callback: &tele.Callback{Sender: &tele.User{ID: 3}, Data: data}})
		require.NoError(t, route.Handler(c))
	}
	assert.Equal(t, []string{"known", "fallback"}, got)
}

func TestTextRoutesPreferActiveConversation(t *testing.T) {
	reg := tg.NewRegistry()
	var got []string
	reg.SetTextFallback(func(tele.Context) error { got = append(got, "fallback"); return nil })

	routes := TextRoutes(reg, TextOptions{
		Conversation:   activeChats{5: true},
		OnConversation: func(tele.Context) error { got = append(got, "conversation"); return nil },
		Media:          func(tele.Context) error { return nil },
	})
	require.Len(t, routes, 4)
	assert.Equal(t, tele.OnText, routes[0].Endpoint)

	b := offlineBot(t)
	require.NoError(t, routes[0].Handler(textFrom(b, 5, "hello all")))
	require.NoError(t, routes[0].Handler(textFrom(b, 6, "hello")))
	assert.Equal(t, []string{"conversation", "fallback"}, got)
}

func TestHandlerNameAndErrorCode(t *testing.T) {
	assert.Equal(t, "command.list_tasks", handlerName("command.", "/List_Tasks"))
	assert.Equal(t, "callback.unknown", handlerName("callback.", " "))
	assert.Equal(t, "ERRORSTRING", errorCode(assert.AnError))
}
