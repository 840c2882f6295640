package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/planbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func TestBuildPollerLongpollDefaults(t *testing.T) {
	p, ok := BuildPoller(PollerOptions{RunMode: "longpoll"}).(*tele.LongPoller)
	require.True(t, ok)
	assert.Equal(t, defaultLongPollTimeout, p.Timeout)
	assert.ElementsMatch(t, []string{"message", "callback_query"}, p.AllowedUpdates)

	p, ok = BuildPoller(PollerOptions{LongPollTimeoutSeconds: 25}).(*tele.LongPoller)
	require.True(t, ok)
	assert.Equal(t, 25*time.Second, p.Timeout)
}

func TestBuildPollerWebhook(t *testing.T) {
	p, ok := BuildPoller(PollerOptions{
		RunMode: "Webhook",
		Webhook: WebhookOptions{Listen: "0.0.0.0", Port: 8443, URL: "https://bot.example.org/hook"},
	}).(*tele.Webhook)
	require.True(t, ok)
	assert.Equal(t, "0.0.0.0:8443", p.Listen)
	assert.Equal(t, "https://bot.example.org/hook", p.Endpoint.PublicURL)
}

func TestRegistryListsCommandsInOrder(t *testing.T) {
	reg := NewRegistry()
	noop := func(tele.Context) error { return nil }
	require.NoError(t, reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start"}))
	require.NoError(t, reg.RegisterCommand("/help", commands.Command{Handler: noop, Description: "Help"}))
	require.ErrorIs(t, reg.RegisterCommand("/help", commands.Command{Handler: noop, Description: "Again"}), ErrDuplicate)

	cmds := reg.ListCommands(true)
	require.Len(t, cmds, 2)
	assert.Equal(t, "start", cmds[0].Text)
	assert.Equal(t, "help", cmds[1].Text)

	_, _, ok := reg.LookupCommand("start")
	assert.True(t, ok)

	require.ErrorIs(t, reg.RegisterCommand("no_slash", commands.Command{Handler: noop, Description: "x"}), ErrInvalidRegistration)
	_, _, ok = reg.LookupCommand("no_slash")
	assert.False(t, ok)
}
