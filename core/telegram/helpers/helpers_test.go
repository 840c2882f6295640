package helpers

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

type recordingContext struct {
	tele.Context
	sent *atomic.Int32
}

func (r recordingContext) Send(any, ...any) error {
	r.sent.Add(1)
	return nil
}

func newContext(t *testing.T, upd tele.Update) tele.Context {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)
	return b.NewContext(upd)
}

func TestBuildContextCarriesUpdateMeta(t *testing.T) {
	c := newContext(t, tele.Update{ID: 7, Message: &tele.Message{
		Sender: &tele.User{ID: 3},
		Chat:   &tele.Chat{ID: 4},
	}})
	ctx := BuildContext(c)
	assert.Equal(t, "7:4:3", logger.RIDFrom(ctx))
	assert.Equal(t, int64(4), logger.ChatIDFrom(ctx))

	tagged := WithHandler(c, "command.start")
	assert.Equal(t, "command.start", logger.HandlerFrom(BuildContext(c)))
	assert.Equal(t, "7:4:3", logger.RIDFrom(tagged))
}

func TestChatIDFallsBackToSender(t *testing.T) {
	c := newContext(t, tele.Update{Callback: &tele.Callback{Sender: &tele.User{ID: 12}}})
	assert.Equal(t, int64(12), ChatID(c))
	assert.Zero(t, ChatID(nil))
}

func TestSendTextUsesDispatcherWhenSet(t *testing.T) {
	var sent atomic.Int32
	c := recordingContext{
		Context: newContext(t, tele.Update{Message: &tele.Message{Chat: &tele.Chat{ID: 1}}}),
		sent:    &sent,
	}

	require.NoError(t, SendText(c, "inline"))
	assert.EqualValues(t, 1, sent.Load())

	d := sender.NewDispatcher(sender.Options{Workers: 1})
	SetDispatcher(d)
	t.Cleanup(func() { SetDispatcher(nil) })
	require.NoError(t, SendWithMarkup(c, "queued", nil))
	d.Close()
	assert.EqualValues(t, 2, sent.Load())
}
