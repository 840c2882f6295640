package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildIsDeterministic(t *testing.T) {
	for _, s := range []Screen{ScreenMain, ScreenBroadcastPrompt} {
		assert.True(t, Build(s).Equal(Build(s)), "screen %s", s)
	}
	assert.False(t, Build(ScreenMain).Equal(Build(ScreenBroadcastPrompt)))
}

func TestMainMenuLayout(t *testing.T) {
	m := Build(ScreenMain)
	assert.Equal(t, "Выберите действие:", m.Text)
	assert.Len(t, m.Rows, 5)
	assert.Equal(t, ActionListTasks, m.Rows[0][0].Action)
	assert.Equal(t, ActionBroadcastPrompt, m.Rows[3][0].Action)
	assert.Equal(t, ActionMenu, m.Rows[4][0].Action)
}

func TestEqualDetectsChanges(t *testing.T) {
	base := Build(ScreenMain)

	text := Build(ScreenMain)
	text.Text = "other"
	assert.False(t, base.Equal(text))

	relabeled := Build(ScreenMain)
	relabeled.Rows[0][0].Label = "Tasks"
	assert.False(t, base.Equal(relabeled))

	shorter := Build(ScreenMain)
	shorter.Rows = shorter.Rows[:4]
	assert.False(t, base.Equal(shorter))

	assert.False(t, base.Equal(Menu{}))
}

func TestEveryButtonUsesKnownAction(t *testing.T) {
	known := map[Action]bool{}
	for _, a := range Actions() {
		known[a] = true
	}
	for _, s := range []Screen{ScreenMain, ScreenBroadcastPrompt} {
		for _, row := range Build(s).Rows {
			for _, b := range row {
				assert.True(t, known[b.Action], "unknown action %q on screen %s", b.Action, s)
			}
		}
	}
}
