package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/planbot/internal/domain"
)

func TestSplitArgs(t *testing.T) {
	assert.Nil(t, splitArgs("   "))
	assert.Equal(t, []string{"Title", "Some description", "2099.12.31"}, splitArgs(" Title , Some description,2099.12.31 "))
	assert.Equal(t, []string{"Meetup", "2025-03-10"}, splitArgs("Meetup   2025-03-10"))
	assert.Equal(t, []string{"a", ""}, splitArgs("a,"))
}

func TestParseArgsArity(t *testing.T) {
	_, err := parseArgs("op", "a, b", 3)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = parseArgs("op", "a, , c", 3)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	parts, err := parseArgs("op", "a, b, c", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, parts)
}

func TestParseID(t *testing.T) {
	id, err := parseID("op", " 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, in := range []string{"", "0", "-1", "x", "1 2"} {
		_, err := parseID("op", in)
		assert.True(t, errors.Is(err, domain.ErrValidation), "input %q", in)
	}
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in   string
		cmd  Command
		args string
		ok   bool
	}{
		{"/start", CmdStart, "", true},
		{"/add_task@planbot a, b, 2099.12.31", CmdAddTask, "a, b, 2099.12.31", true},
		{"  /Delete_Task 7 ", CmdDeleteTask, "7", true},
		{"/send_message_to_all\nline two", CmdSendMessageToAll, "line two", true},
		{"hello", "", "", false},
		{"/", "", "", false},
		{"/@bot", "", "", false},
	}
	for _, tc := range cases {
		cmd, args, ok := ParseCommand(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.cmd, cmd, tc.in)
		assert.Equal(t, tc.args, args, tc.in)
	}
}
