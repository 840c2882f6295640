package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		data, key, payload string
	}{
		{"list_tasks", "list_tasks", ""},
		{"\fdelete|42", "delete", "42"},
		{" menu ", "menu", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		key, payload := ParseCallbackData(&tele.Callback{Data: tc.data})
		if key != tc.key || payload != tc.payload {
			t.Fatalf("ParseCallbackData(%q) = %q, %q; want %q, %q", tc.data, key, payload, tc.key, tc.payload)
		}
	}
	if k, p := ParseCallbackData(nil); k != "" || p != "" {
		t.Fatalf("nil callback should parse empty, got %q %q", k, p)
	}
}

func TestCallbackKeyPrefersUnique(t *testing.T) {
	b, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatalf("bot: %v", err)
	}
	c := b.NewContext(tele.Update{Callback: &tele.Callback{Unique: "delete", Data: "42"}})
	if got := CallbackKey(c); got != "delete" {
		t.Fatalf("CallbackKey = %q, want delete", got)
	}
	c = b.NewContext(tele.Update{Callback: &tele.Callback{Data: "list_tasks"}})
	if got := CallbackKey(c); got != "list_tasks" {
		t.Fatalf("CallbackKey = %q, want list_tasks", got)
	}
	if got := CallbackKey(b.NewContext(tele.Update{})); got != "" {
		t.Fatalf("CallbackKey without callback = %q", got)
	}
}
