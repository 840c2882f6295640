package keyboard

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestInlineKeepsRawData(t *testing.T) {
	m := Inline([][]Button{
		{{Text: "List", Data: "list_tasks"}, {Text: "Add", Data: "add_task"}},
		{{Text: "Send", Data: "send_message_to_all_prompt"}},
	})
	if len(m.InlineKeyboard) != 2 || len(m.InlineKeyboard[0]) != 2 {
		t.Fatalf("unexpected layout: %+v", m.InlineKeyboard)
	}
	if got := m.InlineKeyboard[0][1]; got.Data != "add_task" || got.Unique != "" {
		t.Fatalf("expected raw callback data, got %+v", got)
	}
}

func TestInlineWrapsUniqueButtons(t *testing.T) {
	m := Inline([][]Button{{{Text: "Delete", Unique: "delete", Data: "42"}}})
	if got := m.InlineKeyboard[0][0]; got.Unique != "delete" || got.Data != "42" {
		t.Fatalf("unexpected button: %+v", got)
	}
}

func TestGridReadsBackInline(t *testing.T) {
	in := [][]Button{
		{{Text: "A", Data: "a"}},
		{{Text: "B", Data: "b"}, {Text: "C", Data: "c"}},
	}
	out := Grid(Inline(in))
	if len(out) != len(in) {
		t.Fatalf("rows = %d, want %d", len(out), len(in))
	}
	for i := range in {
		for j := range in[i] {
			if out[i][j] != in[i][j] {
				t.Fatalf("button %d/%d = %+v, want %+v", i, j, out[i][j], in[i][j])
			}
		}
	}
	if Grid(nil) != nil || Grid(&tele.ReplyMarkup{}) != nil {
		t.Fatal("expected nil grid for empty markup")
	}
}
