// Package keyboard converts between plain button grids and telebot inline
// markup.
package keyboard

import tele "gopkg.in/telebot.v4"

// Button is one inline callback button. With an empty Unique the callback
// data is sent as is, without telebot's "\f<unique>|" envelope.
type Button struct {
	Text   string
	Unique string
	Data   string
}

func (b Button) inline(m *tele.ReplyMarkup) tele.InlineButton {
	if b.Unique == "" {
		return tele.InlineButton{Text: b.Text, Data: b.Data}
	}
	return *m.Data(b.Text, b.Unique, b.Data).Inline()
}

// Inline builds an inline keyboard with one keyboard row per grid row.
func Inline(grid [][]Button) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{InlineKeyboard: make([][]tele.InlineButton, 0, len(grid))}
	for _, row := range grid {
		out := make([]tele.InlineButton, len(row))
		for i, b := range row {
			out[i] = b.inline(m)
		}
		m.InlineKeyboard = append(m.InlineKeyboard, out)
	}
	return m
}

// Grid reads the inline keyboard of a delivered message back into buttons.
// It returns nil when the markup carries no inline keyboard.
func Grid(m *tele.ReplyMarkup) [][]Button {
	if m == nil || len(m.InlineKeyboard) == 0 {
		return nil
	}
	grid := make([][]Button, len(m.InlineKeyboard))
	for i, row := range m.InlineKeyboard {
		grid[i] = make([]Button, len(row))
		for j, b := range row {
			grid[i][j] = Button{Text: b.Text, Unique: b.Unique, Data: b.Data}
		}
	}
	return grid
}
