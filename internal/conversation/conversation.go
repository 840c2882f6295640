// Package conversation tracks chats that owe the bot a free-text follow-up.
package conversation

import (
	"context"
	"log/slog"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/core/telegram/state"
)

// AwaitingBroadcastBody is set while the bot waits for the text of a broadcast.
const AwaitingBroadcastBody state.State = "awaiting_broadcast_body"

// Machine drives the per-chat conversation states.
type Machine struct {
	states state.Manager
}

// New returns a Machine backed by states. A nil manager gets an in-memory one.
func New(states state.Manager) *Machine {
	if states == nil {
		states = state.NewMemoryManager()
	}
	return &Machine{states: states}
}

// Begin starts waiting for a broadcast body. It reports false when the chat
// already waits for something.
func (m *Machine) Begin(ctx context.Context, chatID int64) bool {
	ok := m.states.CompareAndSwap(chatID, state.StateIdle, AwaitingBroadcastBody)
	m.log(ctx, chatID, "conversation.begin", ok)
	return ok
}

// Active reports whether the chat waits for a follow-up.
func (m *Machine) Active(chatID int64) bool {
	return m.states.InProgress(chatID)
}

// Consume ends the broadcast conversation. Only one caller per conversation
// gets true, so concurrent texts from the same chat cannot broadcast twice.
func (m *Machine) Consume(ctx context.Context, chatID int64) bool {
	ok := m.states.CompareAndSwap(chatID, AwaitingBroadcastBody, state.StateIdle)
	m.log(ctx, chatID, "conversation.consume", ok)
	return ok
}

// Cancel drops any pending conversation and reports whether one existed.
func (m *Machine) Cancel(ctx context.Context, chatID int64) bool {
	was := m.states.InProgress(chatID)
	m.states.Clear(chatID)
	m.log(ctx, chatID, "conversation.cancel", was)
	return was
}

func (m *Machine) log(ctx context.Context, chatID int64, event string, changed bool) {
	status := "ok"
	if !changed {
		status = "skip"
	}
	logger.Debug(ctx, "tg.fsm", event,
		slog.String("status", status),
		slog.Int64("chat_id", chatID),
		slog.String("state", string(m.states.Get(chatID))),
	)
}
