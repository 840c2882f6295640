package state

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the chat.
	StateIdle State = "idle"
)

// Manager stores conversation state keyed by chat id.
type Manager interface {
	Get(chatID int64) State
	Set(chatID int64, st State)
	// CompareAndSwap moves the chat from one state to another and reports
	// whether the current state matched from.
	CompareAndSwap(chatID int64, from, to State) bool
	Clear(chatID int64)
	InProgress(chatID int64) bool
}
