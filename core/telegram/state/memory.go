package state

import "sync"

type entry struct {
	mu    sync.Mutex
	state State
	// dead marks an entry removed from the map; writers must reload.
	dead bool
}

type memoryManager struct {
	entries sync.Map // int64 -> *entry
}

// NewMemoryManager constructs an in-memory Manager.
func NewMemoryManager() Manager {
	return &memoryManager{}
}

// Get returns the chat state, or StateIdle when the chat has no entry.
func (m *memoryManager) Get(chatID int64) State {
	v, ok := m.entries.Load(chatID)
	if !ok {
		return StateIdle
	}
	e := v.(*entry)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dead {
		return StateIdle
	}
	return e.state
}

// Set stores st for the chat unconditionally.
func (m *memoryManager) Set(chatID int64, st State) {
	m.update(chatID, func(e *entry) {
		e.state = st
	})
}

// CompareAndSwap atomically replaces from with to for the chat.
func (m *memoryManager) CompareAndSwap(chatID int64, from, to State) bool {
	var swapped bool
	m.update(chatID, func(e *entry) {
		if e.state == from {
			e.state = to
			swapped = true
		}
	})
	return swapped
}

// Clear resets the chat to StateIdle and drops its entry.
func (m *memoryManager) Clear(chatID int64) {
	m.Set(chatID, StateIdle)
}

// InProgress reports whether the chat currently has an active conversation.
func (m *memoryManager) InProgress(chatID int64) bool {
	return m.Get(chatID) != StateIdle
}

// update runs fn under the chat's lock. Idle entries are removed so the map
// only holds chats with an active conversation.
func (m *memoryManager) update(chatID int64, fn func(e *entry)) {
	for {
		v, _ := m.entries.LoadOrStore(chatID, &entry{state: StateIdle})
		e := v.(*entry)
		e.mu.Lock()
		if e.dead {
			e.mu.Unlock()
			continue
		}
		fn(e)
		if e.state == StateIdle {
			e.dead = true
			m.entries.CompareAndDelete(chatID, e)
		}
		e.mu.Unlock()
		return
	}
}
