// Package state keeps per-chat conversation state in process memory.
// Every chat owns its own entry and lock, so updates for one chat never wait on another.
package state
