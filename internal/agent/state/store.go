package state

import "sync"

// Store is the process-wide session-state table. Unlike a bare map shared by
// reference, every read-modify-write goes through the per-session mutex, so
// concurrent requests for the same session serialize instead of racing.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu    sync.Mutex
	state *ConversationState
}

// NewStore creates an empty session-state table.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*sessionEntry)}
}

func (st *Store) entry(sessionID string) *sessionEntry {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.sessions[sessionID]
	if !ok {
		e = &sessionEntry{state: NewConversationState(sessionID)}
		st.sessions[sessionID] = e
	}
	return e
}

// Update runs fn with exclusive access to the session's state, creating the
// session on first use, and returns a snapshot of the state afterwards.
// This is the only mutation path: holding the snapshot does not extend the
// critical section.
func (st *Store) Update(sessionID string, fn func(*ConversationState)) ConversationState {
	e := st.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.state)
	return *e.state
}

// Snapshot returns a copy of the session's current state and whether the
// session exists.
func (st *Store) Snapshot(sessionID string) (ConversationState, bool) {
	st.mu.Lock()
	e, ok := st.sessions[sessionID]
	st.mu.Unlock()
	if !ok {
		return ConversationState{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.state, true
}

// Remove drops the session from the table. Safe to call for unknown sessions.
func (st *Store) Remove(sessionID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, sessionID)
}

// Len reports how many sessions the table currently holds.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
