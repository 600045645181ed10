package presence

import (
	"sync"
)

// Listener is invoked once per user online/offline transition. N concurrent
// sessions for one user still produce exactly one transition each way.
type Listener func(userID uint64, online bool)

// Tracker maps live transport sessions to authenticated users. It is
// process-local, in-memory state: a restart clears it, and a multi-instance
// deployment needs the gateway's pub/sub relay to see the full picture.
type Tracker struct {
	mu        sync.RWMutex
	sessions  map[string]uint64
	users     map[uint64]map[string]struct{}
	listeners []Listener
}

func NewTracker() *Tracker {
	return &Tracker{
		sessions: make(map[string]uint64),
		users:    make(map[uint64]map[string]struct{}),
	}
}

// Subscribe registers a transition listener. Call before serving traffic;
// registration is not synchronized with in-flight transitions.
func (t *Tracker) Subscribe(l Listener) {
	t.mu.Lock()
	t.listeners = append(t.listeners, l)
	t.mu.Unlock()
}

// Register binds a session to a user. Idempotent; a user may hold any number
// of concurrent sessions across devices.
func (t *Tracker) Register(sessionID string, userID uint64) {
	t.mu.Lock()
	if _, exists := t.sessions[sessionID]; exists {
		t.mu.Unlock()
		return
	}
	t.sessions[sessionID] = userID
	cameOnline := len(t.users[userID]) == 0
	if t.users[userID] == nil {
		t.users[userID] = make(map[string]struct{})
	}
	t.users[userID][sessionID] = struct{}{}
	listeners := t.listeners
	t.mu.Unlock()

	if cameOnline {
		for _, l := range listeners {
			l(userID, true)
		}
	}
}

// Unregister drops a session. Removing the user's last session emits the
// offline transition.
func (t *Tracker) Unregister(sessionID string) {
	t.mu.Lock()
	userID, exists := t.sessions[sessionID]
	if !exists {
		t.mu.Unlock()
		return
	}
	delete(t.sessions, sessionID)
	delete(t.users[userID], sessionID)
	wentOffline := len(t.users[userID]) == 0
	if wentOffline {
		delete(t.users, userID)
	}
	listeners := t.listeners
	t.mu.Unlock()

	if wentOffline {
		for _, l := range listeners {
			l(userID, false)
		}
	}
}

func (t *Tracker) IsOnline(userID uint64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.users[userID]) > 0
}

// SessionsFor returns the user's active session ids for targeted push.
func (t *Tracker) SessionsFor(userID uint64) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sessions := make([]string, 0, len(t.users[userID]))
	for id := range t.users[userID] {
		sessions = append(sessions, id)
	}
	return sessions
}

func (t *Tracker) OnlineCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.users)
}
