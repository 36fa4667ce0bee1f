package realtime

import (
	"sort"
	"sync"
)

// Registry maps a user id to its single live connection id. It is
// process-local soft state: rebuilt empty on restart, last connection
// wins on reconnect.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]string
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]string)}
}

// OnConnect records userID as connected via connID, replacing any earlier
// connection. Blank or literal "undefined" ids are ignored; a malformed
// handshake must not pollute presence.
func (r *Registry) OnConnect(userID, connID string) {
	if userID == "" || userID == "undefined" || connID == "" {
		return
	}
	r.mu.Lock()
	r.conns[userID] = connID
	r.mu.Unlock()
}

// OnDisconnect removes the mapping, but only while it still points at this
// exact connection. A stale disconnect racing a newer connection must not
// evict the newer entry. Reports whether an entry was removed.
func (r *Registry) OnDisconnect(userID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.conns[userID]; ok && current == connID {
		delete(r.conns, userID)
		return true
	}
	return false
}

// Snapshot returns the ids of all currently connected users, sorted for
// deterministic broadcasts.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.conns))
	for userID := range r.conns {
		ids = append(ids, userID)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Lookup resolves the live connection id for a user.
func (r *Registry) Lookup(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.conns[userID]
	return connID, ok
}
