// Package presence tracks which user currently owns a live chat
// connection. The registry is the only shared mutable state in the
// process; it is reset on restart and repopulated as clients reconnect.
package presence

import "sync"

type Registry struct {
	mu      sync.RWMutex
	entries map[uint]*Conn
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[uint]*Conn),
	}
}

// Register records conn as the single live connection for userID. An
// existing entry is replaced, not multiplexed; closing the replaced
// connection is the connection-lifecycle owner's job.
func (r *Registry) Register(userID uint, conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[userID] = conn
}

// Unregister removes whichever entry holds this exact connection.
// Matching is by identity, not user id: the user may have reconnected
// already, in which case the newer entry must survive.
func (r *Registry) Unregister(conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, c := range r.entries {
		if c == conn {
			delete(r.entries, userID)
			return
		}
	}
}

// Lookup returns the live connection for userID, if any. It never
// blocks; a closed-but-not-yet-unregistered connection is treated as
// absent.
func (r *Registry) Lookup(userID uint) (*Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.entries[userID]
	if !ok || conn.IsClosed() {
		return nil, false
	}

	return conn, true
}

// Len reports how many users are currently connected.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
