package client

import "sync"

// PresenceTracker holds the roster of currently connected display names.
// The relay is the source of truth for membership: every userList event
// replaces the roster wholesale, never patches it.
type PresenceTracker struct {
	mu    sync.RWMutex
	names []string
}

// NewPresenceTracker returns an empty PresenceTracker.
func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{}
}

// Replace swaps the roster for the given name sequence.
func (p *PresenceTracker) Replace(names []string) {
	replacement := make([]string, len(names))
	copy(replacement, names)

	p.mu.Lock()
	p.names = replacement
	p.mu.Unlock()
}

// Names returns a snapshot copy of the roster.
func (p *PresenceTracker) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Count returns the number of connected participants.
func (p *PresenceTracker) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.names)
}
