/*
Package client implements the synchronization core of the chat client: the
message log, presence roster, typing aggregation, error notice, the event
dispatcher that mutates them, and the session that owns the transport.

All mutation happens one inbound event at a time on the session's read loop.
The stores carry locks only so renderers and tests can take consistent
snapshots while the loop runs.
*/
package client

import (
	"sync"

	"github.com/x0x0b/chat-frontend/internal/app/protocol"
)

// MessageStore is the arrival-ordered log of message records. Ids are unique
// within the store; ordering is insertion order and is never re-derived from
// timestamps, so a record that arrives late due to network jitter stays at
// its arrival position.
type MessageStore struct {
	mu       sync.RWMutex
	messages []protocol.Message
	index    map[string]int
}

// NewMessageStore returns an empty MessageStore.
func NewMessageStore() *MessageStore {
	return &MessageStore{
		index: make(map[string]int),
	}
}

// Append adds a record at the end of the log. A record whose id is already
// present is dropped, keeping application idempotent by identifier.
func (s *MessageStore) Append(msg protocol.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[msg.ID]; exists {
		return
	}

	s.index[msg.ID] = len(s.messages)
	s.messages = append(s.messages, msg)
}

// EditInPlace replaces the text and edited flag of the record with the given
// id, both taken from the inbound event. Editing an unknown id is a no-op, not
// an error: the record may have been deleted by a racing event. Authorship is
// not checked here; the relay is the authority on who may edit what.
func (s *MessageStore) EditInPlace(id, text string, edited bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return false
	}

	s.messages[pos].Text = text
	s.messages[pos].Edited = edited
	return true
}

// Remove filters the record with the given id out of the log. Removing an
// unknown id is a no-op. No tombstone is kept.
func (s *MessageStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return false
	}

	s.messages = append(s.messages[:pos], s.messages[pos+1:]...)
	delete(s.index, id)

	for i := pos; i < len(s.messages); i++ {
		s.index[s.messages[i].ID] = i
	}
	return true
}

// Get returns the record with the given id, if present.
func (s *MessageStore) Get(id string) (protocol.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return protocol.Message{}, false
	}
	return s.messages[pos], true
}

// Messages returns a snapshot copy of the log in arrival order.
func (s *MessageStore) Messages() []protocol.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]protocol.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of records currently in the log.
func (s *MessageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.messages)
}
