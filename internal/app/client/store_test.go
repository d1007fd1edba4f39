package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x0x0b/chat-frontend/internal/app/protocol"
)

func record(id, text, username string) protocol.Message {
	return protocol.Message{
		ID:        id,
		Text:      text,
		Username:  username,
		Timestamp: time.Now(),
	}
}

func TestStorePreservesArrivalOrder(t *testing.T) {
	s := NewMessageStore()

	s.Append(record("m1", "first", "alice"))
	s.Append(record("m2", "second", "bob"))
	s.Append(record("m3", "third", "alice"))

	s.EditInPlace("m1", "first, edited", true)
	s.Remove("m2")
	s.Append(record("m4", "fourth", "bob"))

	messages := s.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "m3", messages[1].ID)
	assert.Equal(t, "m4", messages[2].ID)

	assert.Equal(t, "first, edited", messages[0].Text)
	assert.True(t, messages[0].Edited)
}

func TestStoreLateArrivalStaysAtArrivalPosition(t *testing.T) {
	s := NewMessageStore()

	newer := record("m1", "sent later", "alice")
	older := record("m2", "sent earlier", "bob")
	older.Timestamp = newer.Timestamp.Add(-time.Minute)

	s.Append(newer)
	s.Append(older)

	messages := s.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "m1", messages[0].ID, "order is arrival order, not timestamp order")
	assert.Equal(t, "m2", messages[1].ID)
}

func TestStoreEditUnknownIDIsNoOp(t *testing.T) {
	s := NewMessageStore()
	s.Append(record("m1", "hello", "alice"))

	changed := s.EditInPlace("missing", "new text", true)

	assert.False(t, changed)
	require.Equal(t, 1, s.Len())
	msg, ok := s.Get("m1")
	require.True(t, ok)
	assert.Equal(t, "hello", msg.Text)
	assert.False(t, msg.Edited)
}

func TestStoreEditCarriesEditedFlagFromEvent(t *testing.T) {
	s := NewMessageStore()
	s.Append(record("m1", "hello", "alice"))

	require.True(t, s.EditInPlace("m1", "hi", false))
	msg, ok := s.Get("m1")
	require.True(t, ok)
	assert.Equal(t, "hi", msg.Text)
	assert.False(t, msg.Edited, "the flag comes from the event, not the operation")

	require.True(t, s.EditInPlace("m1", "hi there", true))
	msg, _ = s.Get("m1")
	assert.True(t, msg.Edited)
}

func TestStoreRemoveUnknownIDIsNoOp(t *testing.T) {
	s := NewMessageStore()
	s.Append(record("m1", "hello", "alice"))

	assert.False(t, s.Remove("missing"))
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.Remove("m1"))
	assert.False(t, s.Remove("m1"), "second remove of the same id is a no-op")
	assert.Equal(t, 0, s.Len())
}

func TestStoreDuplicateAppendIgnored(t *testing.T) {
	s := NewMessageStore()

	s.Append(record("m1", "hello", "alice"))
	s.Append(record("m1", "hello again", "alice"))

	require.Equal(t, 1, s.Len())
	msg, ok := s.Get("m1")
	require.True(t, ok)
	assert.Equal(t, "hello", msg.Text)
}

func TestStoreRemoveKeepsIndexConsistent(t *testing.T) {
	s := NewMessageStore()
	s.Append(record("m1", "one", "alice"))
	s.Append(record("m2", "two", "bob"))
	s.Append(record("m3", "three", "carol"))

	s.Remove("m1")

	require.True(t, s.EditInPlace("m3", "three, edited", true))
	msg, ok := s.Get("m3")
	require.True(t, ok)
	assert.Equal(t, "three, edited", msg.Text)

	messages := s.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "m2", messages[0].ID)
	assert.Equal(t, "m3", messages[1].ID)
}
