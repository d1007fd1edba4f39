package client

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x0x0b/chat-frontend/internal/app/protocol"
	"github.com/x0x0b/chat-frontend/internal/pkg/randx"
)

// fakeConn records every envelope written through it.
type fakeConn struct {
	frames []protocol.Envelope
	err    error
}

func (c *fakeConn) WriteJSON(v any) error {
	if c.err != nil {
		return c.err
	}
	c.frames = append(c.frames, v.(protocol.Envelope))
	return nil
}

func (c *fakeConn) last(t *testing.T) protocol.Envelope {
	t.Helper()
	require.NotEmpty(t, c.frames)
	return c.frames[len(c.frames)-1]
}

func TestEmitterJoin(t *testing.T) {
	conn := &fakeConn{}
	e := NewEmitter(conn)

	require.NoError(t, e.Join("alice"))

	env := conn.last(t)
	assert.Equal(t, protocol.EventJoin, env.Event)

	var name string
	require.NoError(t, json.Unmarshal(env.Data, &name))
	assert.Equal(t, "alice", name)
}

func TestEmitterSendMessageGeneratesIDWithoutLocalInsert(t *testing.T) {
	conn := &fakeConn{}
	e := NewEmitter(conn)

	before := time.Now()
	id, err := e.SendMessage("hello")
	require.NoError(t, err)
	assert.Len(t, id, randx.MessageIDLength)

	env := conn.last(t)
	assert.Equal(t, protocol.EventMessage, env.Event)

	var sub protocol.MessageSubmission
	require.NoError(t, json.Unmarshal(env.Data, &sub))
	assert.Equal(t, id, sub.ID)
	assert.Equal(t, "hello", sub.Text)
	assert.False(t, sub.Timestamp.Before(before.Truncate(time.Second)))
}

func TestEmitterSendMessageIDsAreUnique(t *testing.T) {
	conn := &fakeConn{}
	e := NewEmitter(conn)

	id1, err := e.SendMessage("one")
	require.NoError(t, err)
	id2, err := e.SendMessage("two")
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
}

func TestEmitterEditAndDeletePayloads(t *testing.T) {
	conn := &fakeConn{}
	e := NewEmitter(conn)

	require.NoError(t, e.EditMessage("m1", "revised"))
	env := conn.last(t)
	assert.Equal(t, protocol.EventEditMessage, env.Event)
	var edit protocol.MessageEdit
	require.NoError(t, json.Unmarshal(env.Data, &edit))
	assert.Equal(t, protocol.MessageEdit{ID: "m1", Text: "revised"}, edit)

	require.NoError(t, e.DeleteMessage("m1"))
	env = conn.last(t)
	assert.Equal(t, protocol.EventDeleteMessage, env.Event)
	var id string
	require.NoError(t, json.Unmarshal(env.Data, &id))
	assert.Equal(t, "m1", id)
}

func TestEmitterSetTyping(t *testing.T) {
	conn := &fakeConn{}
	e := NewEmitter(conn)

	require.NoError(t, e.SetTyping(true))
	env := conn.last(t)
	assert.Equal(t, protocol.EventTyping, env.Event)
	assert.Equal(t, "true", string(env.Data))
}

func TestEmitterSurfacesWriteError(t *testing.T) {
	writeErr := errors.New("broken pipe")
	e := NewEmitter(&fakeConn{err: writeErr})

	_, err := e.SendMessage("hello")
	assert.ErrorIs(t, err, writeErr)
}
