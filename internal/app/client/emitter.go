package client

import (
	"sync"
	"time"

	"github.com/x0x0b/chat-frontend/internal/app/protocol"
	"github.com/x0x0b/chat-frontend/internal/pkg/randx"
)

// Conn is the minimal transport surface the emitter writes to.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v any) error
}

// Emitter sends the participant's outbound commands. Every command is
// fire-and-forget: at-most-once, no acknowledgment, no retry. A dropped
// command simply never manifests.
type Emitter struct {
	mu   sync.Mutex
	conn Conn
}

// NewEmitter wraps a connection. The emitter serializes writes; the
// underlying websocket connection does not allow concurrent writers.
func NewEmitter(conn Conn) *Emitter {
	return &Emitter{conn: conn}
}

// Join announces the chosen display name. It must be the first command on a
// fresh connection.
func (e *Emitter) Join(name string) error {
	return e.send(protocol.EventJoin, name)
}

// SendMessage submits a new message and returns its freshly generated id.
// The record is not inserted locally: the relay echoes the accepted message
// back on the inbound stream, which is the single source of truth for
// message existence.
func (e *Emitter) SendMessage(text string) (string, error) {
	sub := protocol.MessageSubmission{
		ID:        randx.MessageID(),
		Text:      text,
		Timestamp: time.Now(),
	}

	if err := e.send(protocol.EventMessage, sub); err != nil {
		return "", err
	}
	return sub.ID, nil
}

// EditMessage requests a text replacement for a previously sent message.
func (e *Emitter) EditMessage(id, text string) error {
	return e.send(protocol.EventEditMessage, protocol.MessageEdit{ID: id, Text: text})
}

// DeleteMessage requests retraction of a previously sent message.
func (e *Emitter) DeleteMessage(id string) error {
	return e.send(protocol.EventDeleteMessage, id)
}

// SetTyping emits the participant's coarse typing state.
func (e *Emitter) SetTyping(isTyping bool) error {
	return e.send(protocol.EventTyping, isTyping)
}

func (e *Emitter) send(event string, data any) error {
	env, err := protocol.NewEnvelope(event, data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.conn.WriteJSON(env)
}
