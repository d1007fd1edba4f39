/*
Package relay implements the development relay: the external fan-out
collaborator the chat client talks to. It accepts commands from each
participant over one websocket connection and rebroadcasts accepted events to
all connected participants, including the sender (echo-back delivery).

This file defines the relay-side Client, representing one active connection.
It runs the read and write pumps and translates raw frames into room traffic.
*/
package relay

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/x0x0b/chat-frontend/internal/app/protocol"
	"github.com/x0x0b/chat-frontend/internal/pkg/errs"
	"github.com/x0x0b/chat-frontend/internal/pkg/logx"
)

const (
	// timeout duration for writing to the websocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// MaxContentBytes is the maximum allowed size for message text.
	MaxContentBytes = 5000

	// sendChannelBuffer is the per-client outbound queue size.
	sendChannelBuffer = 256
)

// Per-client command rates. Message submission is deliberately coarser than
// typing signals.
const (
	messageRate  = rate.Limit(0.5)
	messageBurst = 10
	typingRate   = rate.Limit(2)
	typingBurst  = 10
)

// Client represents one active websocket connection on the relay side. A
// client has no display name until its join command is accepted.
type Client struct {
	// the room this connection belongs to.
	room *Room

	// underlying websocket connection, read by ReadPump and written by
	// WritePump only.
	conn *websocket.Conn

	// sessionID correlates log lines for one connection, independent of the
	// display name.
	sessionID string

	// name is the accepted display name; empty until the join handshake
	// succeeds. Written only by the room run loop.
	name string

	// send queues marshaled frames waiting to go out to this client.
	send chan []byte

	messageLim *rate.Limiter
	typingLim  *rate.Limiter

	logger zerolog.Logger
}

// NewClient constructs a relay Client for a freshly upgraded connection.
func NewClient(room *Room, conn *websocket.Conn) *Client {
	sessionID := uuid.NewString()

	return &Client{
		room:       room,
		conn:       conn,
		sessionID:  sessionID,
		send:       make(chan []byte, sendChannelBuffer),
		messageLim: rate.NewLimiter(messageRate, messageBurst),
		typingLim:  rate.NewLimiter(typingRate, typingBurst),
		logger: logx.Logger().With().
			Str("component", "relay").
			Str("session_id", sessionID).
			Logger(),
	}
}

// ReadPump reads frames from the connection until it drops, handling
// heartbeats and dispatching commands. It performs cleanup on exit.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Connection closed unexpectedly")
			}
			break
		}

		c.processInbound(frame)
	}
}

// cleanupOnDisconnect unregisters the client and releases the connection.
func (c *Client) cleanupOnDisconnect() {
	select {
	case c.room.unregister <- c:
	default:
		c.logger.Warn().Msg("Room unregister channel blocked. Connection cleanup still proceeding.")
	}

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error")
	}
}

// processInbound classifies one raw frame and routes it. Malformed frames
// earn the sender an error event; unsupported event kinds are ignored.
func (c *Client) processInbound(frame []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON")
		c.SendError(errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	switch env.Event {
	case protocol.EventJoin:
		c.handleJoin(env.Data)

	case protocol.EventMessage:
		c.handleMessage(env.Data)

	case protocol.EventEditMessage:
		c.handleEdit(env.Data)

	case protocol.EventDeleteMessage:
		c.handleDelete(env.Data)

	case protocol.EventTyping:
		c.handleTyping(env.Data)

	default:
		c.logger.Warn().Str("event", env.Event).Msg("Client sent unsupported event kind")
	}
}

func (c *Client) handleJoin(data json.RawMessage) {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		c.SendError(errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	c.room.requestJoin(c, name)
}

func (c *Client) handleMessage(data json.RawMessage) {
	if !c.joined() {
		c.SendError(errs.NewError(errs.ErrNotJoined))
		return
	}

	if !c.messageLim.Allow() {
		c.SendError(errs.NewError(errs.ErrRateLimitExceeded))
		return
	}

	var sub protocol.MessageSubmission
	if err := json.Unmarshal(data, &sub); err != nil {
		c.SendError(errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	if sub.ID == "" {
		c.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	if len(sub.Text) > MaxContentBytes {
		c.SendError(errs.NewError(errs.ErrMessageTooLong, MaxContentBytes))
		return
	}

	text := c.room.sanitize(sub.Text)
	if text == "" {
		c.SendError(errs.NewError(errs.ErrMessageEmpty))
		return
	}

	timestamp := sub.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	record := protocol.Message{
		ID:        sub.ID,
		Text:      text,
		Username:  c.name,
		Timestamp: timestamp,
	}

	// Echo-back delivery: the sender learns about its own message the same
	// way everyone else does.
	c.room.broadcast(c, true, protocol.EventMessage, record)
}

func (c *Client) handleEdit(data json.RawMessage) {
	if !c.joined() {
		c.SendError(errs.NewError(errs.ErrNotJoined))
		return
	}

	var edit protocol.MessageEdit
	if err := json.Unmarshal(data, &edit); err != nil {
		c.SendError(errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	if edit.ID == "" {
		c.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	if len(edit.Text) > MaxContentBytes {
		c.SendError(errs.NewError(errs.ErrMessageTooLong, MaxContentBytes))
		return
	}

	text := c.room.sanitize(edit.Text)
	if text == "" {
		c.SendError(errs.NewError(errs.ErrMessageEmpty))
		return
	}

	c.room.broadcast(c, true, protocol.EventMessageEdited, protocol.MessageEdited{
		ID:     edit.ID,
		Text:   text,
		Edited: true,
	})
}

func (c *Client) handleDelete(data json.RawMessage) {
	if !c.joined() {
		c.SendError(errs.NewError(errs.ErrNotJoined))
		return
	}

	var id string
	if err := json.Unmarshal(data, &id); err != nil || id == "" {
		c.SendError(errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	c.room.broadcast(c, true, protocol.EventMessageDeleted, id)
}

func (c *Client) handleTyping(data json.RawMessage) {
	if !c.joined() {
		return
	}

	// Over-limit typing signals are dropped silently; an error event per
	// keystroke burst would be noisier than the problem.
	if !c.typingLim.Allow() {
		return
	}

	var isTyping bool
	if err := json.Unmarshal(data, &isTyping); err != nil {
		return
	}

	c.room.broadcast(c, false, protocol.EventTyping, protocol.TypingStatus{
		Username: c.name,
		IsTyping: isTyping,
	})
}

// joined reports whether the join handshake has completed for this client.
func (c *Client) joined() bool {
	return c.name != ""
}

// WritePump writes queued frames to the connection and keeps the heartbeat
// going. It owns the write side exclusively.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug().Err(err).Msg("Error writing close message")
				}
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Warn().Err(err).Msg("Error writing frame")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}

// sendFrame queues a marshaled frame for this client, dropping it when the
// queue is full.
func (c *Client) sendFrame(frame []byte) {
	select {
	case c.send <- frame:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping frame")
	}
}

// sendEvent marshals and queues one event for this client only.
func (c *Client) sendEvent(event string, data any) {
	env, err := protocol.NewEnvelope(event, data)
	if err != nil {
		c.logger.Error().Err(err).Str("event", event).Msg("Failed to build envelope")
		return
	}

	frame, err := json.Marshal(env)
	if err != nil {
		c.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal envelope")
		return
	}

	c.sendFrame(frame)
}

// SendError reports a rejected command to this client as an error event.
// The payload is the user-facing message text.
func (c *Client) SendError(customErr *errs.CustomError) {
	c.logger.Info().
		Int("code", customErr.Code).
		Str("message", customErr.Message).
		Msg("Rejecting command")

	c.sendEvent(protocol.EventError, customErr.Message)
}
