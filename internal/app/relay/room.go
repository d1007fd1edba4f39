/*
Package relay implements the development relay.

This file defines the Room, the single fan-out point all participants share.
Its run loop owns the roster: join handshakes, disconnect cleanup, and every
broadcast pass through it one at a time.
*/
package relay

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/x0x0b/chat-frontend/internal/app/protocol"
	"github.com/x0x0b/chat-frontend/internal/pkg/errs"
	"github.com/x0x0b/chat-frontend/internal/pkg/logx"
	"github.com/x0x0b/chat-frontend/internal/pkg/randx"
)

const broadcastChannelBuffer = 1024

// joinRequest carries a join handshake into the run loop. done is closed once
// the handshake has fully resolved, accepted or rejected; the read pump blocks
// on it so no later frame on the same connection outruns the join, and the
// close gives the accepted name a happens-before edge to the read pump.
type joinRequest struct {
	client *Client
	name   string
	done   chan struct{}
}

// outboundFrame carries one event to fan out. origin is excluded unless
// includeOrigin is set.
type outboundFrame struct {
	origin        *Client
	includeOrigin bool
	event         string
	data          any
}

// Room is the relay's single shared conversation. The run loop serializes
// all roster mutation and fan-out.
type Room struct {
	// clients maps accepted display names to their connection. Only the run
	// loop writes it.
	clients map[string]*Client

	join       chan joinRequest
	unregister chan *Client
	outbound   chan outboundFrame
	stopChan   chan struct{}

	// sanitizer strips markup from participant-supplied text before fan-out.
	sanitizer *bluemonday.Policy

	// mu protects reads of the clients map from outside the run loop.
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewRoom creates the room. Call Run on its own goroutine to start it.
func NewRoom() *Room {
	return &Room{
		clients:    make(map[string]*Client),
		join:       make(chan joinRequest),
		unregister: make(chan *Client),
		outbound:   make(chan outboundFrame, broadcastChannelBuffer),
		stopChan:   make(chan struct{}),
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logx.Logger().With().Str("component", "room").Logger(),
	}
}

// Run is the room's event loop. It handles join handshakes, disconnect
// cleanup, and fan-out until Stop is called.
func (r *Room) Run() {
	defer func() {
		r.mu.Lock()
		for _, client := range r.clients {
			close(client.send)
		}
		r.clients = make(map[string]*Client)
		r.mu.Unlock()

		r.logger.Info().Msg("Room run loop finished.")
	}()

	for {
		select {
		case req := <-r.join:
			r.handleJoin(req)

		case client := <-r.unregister:
			r.handleLeave(client)

		case frame := <-r.outbound:
			r.fanOut(frame)

		case <-r.stopChan:
			r.logger.Info().Msg("Room stop initiated.")
			return
		}
	}
}

// Stop terminates the run loop. Idempotent.
func (r *Room) Stop() {
	select {
	case <-r.stopChan:
	default:
		close(r.stopChan)
	}
}

// requestJoin hands a join handshake to the run loop and waits for it to
// resolve, so the caller's next frame cannot be processed as unjoined.
func (r *Room) requestJoin(c *Client, name string) {
	done := make(chan struct{})

	select {
	case r.join <- joinRequest{client: c, name: name, done: done}:
	case <-r.stopChan:
		return
	}

	select {
	case <-done:
	case <-r.stopChan:
	}
}

// broadcast queues one event for fan-out to every connected participant,
// excluding origin unless includeOrigin is set.
func (r *Room) broadcast(origin *Client, includeOrigin bool, event string, data any) {
	select {
	case r.outbound <- outboundFrame{origin: origin, includeOrigin: includeOrigin, event: event, data: data}:
	default:
		r.logger.Warn().Str("event", event).Msg("Broadcast channel full, dropping event")
	}
}

// sanitize strips markup from participant-supplied text.
func (r *Room) sanitize(text string) string {
	return r.sanitizer.Sanitize(text)
}

// handleJoin validates the display name and, on success, adds the client to
// the roster and announces the arrival. A rejected join leaves the
// connection open but unjoined; the client sees an error event.
func (r *Room) handleJoin(req joinRequest) {
	defer close(req.done)

	c := req.client

	if c.joined() {
		r.logger.Warn().
			Str("session_id", c.sessionID).
			Str("username", c.name).
			Msg("Ignoring second join on a joined connection")
		return
	}

	if !randx.ValidName(req.name) {
		if req.name == "" {
			c.SendError(errs.NewError(errs.ErrNameMissing))
		} else {
			c.SendError(errs.NewError(errs.ErrNameTooLong, randx.MaxNameLength))
		}
		return
	}

	if _, taken := r.clients[req.name]; taken {
		c.SendError(errs.NewError(errs.ErrNameTaken))
		return
	}

	c.name = req.name

	r.mu.Lock()
	r.clients[req.name] = c
	total := len(r.clients)
	r.mu.Unlock()

	r.logger.Info().
		Str("session_id", c.sessionID).
		Str("username", req.name).
		Int("total_users", total).
		Msg("Participant joined")

	r.fanOut(outboundFrame{
		includeOrigin: true,
		event:         protocol.EventUserJoined,
		data:          protocol.Announcement{Message: fmt.Sprintf("%s joined", req.name)},
	})
	r.broadcastRoster()
}

// handleLeave removes a disconnected client from the roster and announces
// the departure. Unjoined connections disappear silently.
func (r *Room) handleLeave(c *Client) {
	if !c.joined() {
		return
	}

	r.mu.Lock()
	current, ok := r.clients[c.name]
	if !ok || current != c {
		// A stale connection for a name that has since re-joined.
		r.mu.Unlock()
		return
	}
	delete(r.clients, c.name)
	total := len(r.clients)
	r.mu.Unlock()

	close(c.send)

	r.logger.Info().
		Str("session_id", c.sessionID).
		Str("username", c.name).
		Int("total_users", total).
		Msg("Participant left")

	r.fanOut(outboundFrame{
		includeOrigin: true,
		event:         protocol.EventUserLeft,
		data:          protocol.Announcement{Message: fmt.Sprintf("%s left", c.name)},
	})
	r.broadcastRoster()
}

// broadcastRoster sends the full, authoritative name list to everyone. The
// roster is always a wholesale replacement on the client side.
func (r *Room) broadcastRoster() {
	r.fanOut(outboundFrame{
		includeOrigin: true,
		event:         protocol.EventUserList,
		data:          r.Roster(),
	})
}

// Roster returns the sorted list of joined display names.
func (r *Room) Roster() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fanOut marshals one event and queues it for every recipient.
func (r *Room) fanOut(frame outboundFrame) {
	env, err := protocol.NewEnvelope(frame.event, frame.data)
	if err != nil {
		r.logger.Error().Err(err).Str("event", frame.event).Msg("Failed to build envelope for fan-out")
		return
	}

	raw, err := json.Marshal(env)
	if err != nil {
		r.logger.Error().Err(err).Str("event", frame.event).Msg("Failed to marshal envelope for fan-out")
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, client := range r.clients {
		if client == frame.origin && !frame.includeOrigin {
			continue
		}
		client.sendFrame(raw)
	}
}
