package client

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/x0x0b/chat-frontend/internal/app/protocol"
	"github.com/x0x0b/chat-frontend/internal/pkg/logx"
	"github.com/x0x0b/chat-frontend/internal/pkg/randx"
)

// Dispatcher routes inbound protocol events to the state they mutate. It is
// the only component that understands the wire event vocabulary. Events are
// processed one at a time in stream arrival order; no event kind is fatal,
// and unrecognized kinds are ignored so a relay that grows new events does
// not break older clients.
type Dispatcher struct {
	store    *MessageStore
	presence *PresenceTracker
	typing   *TypingCoordinator
	notice   *ErrorNotice

	// onUpdate, when set, is invoked after every applied event with the event
	// name. Renderers hang off this.
	onUpdate func(event string)

	logger zerolog.Logger
}

// NewDispatcher wires a Dispatcher to the stores it mutates.
func NewDispatcher(store *MessageStore, presence *PresenceTracker, typing *TypingCoordinator, notice *ErrorNotice) *Dispatcher {
	return &Dispatcher{
		store:    store,
		presence: presence,
		typing:   typing,
		notice:   notice,
		logger:   logx.Logger().With().Str("component", "dispatcher").Logger(),
	}
}

// SetOnUpdate registers a callback invoked after each applied event. Must be
// called before the session opens.
func (d *Dispatcher) SetOnUpdate(fn func(event string)) {
	d.onUpdate = fn
}

// Dispatch classifies one inbound envelope and applies its state mutation.
func (d *Dispatcher) Dispatch(env protocol.Envelope) {
	switch env.Event {
	case protocol.EventMessage:
		var msg protocol.Message
		if !d.decode(env, &msg) {
			return
		}
		d.store.Append(msg)

	case protocol.EventMessageDeleted:
		var id string
		if !d.decode(env, &id) {
			return
		}
		d.store.Remove(id)

	case protocol.EventMessageEdited:
		var edit protocol.MessageEdited
		if !d.decode(env, &edit) {
			return
		}
		d.store.EditInPlace(edit.ID, edit.Text, edit.Edited)

	case protocol.EventUserJoined, protocol.EventUserLeft:
		var ann protocol.Announcement
		if !d.decode(env, &ann) {
			return
		}
		d.store.Append(protocol.Message{
			ID:        randx.MessageID(),
			Text:      ann.Message,
			Username:  protocol.SystemUsername,
			Timestamp: time.Now(),
			Type:      protocol.MessageTypeSystem,
		})

	case protocol.EventUserList:
		var names []string
		if !d.decode(env, &names) {
			return
		}
		d.presence.Replace(names)

	case protocol.EventTyping:
		var status protocol.TypingStatus
		if !d.decode(env, &status) {
			return
		}
		d.typing.Apply(status.Username, status.IsTyping)

	case protocol.EventError:
		var text string
		if !d.decode(env, &text) {
			return
		}
		d.notice.Set(text)

	default:
		d.logger.Debug().Str("event", env.Event).Msg("Ignoring unrecognized event kind")
		return
	}

	if d.onUpdate != nil {
		d.onUpdate(env.Event)
	}
}

// decode unmarshals the envelope payload. A payload that does not match its
// expected shape is logged and skipped; the stream continues.
func (d *Dispatcher) decode(env protocol.Envelope, v any) bool {
	if err := json.Unmarshal(env.Data, v); err != nil {
		d.logger.Warn().Err(err).Str("event", env.Event).Msg("Dropping event with malformed payload")
		return false
	}
	return true
}
