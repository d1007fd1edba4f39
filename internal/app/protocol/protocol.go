/*
Package protocol defines the wire vocabulary shared by the client and the relay.

Every frame is a JSON envelope carrying an event name and a raw payload. The
payload shape depends on the event; this package holds the typed payload
structs for all of them. No schema versioning is defined.
*/
package protocol

import (
	"encoding/json"
	"time"
)

// Outbound event names (client to relay).
const (
	EventJoin          = "join"
	EventMessage       = "message"
	EventEditMessage   = "editMessage"
	EventDeleteMessage = "deleteMessage"
	EventTyping        = "typing"
)

// Inbound event names (relay to client). EventMessage and EventTyping travel
// in both directions with different payload shapes.
const (
	EventMessageDeleted = "messageDeleted"
	EventMessageEdited  = "messageEdited"
	EventUserJoined     = "userJoined"
	EventUserLeft       = "userLeft"
	EventUserList       = "userList"
	EventError          = "error"
)

// MessageTypeSystem marks join/leave announcements, rendered distinctly from
// participant-authored messages.
const MessageTypeSystem = "system"

// SystemUsername is the author name attached to system-typed messages.
const SystemUsername = "System"

// Envelope is the framing for every message on the wire.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals data into a ready-to-send Envelope.
func NewEnvelope(event string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: event, Data: raw}, nil
}

// Message is the full message record as broadcast by the relay. Timestamps
// are RFC 3339 on the wire and coerced to time.Time on arrival.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
	Edited    bool      `json:"edited,omitempty"`
	ReadBy    []string  `json:"readBy,omitempty"`
	Type      string    `json:"type,omitempty"`
}

// IsSystem reports whether the record is a join/leave announcement.
func (m Message) IsSystem() bool {
	return m.Type == MessageTypeSystem
}

// MessageSubmission is the outbound payload of a message event. The relay
// stamps the sender's name and echoes the completed record back to everyone,
// including the sender.
type MessageSubmission struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageEdit is the outbound payload of an editMessage event.
type MessageEdit struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// MessageEdited is the inbound payload describing an applied edit.
type MessageEdited struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Edited bool   `json:"edited"`
}

// Announcement is the inbound payload of userJoined and userLeft events.
type Announcement struct {
	Message string `json:"message"`
}

// TypingStatus is the inbound payload of a typing event. An entry with
// IsTyping false means the participant stopped and must be removed from any
// aggregated view, never retained with a false flag.
type TypingStatus struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}
