package client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x0x0b/chat-frontend/internal/app/protocol"
)

type dispatcherFixture struct {
	store    *MessageStore
	presence *PresenceTracker
	typing   *TypingCoordinator
	notice   *ErrorNotice
	d        *Dispatcher
}

func newDispatcherFixture() *dispatcherFixture {
	clk := newFakeClock()
	f := &dispatcherFixture{
		store:    NewMessageStore(),
		presence: NewPresenceTracker(),
		typing:   newTypingCoordinator(func(bool) error { return nil }, clk),
		notice:   newErrorNotice(clk),
	}
	f.d = NewDispatcher(f.store, f.presence, f.typing, f.notice)
	return f
}

func envelope(t *testing.T, event string, data any) protocol.Envelope {
	t.Helper()
	env, err := protocol.NewEnvelope(event, data)
	require.NoError(t, err)
	return env
}

func TestDispatchMessageAppendsAndCoercesTimestamp(t *testing.T) {
	f := newDispatcherFixture()

	raw := []byte(`{"event":"message","data":{"id":"m1","text":"hi","username":"alice","timestamp":"2026-08-31T10:00:00Z"}}`)
	var env protocol.Envelope
	require.NoError(t, json.Unmarshal(raw, &env))

	f.d.Dispatch(env)

	messages := f.store.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "alice", messages[0].Username)
	assert.Equal(t, time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC), messages[0].Timestamp)
}

func TestDispatchEditAndDelete(t *testing.T) {
	f := newDispatcherFixture()

	f.d.Dispatch(envelope(t, protocol.EventMessage, protocol.Message{ID: "m1", Text: "hi", Username: "alice", Timestamp: time.Now()}))

	f.d.Dispatch(envelope(t, protocol.EventMessageEdited, protocol.MessageEdited{ID: "m1", Text: "hi there", Edited: true}))
	msg, ok := f.store.Get("m1")
	require.True(t, ok)
	assert.Equal(t, "hi there", msg.Text)
	assert.True(t, msg.Edited)

	f.d.Dispatch(envelope(t, protocol.EventMessageDeleted, "m1"))
	_, ok = f.store.Get("m1")
	assert.False(t, ok)
}

func TestDispatchEditPassesEditedFlagThrough(t *testing.T) {
	f := newDispatcherFixture()
	f.d.Dispatch(envelope(t, protocol.EventMessage, protocol.Message{ID: "m1", Text: "hi", Username: "alice", Timestamp: time.Now()}))

	f.d.Dispatch(envelope(t, protocol.EventMessageEdited, protocol.MessageEdited{ID: "m1", Text: "revised", Edited: false}))

	msg, ok := f.store.Get("m1")
	require.True(t, ok)
	assert.Equal(t, "revised", msg.Text)
	assert.False(t, msg.Edited, "the stored flag mirrors the event payload")
}

func TestDispatchEditOrDeleteUnknownIDIsBenign(t *testing.T) {
	f := newDispatcherFixture()

	f.d.Dispatch(envelope(t, protocol.EventMessageEdited, protocol.MessageEdited{ID: "ghost", Text: "boo", Edited: true}))
	f.d.Dispatch(envelope(t, protocol.EventMessageDeleted, "ghost"))

	assert.Equal(t, 0, f.store.Len())
	assert.Empty(t, f.notice.Message(), "inconsistency no-ops are not surfaced to the user")
}

func TestDispatchAnnouncementsBecomeSystemMessages(t *testing.T) {
	f := newDispatcherFixture()

	f.d.Dispatch(envelope(t, protocol.EventUserJoined, protocol.Announcement{Message: "Alice joined"}))
	f.d.Dispatch(envelope(t, protocol.EventUserLeft, protocol.Announcement{Message: "Bob left"}))

	messages := f.store.Messages()
	require.Len(t, messages, 2)

	assert.Equal(t, "Alice joined", messages[0].Text)
	assert.True(t, messages[0].IsSystem())
	assert.Equal(t, protocol.SystemUsername, messages[0].Username)
	assert.NotEmpty(t, messages[0].ID)

	assert.Equal(t, "Bob left", messages[1].Text)
	assert.NotEqual(t, messages[0].ID, messages[1].ID, "each announcement gets a fresh local id")
}

func TestDispatchUserListReplacesRoster(t *testing.T) {
	f := newDispatcherFixture()

	f.d.Dispatch(envelope(t, protocol.EventUserList, []string{"A", "B"}))
	f.d.Dispatch(envelope(t, protocol.EventUserList, []string{"B", "C"}))

	assert.Equal(t, []string{"B", "C"}, f.presence.Names())
}

func TestDispatchTypingUpsertsAndRemoves(t *testing.T) {
	f := newDispatcherFixture()

	f.d.Dispatch(envelope(t, protocol.EventTyping, protocol.TypingStatus{Username: "A", IsTyping: true}))
	assert.Equal(t, []string{"A"}, f.typing.Typing("me"))

	f.d.Dispatch(envelope(t, protocol.EventTyping, protocol.TypingStatus{Username: "A", IsTyping: false}))
	assert.Empty(t, f.typing.Typing("me"))
}

func TestDispatchErrorSetsNotice(t *testing.T) {
	f := newDispatcherFixture()

	f.d.Dispatch(envelope(t, protocol.EventError, "name taken"))

	assert.Equal(t, "name taken", f.notice.Message())
}

func TestDispatchUnknownEventKindLeavesStateUntouched(t *testing.T) {
	f := newDispatcherFixture()
	f.d.Dispatch(envelope(t, protocol.EventUserList, []string{"A"}))

	f.d.Dispatch(envelope(t, "reactionAdded", map[string]string{"id": "m1", "emoji": "+1"}))

	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, []string{"A"}, f.presence.Names())
	assert.Empty(t, f.typing.Typing("me"))
	assert.Empty(t, f.notice.Message(), "unknown kinds produce no error notice")
}

func TestDispatchMalformedPayloadIsSkipped(t *testing.T) {
	f := newDispatcherFixture()

	f.d.Dispatch(protocol.Envelope{
		Event: protocol.EventUserList,
		Data:  json.RawMessage(`{"not":"a list"}`),
	})

	assert.Empty(t, f.presence.Names())
	assert.Empty(t, f.notice.Message())
}

func TestDispatchOnUpdateFiresPerAppliedEvent(t *testing.T) {
	f := newDispatcherFixture()

	var seen []string
	f.d.SetOnUpdate(func(event string) { seen = append(seen, event) })

	f.d.Dispatch(envelope(t, protocol.EventUserList, []string{"A"}))
	f.d.Dispatch(envelope(t, "unknownKind", nil))

	assert.Equal(t, []string{protocol.EventUserList}, seen, "ignored events do not notify")
}

// Full lifecycle over the dispatcher alone: join announcement, message echo,
// edit, delete.
func TestDispatchEndToEndSequence(t *testing.T) {
	f := newDispatcherFixture()

	f.d.Dispatch(envelope(t, protocol.EventUserJoined, protocol.Announcement{Message: "Alice joined"}))
	require.Equal(t, 1, f.store.Len())
	assert.True(t, f.store.Messages()[0].IsSystem())

	echoed := protocol.Message{ID: "m1", Text: "hi", Username: "Alice", Timestamp: time.Now()}
	f.d.Dispatch(envelope(t, protocol.EventMessage, echoed))
	msg, ok := f.store.Get("m1")
	require.True(t, ok)
	assert.Equal(t, "hi", msg.Text)

	f.d.Dispatch(envelope(t, protocol.EventMessageEdited, protocol.MessageEdited{ID: "m1", Text: "hi there", Edited: true}))
	msg, _ = f.store.Get("m1")
	assert.Equal(t, "hi there", msg.Text)
	assert.True(t, msg.Edited)

	f.d.Dispatch(envelope(t, protocol.EventMessageDeleted, "m1"))
	_, ok = f.store.Get("m1")
	assert.False(t, ok)
}
