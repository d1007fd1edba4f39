package client

import "context"

// Chat bundles the synchronization core for one participant: the stores, the
// dispatcher feeding them, and the session owning the transport. It is the
// surface renderers and entrypoints talk to.
type Chat struct {
	Store    *MessageStore
	Presence *PresenceTracker
	Typing   *TypingCoordinator
	Notice   *ErrorNotice

	name       string
	dispatcher *Dispatcher
	session    *Session
}

// New assembles the core for a participant with the given display name. The
// name is immutable for the lifetime of the Chat.
func New(name string) *Chat {
	c := &Chat{
		Store:    NewMessageStore(),
		Presence: NewPresenceTracker(),
		Notice:   NewErrorNotice(),
		name:     name,
	}

	// The coordinator resolves the emitter lazily: it exists only while a
	// session is open, and typing commands outside a session are dropped.
	c.Typing = NewTypingCoordinator(func(isTyping bool) error {
		if e := c.session.Emitter(); e != nil {
			return e.SetTyping(isTyping)
		}
		return nil
	})

	c.dispatcher = NewDispatcher(c.Store, c.Presence, c.Typing, c.Notice)
	c.session = NewSession(name, c.dispatcher, c.Notice)

	return c
}

// Name returns the participant's display name.
func (c *Chat) Name() string {
	return c.name
}

// OnUpdate registers a callback invoked after each applied inbound event.
// Must be set before Open.
func (c *Chat) OnUpdate(fn func(event string)) {
	c.dispatcher.SetOnUpdate(fn)
}

// Open connects to the relay and joins.
func (c *Chat) Open(ctx context.Context, relayURL string) error {
	return c.session.Open(ctx, relayURL)
}

// Send cancels any pending typing emission, emits typing(false), and submits
// the message. The returned id identifies the record the relay will echo
// back; nothing is inserted locally.
func (c *Chat) Send(text string) (string, error) {
	c.Typing.Submit()

	e := c.session.Emitter()
	if e == nil {
		return "", ErrNotOpen
	}
	return e.SendMessage(text)
}

// Edit requests a text replacement for a previously sent message.
func (c *Chat) Edit(id, text string) error {
	e := c.session.Emitter()
	if e == nil {
		return ErrNotOpen
	}
	return e.EditMessage(id, text)
}

// Delete requests retraction of a previously sent message.
func (c *Chat) Delete(id string) error {
	e := c.session.Emitter()
	if e == nil {
		return ErrNotOpen
	}
	return e.DeleteMessage(id)
}

// ObserveInput feeds the current composition-box content to the typing
// debounce.
func (c *Chat) ObserveInput(content string) {
	c.Typing.Observe(content)
}

// Close tears down the session and cancels every pending timer.
func (c *Chat) Close() {
	c.session.Close()
	c.Typing.Stop()
	c.Notice.Stop()
}

// Done is closed when the underlying session has ended.
func (c *Chat) Done() <-chan struct{} {
	return c.session.Done()
}
