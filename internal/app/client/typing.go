package client

import (
	"sort"
	"sync"
	"time"
)

// DebounceWindow is the quiet period after the last composition change before
// a typing command is emitted.
const DebounceWindow = 500 * time.Millisecond

// TypingCoordinator has two halves. The local half collapses a burst of
// composition-box changes into a single trailing typing emission, cancelable
// by submission or teardown. The remote half aggregates typing events from
// other participants into a displayable set.
//
// The local participant's own typing state is never stored here, only
// emitted outward.
type TypingCoordinator struct {
	mu sync.Mutex

	clk  clock
	emit func(isTyping bool) error

	// pending is the single-slot debounce timer; pendingState is the boolean
	// implied by the composition content at the last observation.
	pending      timer
	pendingState bool

	remote map[string]struct{}
}

// NewTypingCoordinator returns a coordinator that emits through the given
// function. The function is called from the debounce timer goroutine and from
// Submit; it must be safe for that.
func NewTypingCoordinator(emit func(isTyping bool) error) *TypingCoordinator {
	return newTypingCoordinator(emit, realClock{})
}

func newTypingCoordinator(emit func(isTyping bool) error, clk clock) *TypingCoordinator {
	return &TypingCoordinator{
		clk:    clk,
		emit:   emit,
		remote: make(map[string]struct{}),
	}
}

// Observe records the current composition-box content. Each call cancels any
// pending emission and re-arms the debounce timer, so a burst of changes
// settles into at most one outward command carrying the state implied by the
// content at the settling moment.
func (t *TypingCoordinator) Observe(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending != nil {
		t.pending.Stop()
	}

	t.pendingState = content != ""
	t.pending = t.clk.AfterFunc(DebounceWindow, t.fire)
}

// fire is the debounce timer callback.
func (t *TypingCoordinator) fire() {
	t.mu.Lock()
	state := t.pendingState
	t.pending = nil
	t.mu.Unlock()

	_ = t.emit(state)
}

// Submit cancels any pending emission and immediately emits typing(false).
// Called on message submission so no stale typing command races after the
// message itself.
func (t *TypingCoordinator) Submit() {
	t.mu.Lock()
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	t.mu.Unlock()

	_ = t.emit(false)
}

// Stop cancels any pending emission without emitting. Called on teardown.
func (t *TypingCoordinator) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

// Apply upserts or removes a remote participant's typing entry. An event with
// isTyping false removes the entry entirely; the set never holds a false flag.
func (t *TypingCoordinator) Apply(username string, isTyping bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if isTyping {
		t.remote[username] = struct{}{}
	} else {
		delete(t.remote, username)
	}
}

// Typing returns the sorted names currently typing. Self is filtered out even
// if the relay ever echoes the local participant's typing back.
func (t *TypingCoordinator) Typing(self string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, 0, len(t.remote))
	for name := range t.remote {
		if name == self {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
