package client

import (
	"sync"
	"time"
)

// NoticeDuration is the fixed visibility window of an error notice.
const NoticeDuration = 5 * time.Second

// ErrorNotice holds the single current error message. A new message replaces
// the old one and restarts the auto-clear timer, so the newest notice always
// gets the full window.
type ErrorNotice struct {
	mu    sync.Mutex
	clk   clock
	text  string
	timer timer
}

// NewErrorNotice returns an ErrorNotice with no visible message.
func NewErrorNotice() *ErrorNotice {
	return newErrorNotice(realClock{})
}

func newErrorNotice(clk clock) *ErrorNotice {
	return &ErrorNotice{clk: clk}
}

// Set makes text the visible notice and schedules the auto-clear, replacing
// any pending timer.
func (n *ErrorNotice) Set(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}

	n.text = text
	n.timer = n.clk.AfterFunc(NoticeDuration, n.clear)
}

func (n *ErrorNotice) clear() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.text = ""
	n.timer = nil
}

// Message returns the currently visible notice, or "" when none is visible.
func (n *ErrorNotice) Message() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.text
}

// Stop cancels any pending auto-clear without changing the visible text.
// Called on teardown.
func (n *ErrorNotice) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
