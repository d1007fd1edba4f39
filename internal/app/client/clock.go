package client

import "time"

// timer is a single-slot cancelable scheduled task. Stop reports whether the
// call prevented the task from firing.
type timer interface {
	Stop() bool
}

// clock abstracts timer creation so the debounce and notice windows can be
// driven by a fake clock in tests.
type clock interface {
	AfterFunc(d time.Duration, f func()) timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}
