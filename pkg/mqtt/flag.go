package mqtt

import (
	"sync"
	"time"
)

// readyFlag is a waitable boolean shared between the caller and the
// transport's callback goroutine. Waiters block on a channel that is
// closed when the flag is set and re-armed when it is cleared, so waiting
// never polls.
type readyFlag struct {
	mu  sync.Mutex
	set bool
	ch  chan struct{}
}

func newReadyFlag() *readyFlag {
	return &readyFlag{ch: make(chan struct{})}
}

// Set marks the flag and wakes all current waiters.
func (f *readyFlag) Set() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.set {
		f.set = true
		close(f.ch)
	}
}

// Clear unmarks the flag and re-arms the wait channel.
func (f *readyFlag) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.set {
		f.set = false
		f.ch = make(chan struct{})
	}
}

// IsSet reports the flag without blocking.
func (f *readyFlag) IsSet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set
}

// Wait blocks until the flag is set or the timeout elapses, and reports
// whether the flag became set.
func (f *readyFlag) Wait(timeout time.Duration) bool {
	f.mu.Lock()
	if f.set {
		f.mu.Unlock()
		return true
	}
	ch := f.ch
	f.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ch:
		return true
	case <-timer.C:
		return false
	}
}
