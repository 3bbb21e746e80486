// File: fake/loop.go
// Author: momentics <momentics@gmail.com>
//
// Recording api.EventLoop. Execute runs tasks inline so single-threaded
// tests drive channel operations synchronously.

package fake

import "github.com/momentics/hioload-nio/api"

// LoopCall records one loop invocation and the interest the channel
// exposed at that moment.
type LoopCall struct {
	Op       string // "register", "reregister", "deregister"
	Interest api.Interest
}

// EventLoop implements api.EventLoop for tests.
type EventLoop struct {
	// Calls records every registration-state call in order.
	Calls []LoopCall

	// Fail, when set, makes the named ops fail with Err.
	Fail map[string]bool
	Err  error

	registered bool
}

// NewEventLoop returns an empty recording loop.
func NewEventLoop() *EventLoop {
	return &EventLoop{Fail: make(map[string]bool)}
}

// Registered reports whether the channel is currently in the poll set.
func (l *EventLoop) Registered() bool { return l.registered }

// LastCall returns the most recent call, or a zero value.
func (l *EventLoop) LastCall() LoopCall {
	if len(l.Calls) == 0 {
		return LoopCall{}
	}
	return l.Calls[len(l.Calls)-1]
}

func (l *EventLoop) record(op string, r api.Registration) error {
	l.Calls = append(l.Calls, LoopCall{Op: op, Interest: r.Interest()})
	if l.Fail[op] {
		return l.Err
	}
	switch op {
	case "register":
		l.registered = true
	case "deregister":
		l.registered = false
	}
	return nil
}

// Register implements api.EventLoop.
func (l *EventLoop) Register(r api.Registration) error { return l.record("register", r) }

// Reregister implements api.EventLoop.
func (l *EventLoop) Reregister(r api.Registration) error { return l.record("reregister", r) }

// Deregister implements api.EventLoop.
func (l *EventLoop) Deregister(r api.Registration) error { return l.record("deregister", r) }

// Execute implements api.EventLoop by running fn immediately.
func (l *EventLoop) Execute(fn func()) { fn() }
