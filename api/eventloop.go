// File: api/eventloop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Event loop contract: a readiness notifier that owns no channel state
// beyond the registration itself.

package api

// Registration is the loop-facing side of a channel. The loop reads the
// descriptor and the current interest when (re)building its poll set and
// invokes the readiness callbacks on I/O edges, always on the loop
// goroutine.
type Registration interface {
	// FD returns the descriptor to poll.
	FD() int

	// Interest returns the edges the registration currently wants.
	Interest() Interest

	// ReadReady is invoked on a readable edge.
	ReadReady()

	// WriteReady is invoked on a writable edge.
	WriteReady()
}

// EventLoop multiplexes readiness over registered descriptors and runs
// submitted tasks on its single goroutine.
//
// Register, Reregister and Deregister are idempotent per state and may
// fail with an I/O error; such failures are fatal for the affected
// channel.
type EventLoop interface {
	// Register adds r to the poll set with its current interest.
	Register(r Registration) error

	// Reregister updates the poll set to r's current interest.
	Reregister(r Registration) error

	// Deregister removes r from the poll set.
	Deregister(r Registration) error

	// Execute schedules fn to run on the loop goroutine. It is the only
	// loop method safe to call from other goroutines.
	Execute(fn func())
}
