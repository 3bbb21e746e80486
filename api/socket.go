// File: api/socket.go
// Author: momentics <momentics@gmail.com>
//
// Non-blocking socket surface consumed by channels. All operations are
// strictly non-blocking: reads and writes either move bytes immediately
// or return ErrWouldBlock.

package api

import "net"

// Socket abstracts one connected (or bindable) stream socket.
//
// Read returns (0, nil) on end-of-stream. Read, Write and Writev return
// ErrWouldBlock when the kernel cannot move any bytes without waiting.
type Socket interface {
	// Read fills p from the socket and returns the byte count.
	Read(p []byte) (int, error)

	// Write transmits p and returns the number of bytes accepted,
	// which may be less than len(p) under kernel backpressure.
	Write(p []byte) (int, error)

	// Writev transmits the regions of bufs in order with a single
	// gathering syscall and returns the total accepted byte count.
	// len(bufs) must not exceed WritevLimit.
	Writev(bufs [][]byte) (int, error)

	// WritevLimit returns the maximum vector length Writev accepts.
	WritevLimit() int

	// Bind assigns a local address to the socket.
	Bind(addr net.Addr) error

	// Close releases the descriptor. Further operations fail.
	Close() error

	// LocalAddr returns the bound local address.
	LocalAddr() (net.Addr, error)

	// RemoteAddr returns the peer address of a connected socket.
	RemoteAddr() (net.Addr, error)

	// FD exposes the descriptor for event-loop registration.
	FD() int

	// SetOption passes value through to setsockopt(level, name).
	SetOption(level, name, value int) error

	// Option passes through to getsockopt(level, name).
	Option(level, name int) (int, error)
}
