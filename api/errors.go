// File: api/errors.go
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-nio.

package api

import (
	"errors"
	"fmt"
	"syscall"
)

// Sentinel errors used across the library.
var (
	// ErrWouldBlock reports that a socket operation could not move any
	// bytes without waiting. The caller must retry on the next readiness
	// edge delivered by the event loop.
	ErrWouldBlock = errors.New("operation would block")

	// ErrUnsupportedMessage reports a write payload that is not a byte
	// buffer. It fails the write promise without affecting channel state.
	ErrUnsupportedMessage = errors.New("unsupported message type")

	// ErrNotSupported reports an operation that is unavailable on the
	// current platform.
	ErrNotSupported = errors.New("operation not supported")

	// ErrInvalidArgument reports a malformed argument value.
	ErrInvalidArgument = errors.New("invalid argument")
)

// IOError is a syscall-level failure carrying the errno and the operation
// that produced it.
type IOError struct {
	Errno  syscall.Errno
	Op     string
	Reason string
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Reason, e.Errno.Error())
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Errno.Error())
}

// Unwrap exposes the errno for errors.Is matching.
func (e *IOError) Unwrap() error { return e.Errno }

// NewIOError creates an IOError for op from errno.
func NewIOError(op string, errno syscall.Errno, reason string) *IOError {
	return &IOError{Errno: errno, Op: op, Reason: reason}
}

// ErrChannelClosed fails pending writes when a channel closes and rejects
// writes submitted to an already-closed channel.
var ErrChannelClosed error = &IOError{Errno: syscall.EBADF, Op: "write", Reason: "channel closed"}

// Programmerf reports an unrecoverable misuse of the library, such as an
// unknown option or a broken queue invariant. It does not return.
func Programmerf(format string, args ...any) {
	panic(fmt.Sprintf("hioload-nio: "+format, args...))
}
