// File: api/options.go
// Author: momentics <momentics@gmail.com>
//
// Typed option registry. Option kinds form a closed set; passing an
// unknown kind or a mistyped value is a programmer error.

package api

// Option is a channel- or socket-level configuration key.
type Option interface{ isOption() }

// SocketOption passes through to setsockopt/getsockopt with the given
// (level, name) pair. Values are int.
type SocketOption struct {
	Level int
	Name  int
}

// AllocatorOption selects the channel's buffer allocator. Values are
// Allocator.
type AllocatorOption struct{}

// RecvAllocatorOption selects the receive-buffer sizing strategy. Values
// are RecvAllocator.
type RecvAllocatorOption struct{}

// AutoReadOption toggles automatic read re-arming after each read burst.
// Values are bool; setting true starts reading, setting false stops.
type AutoReadOption struct{}

// MaxMessagesPerReadOption bounds the number of read attempts per
// readiness edge. Values are int, minimum 1.
type MaxMessagesPerReadOption struct{}

func (SocketOption) isOption()             {}
func (AllocatorOption) isOption()          {}
func (RecvAllocatorOption) isOption()      {}
func (AutoReadOption) isOption()           {}
func (MaxMessagesPerReadOption) isOption() {}
