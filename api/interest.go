// File: api/interest.go
// Author: momentics <momentics@gmail.com>
//
// Readiness interest set exchanged between channels and event loops.

package api

// Interest is the set of readiness edges a channel currently wants to be
// notified about. A channel is registered with its loop iff its interest
// is not InterestNone.
type Interest uint8

const (
	InterestNone  Interest = 0
	InterestRead  Interest = 1 << 0
	InterestWrite Interest = 1 << 1
	InterestBoth           = InterestRead | InterestWrite
)

// Readable reports whether the read edge is armed.
func (i Interest) Readable() bool { return i&InterestRead != 0 }

// Writable reports whether the write edge is armed.
func (i Interest) Writable() bool { return i&InterestWrite != 0 }

// With returns i with the edges of o added.
func (i Interest) With(o Interest) Interest { return i | o }

// Without returns i with the edges of o withdrawn.
func (i Interest) Without(o Interest) Interest { return i &^ o }

func (i Interest) String() string {
	switch i {
	case InterestNone:
		return "none"
	case InterestRead:
		return "read"
	case InterestWrite:
		return "write"
	case InterestBoth:
		return "read|write"
	}
	return "invalid"
}
