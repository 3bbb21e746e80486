// File: core/channel/interest.go
// Author: momentics <momentics@gmail.com>
//
// Interest tracking between a channel and its event loop. The channel is
// registered with the loop exactly while its interest is non-empty:
// leaving the empty set registers, reaching it deregisters, every other
// transition reregisters additively.

package channel

import "github.com/momentics/hioload-nio/api"

type interestTracker struct {
	loop    api.EventLoop
	reg     api.Registration
	current api.Interest
}

// Interest returns the current interest set; the loop reads it through
// the registration when building its poll mask.
func (t *interestTracker) Interest() api.Interest { return t.current }

// set transitions to want, issuing the matching loop call. The new value
// is stored before the call so the loop observes the target interest.
func (t *interestTracker) set(want api.Interest) error {
	cur := t.current
	if want == cur {
		return nil
	}
	t.current = want
	switch {
	case cur == api.InterestNone:
		return t.loop.Register(t.reg)
	case want == api.InterestNone:
		return t.loop.Deregister(t.reg)
	default:
		return t.loop.Reregister(t.reg)
	}
}

// forceNone withdraws all interest without going through the channel's
// failure handling; used on the close path.
func (t *interestTracker) forceNone() error {
	if t.current == api.InterestNone {
		return nil
	}
	t.current = api.InterestNone
	return t.loop.Deregister(t.reg)
}
