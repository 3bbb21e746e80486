package channel

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-nio/api"
	"github.com/momentics/hioload-nio/fake"
)

type stubReg struct {
	t *interestTracker
}

func (s *stubReg) FD() int { return 1 }
func (s *stubReg) Interest() api.Interest { return s.t.current }
func (s *stubReg) ReadReady()  {}
func (s *stubReg) WriteReady() {}

func newTracker(loop *fake.EventLoop) *interestTracker {
	t := &interestTracker{loop: loop}
	t.reg = &stubReg{t: t}
	return t
}

func TestInterestTransitions(t *testing.T) {
	cases := []struct {
		name string
		from api.Interest
		to   api.Interest
		op   string // "" means no loop call
	}{
		{"none to read registers", api.InterestNone, api.InterestRead, "register"},
		{"none to write registers", api.InterestNone, api.InterestWrite, "register"},
		{"none to both registers", api.InterestNone, api.InterestBoth, "register"},
		{"read to both reregisters", api.InterestRead, api.InterestBoth, "reregister"},
		{"write to both reregisters", api.InterestWrite, api.InterestBoth, "reregister"},
		{"both to read reregisters", api.InterestBoth, api.InterestRead, "reregister"},
		{"both to write reregisters", api.InterestBoth, api.InterestWrite, "reregister"},
		{"read to none deregisters", api.InterestRead, api.InterestNone, "deregister"},
		{"write to none deregisters", api.InterestWrite, api.InterestNone, "deregister"},
		{"same read is a no-op", api.InterestRead, api.InterestRead, ""},
		{"same none is a no-op", api.InterestNone, api.InterestNone, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			loop := fake.NewEventLoop()
			tr := newTracker(loop)
			tr.current = tc.from

			if err := tr.set(tc.to); err != nil {
				t.Fatalf("set: %v", err)
			}
			if tr.current != tc.to {
				t.Fatalf("current = %v, want %v", tr.current, tc.to)
			}
			if tc.op == "" {
				if len(loop.Calls) != 0 {
					t.Fatalf("unexpected loop calls %v", loop.Calls)
				}
				return
			}
			if len(loop.Calls) != 1 || loop.Calls[0].Op != tc.op {
				t.Fatalf("loop calls = %v, want one %q", loop.Calls, tc.op)
			}
			// the loop must observe the target interest during the call
			if loop.Calls[0].Interest != tc.to {
				t.Fatalf("interest during call = %v, want %v", loop.Calls[0].Interest, tc.to)
			}
		})
	}
}

func TestInterestSyscallFailurePropagates(t *testing.T) {
	loop := fake.NewEventLoop()
	loop.Fail["reregister"] = true
	loop.Err = errors.New("epoll_ctl_mod: bad descriptor")
	tr := newTracker(loop)
	tr.current = api.InterestRead

	if err := tr.set(api.InterestBoth); err == nil {
		t.Fatal("expected reregister failure to propagate")
	}
}

func TestForceNone(t *testing.T) {
	loop := fake.NewEventLoop()
	tr := newTracker(loop)
	tr.current = api.InterestBoth

	if err := tr.forceNone(); err != nil {
		t.Fatalf("forceNone: %v", err)
	}
	if tr.current != api.InterestNone {
		t.Fatalf("current = %v, want none", tr.current)
	}
	if loop.LastCall().Op != "deregister" {
		t.Fatalf("calls = %v, want deregister", loop.Calls)
	}

	// already none: no further loop calls
	n := len(loop.Calls)
	if err := tr.forceNone(); err != nil {
		t.Fatalf("forceNone: %v", err)
	}
	if len(loop.Calls) != n {
		t.Fatalf("unexpected extra calls %v", loop.Calls[n:])
	}
}
