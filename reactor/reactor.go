// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-independent loop core: registration table, task queue and the
// run/stop protocol. The platform poller lives behind the poller
// interface in reactor_linux.go and its stub sibling.

package reactor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
	"github.com/rs/zerolog"

	"github.com/momentics/hioload-nio/api"
)

// DefaultMaxEvents is the readiness batch size per poll call.
const DefaultMaxEvents = 128

// event is one readiness edge reported by the poller.
type event struct {
	fd       int
	readable bool
	writable bool
}

// poller is the platform readiness backend.
type poller interface {
	add(fd int, i api.Interest) error
	mod(fd int, i api.Interest) error
	del(fd int) error
	wait(evs []event, timeoutMs int) (int, error)
	wake() error
	close() error
}

// Loop implements api.EventLoop over the platform poller. Registrations
// are touched only on the loop goroutine; Execute is the one entry point
// safe from anywhere.
type Loop struct {
	p    poller
	regs map[int]api.Registration

	mu    sync.Mutex
	tasks *queue.Queue

	stopCh  chan struct{}
	running int32
	stopped int32

	maxEvents int
	log       zerolog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger installs a structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(lp *Loop) { lp.log = l }
}

// WithMaxEvents overrides the poll batch size.
func WithMaxEvents(n int) Option {
	return func(lp *Loop) {
		if n > 0 {
			lp.maxEvents = n
		}
	}
}

// New builds a loop over the platform poller.
func New(opts ...Option) (*Loop, error) {
	l := &Loop{
		regs:      make(map[int]api.Registration),
		tasks:     queue.New(),
		stopCh:    make(chan struct{}),
		maxEvents: DefaultMaxEvents,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	p, err := newPoller(l.maxEvents)
	if err != nil {
		return nil, err
	}
	l.p = p
	return l, nil
}

// Register implements api.EventLoop.
func (l *Loop) Register(r api.Registration) error {
	fd := r.FD()
	if _, ok := l.regs[fd]; ok {
		l.regs[fd] = r
		return l.p.mod(fd, r.Interest())
	}
	if err := l.p.add(fd, r.Interest()); err != nil {
		return err
	}
	l.regs[fd] = r
	return nil
}

// Reregister implements api.EventLoop.
func (l *Loop) Reregister(r api.Registration) error {
	return l.p.mod(r.FD(), r.Interest())
}

// Deregister implements api.EventLoop.
func (l *Loop) Deregister(r api.Registration) error {
	fd := r.FD()
	if _, ok := l.regs[fd]; !ok {
		return nil
	}
	delete(l.regs, fd)
	return l.p.del(fd)
}

// Execute implements api.EventLoop. The task runs on the loop goroutine
// in submission order.
func (l *Loop) Execute(fn func()) {
	l.mu.Lock()
	l.tasks.Add(fn)
	l.mu.Unlock()
	if err := l.p.wake(); err != nil {
		l.log.Error().Err(err).Msg("loop wakeup failed")
	}
}

// Run polls readiness and dispatches until Stop. It must be called from
// exactly one goroutine, which becomes the loop goroutine.
func (l *Loop) Run() {
	if !atomic.CompareAndSwapInt32(&l.running, 0, 1) {
		return
	}
	defer func() {
		l.runTasks()
		if err := l.p.close(); err != nil {
			l.log.Error().Err(err).Msg("poller close failed")
		}
		atomic.StoreInt32(&l.stopped, 1)
	}()
	evs := make([]event, l.maxEvents)
	for {
		l.runTasks()
		select {
		case <-l.stopCh:
			return
		default:
		}
		n, err := l.p.wait(evs, -1)
		if err != nil {
			l.log.Error().Err(err).Msg("poll failed")
			return
		}
		for i := 0; i < n; i++ {
			l.dispatch(evs[i])
		}
	}
}

// Stop asks the loop to exit and waits for it to finish.
func (l *Loop) Stop() {
	select {
	case <-l.stopCh:
	default:
		close(l.stopCh)
	}
	if err := l.p.wake(); err != nil {
		l.log.Error().Err(err).Msg("loop wakeup failed")
	}
	if atomic.LoadInt32(&l.running) == 1 {
		for atomic.LoadInt32(&l.stopped) == 0 {
			time.Sleep(time.Microsecond)
		}
	}
}

// dispatch routes one readiness edge. The registration is looked up
// again before the writable callback: the readable one may have closed
// and deregistered the channel.
func (l *Loop) dispatch(ev event) {
	reg, ok := l.regs[ev.fd]
	if !ok {
		return
	}
	if ev.readable {
		reg.ReadReady()
	}
	if ev.writable {
		if cur, ok := l.regs[ev.fd]; ok && cur == reg {
			reg.WriteReady()
		}
	}
}

func (l *Loop) runTasks() {
	l.mu.Lock()
	n := l.tasks.Length()
	if n == 0 {
		l.mu.Unlock()
		return
	}
	fns := make([]func(), 0, n)
	for i := 0; i < n; i++ {
		fns = append(fns, l.tasks.Remove().(func()))
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
