// File: core/channel/channel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Readiness-driven byte-stream channel. A Channel owns one connected
// socket and mediates between the event loop's readiness edges and the
// handler pipeline: buffered writes coalesce into gathering syscalls,
// and the interest set is toggled from buffered work and the caller's
// auto-read choice.
//
// Every method below the user-facing block must run on the owning loop
// goroutine. The user-facing methods hop onto the loop with Execute.

package channel

import (
	"errors"
	"net"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-nio/api"
	"github.com/momentics/hioload-nio/core/buffer"
	"github.com/momentics/hioload-nio/core/concurrency"
	"github.com/momentics/hioload-nio/pipeline"
)

// DefaultMaxMessagesPerRead bounds the read attempts one readable edge
// may spend on a single channel, so one busy peer cannot starve the
// loop.
const DefaultMaxMessagesPerRead = 16

// Config carries the collaborators and initial settings of a Channel.
type Config struct {
	Socket api.Socket
	Loop   api.EventLoop

	// Allocator backs receive buffers; defaults to the pooled
	// allocator.
	Allocator api.Allocator

	// RecvAllocator sizes receive buffers; defaults to a fixed size.
	RecvAllocator api.RecvAllocator

	// AutoRead re-arms read interest after every read burst. Enabled
	// unless DisableAutoRead is set.
	DisableAutoRead bool

	// MaxMessagesPerRead overrides DefaultMaxMessagesPerRead when
	// positive.
	MaxMessagesPerRead uint32

	// Logger defaults to a no-op logger when nil.
	Logger *zerolog.Logger
}

// Channel owns one connected socket, its pending-write queue and its
// pipeline, and is pinned to one event loop for its lifetime.
type Channel struct {
	sock api.Socket
	loop api.EventLoop
	pl   *pipeline.Pipeline
	out  *PendingWriteQueue

	interest interestTracker

	open        bool
	registered  bool
	readPending bool
	autoRead    bool
	writable    bool

	maxMessagesPerRead uint32
	alloc              api.Allocator
	recvAlloc          api.RecvAllocator

	log zerolog.Logger
}

// New builds a channel over cfg.Socket, pinned to cfg.Loop. The channel
// is open but not yet registered; call RegisterOnLoop to attach it.
func New(cfg Config) *Channel {
	if cfg.Socket == nil || cfg.Loop == nil {
		api.Programmerf("channel requires a socket and a loop")
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	c := &Channel{
		sock:               cfg.Socket,
		loop:               cfg.Loop,
		open:               true,
		autoRead:           !cfg.DisableAutoRead,
		writable:           true,
		maxMessagesPerRead: cfg.MaxMessagesPerRead,
		alloc:              cfg.Allocator,
		recvAlloc:          cfg.RecvAllocator,
		log:                log,
	}
	if c.maxMessagesPerRead == 0 {
		c.maxMessagesPerRead = DefaultMaxMessagesPerRead
	}
	if c.alloc == nil {
		c.alloc = buffer.DefaultAllocator
	}
	if c.recvAlloc == nil {
		c.recvAlloc = &buffer.Fixed{}
	}
	c.out = NewPendingWriteQueue(cfg.Socket.WritevLimit())
	c.interest = interestTracker{loop: cfg.Loop, reg: c}
	c.pl = pipeline.New(c, c.log)
	return c
}

// Pipeline returns the channel's handler chain.
func (c *Channel) Pipeline() api.Pipeline { return c.pl }

// IsOpen reports whether the channel still accepts work. Loop-confined.
func (c *Channel) IsOpen() bool { return c.open }

// Outstanding returns the buffered unsent byte count. Loop-confined.
func (c *Channel) Outstanding() int64 { return c.out.Outstanding() }

// LocalAddr returns the socket's local address.
func (c *Channel) LocalAddr() (net.Addr, error) { return c.sock.LocalAddr() }

// RemoteAddr returns the socket's peer address.
func (c *Channel) RemoteAddr() (net.Addr, error) { return c.sock.RemoteAddr() }

// User-facing operations. Each hops onto the owning loop; all except
// RegisterOnLoop and StopReading dispatch through the pipeline's outbound
// path, and those two call the internal operation directly.

// RegisterOnLoop attaches the channel to its loop with read interest,
// runs init to populate the pipeline, and fires registered/active. A
// failing init fails the channel.
func (c *Channel) RegisterOnLoop(init func(pl api.Pipeline) error) api.Promise {
	p := concurrency.NewPromise()
	c.loop.Execute(func() { c.register0(init, p) })
	return p
}

// Write submits msg to the outbound pipeline without flushing.
func (c *Channel) Write(msg any) api.Promise {
	p := concurrency.NewPromise()
	c.loop.Execute(func() { c.pl.Write(msg, p) })
	return p
}

// Flush asks the channel to drain its buffered writes.
func (c *Channel) Flush() {
	c.loop.Execute(func() { c.pl.Flush() })
}

// WriteAndFlush submits msg and immediately flushes.
func (c *Channel) WriteAndFlush(msg any) api.Promise {
	p := concurrency.NewPromise()
	c.loop.Execute(func() {
		c.pl.Write(msg, p)
		c.pl.Flush()
	})
	return p
}

// Read arms read interest until the next read burst completes.
func (c *Channel) Read() {
	c.loop.Execute(func() { c.pl.Read() })
}

// StopReading withdraws read interest.
func (c *Channel) StopReading() {
	c.loop.Execute(func() { c.StopReading0() })
}

// Bind assigns a local address to the socket.
func (c *Channel) Bind(addr net.Addr) api.Promise {
	p := concurrency.NewPromise()
	c.loop.Execute(func() { c.pl.Bind(addr, p) })
	return p
}

// Close tears the channel down. Pending writes fail with
// api.ErrChannelClosed. Closing an already-closed channel succeeds
// immediately.
func (c *Channel) Close() api.Promise {
	p := concurrency.NewPromise()
	c.loop.Execute(func() { c.pl.Close(p) })
	return p
}

// Registration protocol, driven by the event loop.

// FD implements api.Registration.
func (c *Channel) FD() int { return c.sock.FD() }

// Interest implements api.Registration.
func (c *Channel) Interest() api.Interest { return c.interest.Interest() }

// ReadReady implements api.Registration.
func (c *Channel) ReadReady() { c.ReadFromEventLoop() }

// WriteReady implements api.Registration.
func (c *Channel) WriteReady() { c.FlushFromEventLoop() }

// Internal operations. All run on the loop.

func (c *Channel) register0(init func(pl api.Pipeline) error, p api.Promise) {
	if !c.open {
		p.Fail(api.ErrChannelClosed)
		return
	}
	if c.registered {
		api.Programmerf("channel registered twice")
	}
	c.registered = true
	c.readPending = true
	if err := c.interest.set(api.InterestRead); err != nil {
		c.pl.FireErrorCaught(err)
		c.close0(err, nil)
		p.Fail(err)
		return
	}
	if init != nil {
		if err := init(c.pl); err != nil {
			c.pl.FireErrorCaught(err)
			c.close0(err, nil)
			p.Fail(err)
			return
		}
	}
	c.log.Debug().Int("fd", c.sock.FD()).Msg("channel registered")
	c.pl.FireChannelRegistered()
	c.pl.FireChannelActive()
	p.Succeed()
}

// Write0 implements api.ChannelOps. It only appends to the queue;
// buffered bytes never arm write interest by themselves.
func (c *Channel) Write0(msg any, p api.Promise) {
	if !c.open {
		fail(p, api.ErrChannelClosed)
		return
	}
	buf, ok := msg.(api.Buffer)
	if !ok {
		fail(p, api.ErrUnsupportedMessage)
		return
	}
	c.out.Enqueue(buf, ensure(p))
}

// Flush0 implements api.ChannelOps. With write interest already armed
// the loop is driving the queue and the call is a no-op; otherwise one
// drain attempt runs inline and kernel backpressure arms write interest.
func (c *Channel) Flush0() {
	if !c.open {
		return
	}
	if c.interest.Interest().Writable() {
		return
	}
	done, err := c.flushNow()
	if err != nil {
		c.pl.FireErrorCaught(err)
		c.close0(err, nil)
		return
	}
	if !done && c.open {
		c.updateInterest(c.interest.Interest().With(api.InterestWrite))
		c.setWritable(false)
	}
}

// FlushFromEventLoop drains the queue on a writable edge and withdraws
// write interest once the queue is dry.
func (c *Channel) FlushFromEventLoop() {
	if !c.open {
		return
	}
	done, err := c.flushNow()
	if err != nil {
		c.pl.FireErrorCaught(err)
		c.close0(err, nil)
		return
	}
	if !done {
		return
	}
	c.setWritable(true)
	if !c.open {
		return
	}
	if c.readPending {
		c.updateInterest(api.InterestRead)
	} else {
		c.updateInterest(api.InterestNone)
	}
}

// flushNow drains until the queue is empty (true) or the socket stops
// accepting the full offered batch (false).
func (c *Channel) flushNow() (bool, error) {
	for c.open {
		res, err := c.out.Consume(c.sock.Write, c.sock.Writev)
		if err != nil {
			return false, err
		}
		switch res {
		case ConsumeNothing:
			return true, nil
		case ConsumeAll:
			// full progress on one batch, keep going
		case ConsumePartial:
			return false, nil
		}
	}
	return true, nil
}

// ReadFromEventLoop runs one bounded read burst on a readable edge.
func (c *Channel) ReadFromEventLoop() {
	if !c.open {
		return
	}
	c.readPending = false
	for i := uint32(0); i < c.maxMessagesPerRead; i++ {
		buf := c.recvAlloc.Buffer(c.alloc)
		n, err := c.sock.Read(buf.WritableSlice())
		if err != nil {
			buf.Release()
			if errors.Is(err, api.ErrWouldBlock) {
				break
			}
			c.pl.FireErrorCaught(err)
			c.pl.FireChannelReadComplete()
			c.close0(err, nil)
			return
		}
		if n == 0 {
			// end of stream
			buf.Release()
			c.close0(nil, nil)
			return
		}
		buf.AdvanceWrite(n)
		c.recvAlloc.Record(n)
		c.pl.FireChannelRead(buf)
		if !c.open {
			return
		}
	}
	c.pl.FireChannelReadComplete()
	if c.autoRead {
		c.readIfNeeded()
	}
	if c.open && !c.readPending {
		c.updateInterest(c.interest.Interest().Without(api.InterestRead))
	}
}

func (c *Channel) readIfNeeded() {
	if !c.readPending {
		c.StartReading0()
	}
}

// StartReading0 implements api.ChannelOps.
func (c *Channel) StartReading0() {
	if !c.open {
		return
	}
	c.readPending = true
	c.updateInterest(c.interest.Interest().With(api.InterestRead))
}

// StopReading0 implements api.ChannelOps.
func (c *Channel) StopReading0() {
	if !c.open {
		return
	}
	c.readPending = false
	c.updateInterest(c.interest.Interest().Without(api.InterestRead))
}

// Bind0 implements api.ChannelOps. The raw I/O outcome settles p; the
// interest set is untouched.
func (c *Channel) Bind0(addr net.Addr, p api.Promise) {
	if !c.open {
		fail(p, api.ErrChannelClosed)
		return
	}
	if err := c.sock.Bind(addr); err != nil {
		fail(p, err)
		return
	}
	succeed(p)
}

// Close0 implements api.ChannelOps.
func (c *Channel) Close0(p api.Promise) { c.close0(nil, p) }

// close0 is the only terminal transition. cause, when non-nil, fails the
// pending writes; otherwise they fail with api.ErrChannelClosed. The
// pipeline sees unregistered and inactive before any pending promise
// fails, so handlers observe an inactive channel in their teardown path.
func (c *Channel) close0(cause error, p api.Promise) {
	if !c.open {
		succeed(p)
		return
	}
	c.open = false
	if err := c.interest.forceNone(); err != nil {
		c.log.Error().Err(err).Int("fd", c.sock.FD()).Msg("deregister failed during close")
	}
	cerr := c.sock.Close()
	if cerr != nil {
		c.log.Error().Err(cerr).Int("fd", c.sock.FD()).Msg("socket close failed")
		fail(p, cerr)
	} else {
		succeed(p)
	}
	c.pl.FireChannelUnregistered()
	c.pl.FireChannelInactive()
	if cause == nil {
		cause = api.ErrChannelClosed
	}
	c.out.FailAll(cause)
	c.log.Debug().Int("fd", c.sock.FD()).Msg("channel closed")
}

// updateInterest transitions the interest set; a failing loop call is
// fatal for the channel.
func (c *Channel) updateInterest(want api.Interest) {
	if !c.open {
		c.interest.current = api.InterestNone
		return
	}
	if err := c.interest.set(want); err != nil {
		c.pl.FireErrorCaught(err)
		c.close0(err, nil)
	}
}

// setWritable fires the writability event only on flips, so users see
// strictly alternating notifications starting from implicit true.
func (c *Channel) setWritable(w bool) {
	if c.writable == w {
		return
	}
	c.writable = w
	c.pl.FireWritabilityChanged(w)
}

func ensure(p api.Promise) api.Promise {
	if p == nil {
		return concurrency.NewPromise()
	}
	return p
}

func succeed(p api.Promise) {
	if p != nil {
		p.Succeed()
	}
}

func fail(p api.Promise, err error) {
	if p != nil {
		p.Fail(err)
	}
}
