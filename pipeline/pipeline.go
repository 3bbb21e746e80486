// File: pipeline/pipeline.go
// Author: momentics <momentics@gmail.com>
//
// Handler chain with head/tail sentinels. The head terminates outbound
// operations at the channel's internal operations and forwards inbound
// events; the tail terminates inbound events, releasing unclaimed
// buffers, and forwards outbound operations.

package pipeline

import (
	"net"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-nio/api"
)

// Pipeline implements api.Pipeline as a doubly-linked handler chain.
type Pipeline struct {
	head *Context
	tail *Context
	log  zerolog.Logger
}

// New builds an empty pipeline whose head delegates to ops.
func New(ops api.ChannelOps, log zerolog.Logger) *Pipeline {
	pl := &Pipeline{log: log}
	pl.head = &Context{name: "head", pl: pl, handler: &headHandler{ops: ops}}
	pl.tail = &Context{name: "tail", pl: pl, handler: &tailHandler{pl: pl}}
	pl.head.next = pl.tail
	pl.tail.prev = pl.head
	return pl
}

// AddLast implements api.Pipeline.
func (pl *Pipeline) AddLast(name string, handler any) {
	_, in := handler.(InboundHandler)
	_, out := handler.(OutboundHandler)
	if !in && !out {
		api.Programmerf("handler %q implements neither direction", name)
	}
	ctx := &Context{name: name, pl: pl, handler: handler}
	prev := pl.tail.prev
	ctx.prev = prev
	ctx.next = pl.tail
	prev.next = ctx
	pl.tail.prev = ctx
}

// Inbound entry points; dispatch starts at the head handler itself.

func (pl *Pipeline) FireChannelRegistered() {
	pl.head.handler.(InboundHandler).ChannelRegistered(pl.head)
}

func (pl *Pipeline) FireChannelUnregistered() {
	pl.head.handler.(InboundHandler).ChannelUnregistered(pl.head)
}

func (pl *Pipeline) FireChannelActive() {
	pl.head.handler.(InboundHandler).ChannelActive(pl.head)
}

func (pl *Pipeline) FireChannelInactive() {
	pl.head.handler.(InboundHandler).ChannelInactive(pl.head)
}

func (pl *Pipeline) FireChannelRead(buf api.Buffer) {
	pl.head.handler.(InboundHandler).ChannelRead(pl.head, buf)
}

func (pl *Pipeline) FireChannelReadComplete() {
	pl.head.handler.(InboundHandler).ChannelReadComplete(pl.head)
}

func (pl *Pipeline) FireWritabilityChanged(writable bool) {
	pl.head.handler.(InboundHandler).WritabilityChanged(pl.head, writable)
}

func (pl *Pipeline) FireErrorCaught(err error) {
	pl.head.handler.(InboundHandler).ErrorCaught(pl.head, err)
}

// Outbound entry points; dispatch starts at the tail handler itself.

func (pl *Pipeline) Write(msg any, p api.Promise) {
	pl.tail.handler.(OutboundHandler).Write(pl.tail, msg, p)
}

func (pl *Pipeline) Flush() {
	pl.tail.handler.(OutboundHandler).Flush(pl.tail)
}

func (pl *Pipeline) Read() {
	pl.tail.handler.(OutboundHandler).Read(pl.tail)
}

func (pl *Pipeline) Bind(addr net.Addr, p api.Promise) {
	pl.tail.handler.(OutboundHandler).Bind(pl.tail, addr, p)
}

func (pl *Pipeline) Close(p api.Promise) {
	pl.tail.handler.(OutboundHandler).Close(pl.tail, p)
}

// headHandler terminates outbound traversal at the channel ops and
// forwards inbound events unchanged.
type headHandler struct {
	BaseInbound
	ops api.ChannelOps
}

func (h *headHandler) Write(_ *Context, msg any, p api.Promise) { h.ops.Write0(msg, p) }
func (h *headHandler) Flush(*Context)                           { h.ops.Flush0() }
func (h *headHandler) Read(*Context)                            { h.ops.StartReading0() }
func (h *headHandler) Bind(_ *Context, addr net.Addr, p api.Promise) {
	h.ops.Bind0(addr, p)
}
func (h *headHandler) Close(_ *Context, p api.Promise) { h.ops.Close0(p) }

// tailHandler terminates inbound traversal and forwards outbound
// operations unchanged.
type tailHandler struct {
	BaseOutbound
	pl *Pipeline
}

func (t *tailHandler) ChannelRegistered(*Context)        {}
func (t *tailHandler) ChannelUnregistered(*Context)      {}
func (t *tailHandler) ChannelActive(*Context)            {}
func (t *tailHandler) ChannelInactive(*Context)          {}
func (t *tailHandler) ChannelReadComplete(*Context)      {}
func (t *tailHandler) WritabilityChanged(*Context, bool) {}

func (t *tailHandler) ChannelRead(_ *Context, buf api.Buffer) {
	t.pl.log.Debug().Int("readable", buf.ReadableBytes()).Msg("discarding buffer that reached the pipeline tail")
	buf.Release()
}

func (t *tailHandler) ErrorCaught(_ *Context, err error) {
	t.pl.log.Error().Err(err).Msg("unhandled pipeline error reached the tail")
}
