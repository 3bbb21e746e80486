// File: pipeline/handler.go
// Author: momentics <momentics@gmail.com>
//
// Handler interfaces and forwarding bases. A handler implements one or
// both directions; embedding the base types gives pass-through behavior
// for the events a handler does not care about.

package pipeline

import (
	"net"

	"github.com/momentics/hioload-nio/api"
)

// InboundHandler receives events flowing from the socket towards the
// user, head to tail.
type InboundHandler interface {
	ChannelRegistered(ctx *Context)
	ChannelUnregistered(ctx *Context)
	ChannelActive(ctx *Context)
	ChannelInactive(ctx *Context)
	ChannelRead(ctx *Context, buf api.Buffer)
	ChannelReadComplete(ctx *Context)
	WritabilityChanged(ctx *Context, writable bool)
	ErrorCaught(ctx *Context, err error)
}

// OutboundHandler intercepts operations flowing from the user towards
// the socket, tail to head.
type OutboundHandler interface {
	Write(ctx *Context, msg any, p api.Promise)
	Flush(ctx *Context)
	Read(ctx *Context)
	Bind(ctx *Context, addr net.Addr, p api.Promise)
	Close(ctx *Context, p api.Promise)
}

// BaseInbound forwards every inbound event to the next handler.
type BaseInbound struct{}

func (BaseInbound) ChannelRegistered(ctx *Context)   { ctx.FireChannelRegistered() }
func (BaseInbound) ChannelUnregistered(ctx *Context) { ctx.FireChannelUnregistered() }
func (BaseInbound) ChannelActive(ctx *Context)       { ctx.FireChannelActive() }
func (BaseInbound) ChannelInactive(ctx *Context)     { ctx.FireChannelInactive() }
func (BaseInbound) ChannelRead(ctx *Context, buf api.Buffer) {
	ctx.FireChannelRead(buf)
}
func (BaseInbound) ChannelReadComplete(ctx *Context) { ctx.FireChannelReadComplete() }
func (BaseInbound) WritabilityChanged(ctx *Context, writable bool) {
	ctx.FireWritabilityChanged(writable)
}
func (BaseInbound) ErrorCaught(ctx *Context, err error) { ctx.FireErrorCaught(err) }

// BaseOutbound forwards every outbound operation to the previous
// handler.
type BaseOutbound struct{}

func (BaseOutbound) Write(ctx *Context, msg any, p api.Promise) { ctx.Write(msg, p) }
func (BaseOutbound) Flush(ctx *Context)                         { ctx.Flush() }
func (BaseOutbound) Read(ctx *Context)                          { ctx.Read() }
func (BaseOutbound) Bind(ctx *Context, addr net.Addr, p api.Promise) {
	ctx.Bind(addr, p)
}
func (BaseOutbound) Close(ctx *Context, p api.Promise) { ctx.Close(p) }
