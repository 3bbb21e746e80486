// File: pipeline/context.go
// Author: momentics <momentics@gmail.com>
//
// Per-handler context linking a handler into the chain. Fire* methods
// propagate inbound events towards the tail; operation methods propagate
// outbound towards the head.

package pipeline

import (
	"net"

	"github.com/momentics/hioload-nio/api"
)

// Context binds one handler to its position in the pipeline.
type Context struct {
	name       string
	pl         *Pipeline
	prev, next *Context
	handler    any
}

// Name returns the handler's registration name.
func (c *Context) Name() string { return c.name }

// Pipeline returns the owning pipeline.
func (c *Context) Pipeline() *Pipeline { return c.pl }

func (c *Context) nextInbound() (*Context, InboundHandler) {
	for ctx := c.next; ctx != nil; ctx = ctx.next {
		if h, ok := ctx.handler.(InboundHandler); ok {
			return ctx, h
		}
	}
	return nil, nil
}

func (c *Context) prevOutbound() (*Context, OutboundHandler) {
	for ctx := c.prev; ctx != nil; ctx = ctx.prev {
		if h, ok := ctx.handler.(OutboundHandler); ok {
			return ctx, h
		}
	}
	return nil, nil
}

// FireChannelRegistered passes the registered event to the next inbound
// handler.
func (c *Context) FireChannelRegistered() {
	if ctx, h := c.nextInbound(); h != nil {
		h.ChannelRegistered(ctx)
	}
}

// FireChannelUnregistered passes the unregistered event on.
func (c *Context) FireChannelUnregistered() {
	if ctx, h := c.nextInbound(); h != nil {
		h.ChannelUnregistered(ctx)
	}
}

// FireChannelActive passes the active event on.
func (c *Context) FireChannelActive() {
	if ctx, h := c.nextInbound(); h != nil {
		h.ChannelActive(ctx)
	}
}

// FireChannelInactive passes the inactive event on.
func (c *Context) FireChannelInactive() {
	if ctx, h := c.nextInbound(); h != nil {
		h.ChannelInactive(ctx)
	}
}

// FireChannelRead passes a received buffer on.
func (c *Context) FireChannelRead(buf api.Buffer) {
	if ctx, h := c.nextInbound(); h != nil {
		h.ChannelRead(ctx, buf)
	}
}

// FireChannelReadComplete passes the end-of-burst marker on.
func (c *Context) FireChannelReadComplete() {
	if ctx, h := c.nextInbound(); h != nil {
		h.ChannelReadComplete(ctx)
	}
}

// FireWritabilityChanged passes a writability flip on.
func (c *Context) FireWritabilityChanged(writable bool) {
	if ctx, h := c.nextInbound(); h != nil {
		h.WritabilityChanged(ctx, writable)
	}
}

// FireErrorCaught passes an error on.
func (c *Context) FireErrorCaught(err error) {
	if ctx, h := c.nextInbound(); h != nil {
		h.ErrorCaught(ctx, err)
	}
}

// Write passes a write towards the head.
func (c *Context) Write(msg any, p api.Promise) {
	if ctx, h := c.prevOutbound(); h != nil {
		h.Write(ctx, msg, p)
	}
}

// Flush passes a flush towards the head.
func (c *Context) Flush() {
	if ctx, h := c.prevOutbound(); h != nil {
		h.Flush(ctx)
	}
}

// Read passes a read request towards the head.
func (c *Context) Read() {
	if ctx, h := c.prevOutbound(); h != nil {
		h.Read(ctx)
	}
}

// Bind passes a bind towards the head.
func (c *Context) Bind(addr net.Addr, p api.Promise) {
	if ctx, h := c.prevOutbound(); h != nil {
		h.Bind(ctx, addr, p)
	}
}

// Close passes a close towards the head.
func (c *Context) Close(p api.Promise) {
	if ctx, h := c.prevOutbound(); h != nil {
		h.Close(ctx, p)
	}
}
