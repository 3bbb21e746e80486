// File: api/pipeline.go
// Author: momentics <momentics@gmail.com>
//
// Pipeline and channel-operation contracts. The pipeline dispatches
// inbound events head-to-tail and outbound operations tail-to-head; the
// head terminates outbound operations at the channel's internal
// operations.

package api

import "net"

// Pipeline is the ordered chain of inbound/outbound handlers attached to
// one channel. The channel owns the pipeline; the pipeline holds only a
// non-owning handle back to the channel's internal operations.
type Pipeline interface {
	// AddLast appends a handler before the tail. handler must implement
	// at least one of the pipeline handler interfaces; anything else is
	// a programmer error.
	AddLast(name string, handler any)

	// Inbound event entry points, invoked by the channel.

	FireChannelRegistered()
	FireChannelUnregistered()
	FireChannelActive()
	FireChannelInactive()
	FireChannelRead(buf Buffer)
	FireChannelReadComplete()
	FireWritabilityChanged(writable bool)
	FireErrorCaught(err error)

	// Outbound operation entry points, invoked by the channel's
	// user-facing methods. They traverse tail-to-head and end at the
	// channel's internal operations.

	Write(msg any, p Promise)
	Flush()
	Read()
	Bind(addr net.Addr, p Promise)
	Close(p Promise)
}

// ChannelOps are the channel's internal operations, reachable only
// through the pipeline head. They must run on the channel's event loop.
type ChannelOps interface {
	Write0(msg any, p Promise)
	Flush0()
	StartReading0()
	StopReading0()
	Bind0(addr net.Addr, p Promise)
	Close0(p Promise)
}
