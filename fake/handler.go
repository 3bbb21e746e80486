// File: fake/handler.go
// Author: momentics <momentics@gmail.com>
//
// Recording inbound handler: appends one line per event to Events and
// forwards everything down the pipeline.

package fake

import (
	"fmt"

	"github.com/momentics/hioload-nio/api"
	"github.com/momentics/hioload-nio/pipeline"
)

// Recorder captures the inbound event stream of a channel.
type Recorder struct {
	pipeline.BaseInbound

	// Events holds one entry per event, e.g. "read:ABC",
	// "writability:false", "error:...".
	Events []string

	// KeepBuffers suppresses forwarding of read buffers to the tail so
	// their contents stay inspectable. Released by the test.
	KeepBuffers bool
	Buffers     []api.Buffer
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) add(ev string) { r.Events = append(r.Events, ev) }

func (r *Recorder) ChannelRegistered(ctx *pipeline.Context) {
	r.add("registered")
	ctx.FireChannelRegistered()
}

func (r *Recorder) ChannelUnregistered(ctx *pipeline.Context) {
	r.add("unregistered")
	ctx.FireChannelUnregistered()
}

func (r *Recorder) ChannelActive(ctx *pipeline.Context) {
	r.add("active")
	ctx.FireChannelActive()
}

func (r *Recorder) ChannelInactive(ctx *pipeline.Context) {
	r.add("inactive")
	ctx.FireChannelInactive()
}

func (r *Recorder) ChannelRead(ctx *pipeline.Context, buf api.Buffer) {
	r.add("read:" + string(buf.ReadSlice()))
	if r.KeepBuffers {
		r.Buffers = append(r.Buffers, buf)
		return
	}
	ctx.FireChannelRead(buf)
}

func (r *Recorder) ChannelReadComplete(ctx *pipeline.Context) {
	r.add("readComplete")
	ctx.FireChannelReadComplete()
}

func (r *Recorder) WritabilityChanged(ctx *pipeline.Context, writable bool) {
	r.add(fmt.Sprintf("writability:%t", writable))
	ctx.FireWritabilityChanged(writable)
}

func (r *Recorder) ErrorCaught(ctx *pipeline.Context, err error) {
	r.add("error:" + err.Error())
	ctx.FireErrorCaught(err)
}
