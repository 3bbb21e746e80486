// File: core/concurrency/promise.go
// Author: momentics <momentics@gmail.com>
//
// One-shot completion promise. Settlement and callback dispatch happen on
// the settling goroutine; registration from other goroutines is guarded
// by a mutex so user code can attach callbacks before handing the promise
// to a channel.

package concurrency

import (
	"sync"

	"github.com/momentics/hioload-nio/api"
)

// Promise implements api.Promise.
type Promise struct {
	mu      sync.Mutex
	settled bool
	err     error
	fns     []func(error)
}

// NewPromise returns an unsettled promise.
func NewPromise() *Promise { return &Promise{} }

// Succeed implements api.Promise.
func (p *Promise) Succeed() { p.settle(nil) }

// Fail implements api.Promise.
func (p *Promise) Fail(err error) {
	if err == nil {
		api.Programmerf("promise failed with nil error")
	}
	p.settle(err)
}

func (p *Promise) settle(err error) {
	p.mu.Lock()
	if p.settled {
		p.mu.Unlock()
		api.Programmerf("promise settled twice")
	}
	p.settled = true
	p.err = err
	fns := p.fns
	p.fns = nil
	p.mu.Unlock()
	for _, fn := range fns {
		fn(err)
	}
}

// OnComplete implements api.Promise.
func (p *Promise) OnComplete(fn func(error)) {
	p.mu.Lock()
	if p.settled {
		err := p.err
		p.mu.Unlock()
		fn(err)
		return
	}
	p.fns = append(p.fns, fn)
	p.mu.Unlock()
}

// Done implements api.Promise.
func (p *Promise) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settled
}

// Err implements api.Promise.
func (p *Promise) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
