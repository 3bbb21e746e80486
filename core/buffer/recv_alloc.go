// File: core/buffer/recv_alloc.go
// Author: momentics <momentics@gmail.com>
//
// Receive-buffer sizing strategies. Fixed is the default; Adaptive grows
// after reads that fill the buffer and shrinks after consecutive small
// reads.

package buffer

import "github.com/momentics/hioload-nio/api"

// DefaultRecvSize is the capacity Fixed uses when none is configured.
const DefaultRecvSize = 4096

// Fixed allocates the same capacity for every read attempt.
type Fixed struct {
	Size int
}

// Buffer implements api.RecvAllocator.
func (f *Fixed) Buffer(alloc api.Allocator) api.Buffer {
	size := f.Size
	if size <= 0 {
		size = DefaultRecvSize
	}
	return alloc.Get(size)
}

// Record implements api.RecvAllocator. Fixed ignores feedback.
func (f *Fixed) Record(int) {}

// adaptiveSizes is the capacity ladder Adaptive moves along.
var adaptiveSizes = []int{512, 1024, 2048, 4096, 8192, 16384, 32768, 65536, 131072, 262144, 524288, 1048576}

// Adaptive resizes the next receive buffer from read feedback: one full
// read steps the capacity up, two consecutive reads that fit the next
// smaller capacity step it down.
type Adaptive struct {
	idx      int
	shrinkOK bool
	inited   bool
	lastCap  int
}

// NewAdaptive returns an adaptive strategy starting at the given
// capacity, rounded up to the smallest ladder step that holds it (the
// largest step when initial exceeds the ladder).
func NewAdaptive(initial int) *Adaptive {
	a := &Adaptive{inited: true}
	for i, s := range adaptiveSizes {
		a.idx = i
		if s >= initial {
			break
		}
	}
	return a
}

// Buffer implements api.RecvAllocator.
func (a *Adaptive) Buffer(alloc api.Allocator) api.Buffer {
	if !a.inited {
		*a = *NewAdaptive(DefaultRecvSize)
	}
	a.lastCap = adaptiveSizes[a.idx]
	return alloc.Get(a.lastCap)
}

// Record implements api.RecvAllocator.
func (a *Adaptive) Record(n int) {
	if !a.inited || a.lastCap == 0 {
		return
	}
	switch {
	case n >= a.lastCap:
		if a.idx < len(adaptiveSizes)-1 {
			a.idx++
		}
		a.shrinkOK = false
	case a.idx > 0 && n <= adaptiveSizes[a.idx-1]:
		if a.shrinkOK {
			a.idx--
			a.shrinkOK = false
		} else {
			a.shrinkOK = true
		}
	default:
		a.shrinkOK = false
	}
}
