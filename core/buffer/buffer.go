// File: core/buffer/buffer.go
// Author: momentics <momentics@gmail.com>
//
// Pool-backed byte buffer with independent read and write cursors.

package buffer

import (
	"github.com/gobwas/pool/pbytes"

	"github.com/momentics/hioload-nio/api"
)

// Buf implements api.Buffer on a flat byte slice. The region data[r:w] is
// readable, data[w:] is writable. Pooled buffers return their storage to
// pbytes on Release.
type Buf struct {
	data   []byte
	r, w   int
	pooled bool
}

// New returns a pooled buffer with at least the given capacity.
func New(capacity int) *Buf {
	if capacity <= 0 {
		api.Programmerf("buffer capacity must be positive, got %d", capacity)
	}
	p := pbytes.GetCap(capacity)
	return &Buf{data: p[:cap(p)], pooled: true}
}

// Wrap returns an unpooled buffer whose readable region is exactly p.
// The buffer takes ownership of p.
func Wrap(p []byte) *Buf {
	return &Buf{data: p, w: len(p)}
}

// ReadableBytes returns the number of unread bytes.
func (b *Buf) ReadableBytes() int { return b.w - b.r }

// ReadSlice returns the readable region without advancing the cursor.
func (b *Buf) ReadSlice() []byte { return b.data[b.r:b.w] }

// Skip advances the read cursor by n.
func (b *Buf) Skip(n int) {
	if n < 0 || n > b.ReadableBytes() {
		api.Programmerf("skip %d outside readable window %d", n, b.ReadableBytes())
	}
	b.r += n
}

// WritableSlice returns the unwritten tail of the buffer.
func (b *Buf) WritableSlice() []byte { return b.data[b.w:] }

// AdvanceWrite moves the write cursor forward by n.
func (b *Buf) AdvanceWrite(n int) {
	if n < 0 || n > len(b.data)-b.w {
		api.Programmerf("advance %d outside writable window %d", n, len(b.data)-b.w)
	}
	b.w += n
}

// WriteBytes copies p into the writable region, bounded by free capacity.
func (b *Buf) WriteBytes(p []byte) int {
	n := copy(b.data[b.w:], p)
	b.w += n
	return n
}

// Capacity returns the total capacity in bytes.
func (b *Buf) Capacity() int { return len(b.data) }

// Release returns pooled storage to pbytes. The buffer must not be used
// afterwards.
func (b *Buf) Release() {
	if b.pooled && b.data != nil {
		pbytes.Put(b.data)
	}
	b.data = nil
	b.r, b.w = 0, 0
}
