// File: api/buffer.go
// Author: momentics <momentics@gmail.com>
//
// Byte buffer abstraction with independent read and write cursors.
// Buffers are pool-backed; all views are zero-copy unless stated.

package api

// Buffer is a resliceable byte region with a read cursor and a write
// cursor. Bytes between the two cursors are readable; bytes between the
// write cursor and the capacity are writable.
type Buffer interface {
	// ReadableBytes returns the number of unread bytes.
	ReadableBytes() int

	// ReadSlice returns a view of the readable bytes. The view stays
	// valid until the next mutation; it never advances the read cursor.
	ReadSlice() []byte

	// Skip advances the read cursor by n. n must not exceed
	// ReadableBytes.
	Skip(n int)

	// WritableSlice returns a view of the unwritten tail of the buffer.
	WritableSlice() []byte

	// AdvanceWrite moves the write cursor forward by n after bytes have
	// been produced into WritableSlice.
	AdvanceWrite(n int)

	// WriteBytes copies p into the buffer and advances the write cursor.
	// It returns the number of bytes copied, bounded by free capacity.
	WriteBytes(p []byte) int

	// Capacity returns the total capacity in bytes.
	Capacity() int

	// Release returns the backing storage to its pool. The buffer must
	// not be used afterwards.
	Release()
}

// Allocator produces buffers of a requested capacity.
type Allocator interface {
	// Get returns a buffer with at least the given capacity.
	Get(capacity int) Buffer
}

// RecvAllocator decides the capacity of the next receive buffer. One
// instance belongs to exactly one channel; Record feeds back the byte
// count of each completed read attempt so adaptive strategies can resize.
type RecvAllocator interface {
	// Buffer allocates a fresh read buffer from alloc.
	Buffer(alloc Allocator) Buffer

	// Record observes the number of bytes the last read produced.
	Record(n int)
}
