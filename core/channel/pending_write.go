// File: core/channel/pending_write.go
// Author: momentics <momentics@gmail.com>
//
// FIFO of buffered outbound writes with single/vector drain. Nodes are
// unlinked before their promises are settled: completions may reenter
// the channel and must observe a consistent queue.

package channel

import (
	"errors"

	"github.com/momentics/hioload-nio/api"
)

// DefaultWritevLimit bounds the gather vector when the socket reports no
// limit of its own.
const DefaultWritevLimit = 1024

// pendingWrite holds one buffered write and its completion handle.
type pendingWrite struct {
	buf  api.Buffer
	p    api.Promise
	next *pendingWrite
}

// ConsumeResult classifies the outcome of one drain attempt.
type ConsumeResult int

const (
	// ConsumeNothing means the queue was empty.
	ConsumeNothing ConsumeResult = iota
	// ConsumeAll means the offered batch was fully accepted and the
	// queue may hold more work.
	ConsumeAll
	// ConsumePartial means the socket accepted fewer bytes than offered
	// or none at all; the caller must wait for the next writable edge.
	ConsumePartial
)

// SingleWriter transmits one contiguous region.
type SingleWriter func(p []byte) (int, error)

// VectorWriter transmits several regions in order with one gathering
// call.
type VectorWriter func(bufs [][]byte) (int, error)

// PendingWriteQueue is a singly-linked FIFO of pending writes. Appending
// and consuming are O(1) at the respective end; outstanding always equals
// the sum of readable bytes across live nodes.
type PendingWriteQueue struct {
	head, tail  *pendingWrite
	outstanding int64
	limit       int
}

// NewPendingWriteQueue builds a queue whose gather vectors hold at most
// writevLimit regions.
func NewPendingWriteQueue(writevLimit int) *PendingWriteQueue {
	if writevLimit <= 0 {
		writevLimit = DefaultWritevLimit
	}
	return &PendingWriteQueue{limit: writevLimit}
}

// Enqueue appends buf with its completion handle.
func (q *PendingWriteQueue) Enqueue(buf api.Buffer, p api.Promise) {
	node := &pendingWrite{buf: buf, p: p}
	if q.tail == nil {
		q.head = node
	} else {
		q.tail.next = node
	}
	q.tail = node
	q.outstanding += int64(buf.ReadableBytes())
}

// IsEmpty reports whether no writes are buffered.
func (q *PendingWriteQueue) IsEmpty() bool { return q.head == nil }

// Outstanding returns the total unsent byte count.
func (q *PendingWriteQueue) Outstanding() int64 { return q.outstanding }

// Consume drains the queue head with single (one buffered write) or
// vector (two or more). A would-block from either writer leaves the
// queue untouched and reports ConsumePartial; any other error is
// returned without mutating the queue. Cursors advance only after the
// syscall outcome is known.
func (q *PendingWriteQueue) Consume(single SingleWriter, vector VectorWriter) (ConsumeResult, error) {
	if q.head == nil {
		return ConsumeNothing, nil
	}

	var (
		accepted int
		offered  int
		err      error
	)
	if q.head.next == nil {
		view := q.head.buf.ReadSlice()
		offered = len(view)
		accepted, err = single(view)
	} else {
		views := make([][]byte, 0, q.vectorLen())
		for node := q.head; node != nil && len(views) < q.limit; node = node.next {
			view := node.buf.ReadSlice()
			views = append(views, view)
			offered += len(view)
		}
		accepted, err = vector(views)
	}
	if err != nil {
		if errors.Is(err, api.ErrWouldBlock) {
			return ConsumePartial, nil
		}
		return ConsumePartial, err
	}
	if accepted > offered {
		api.Programmerf("socket accepted %d of %d offered bytes", accepted, offered)
	}

	q.advance(accepted)
	if accepted == offered {
		return ConsumeAll, nil
	}
	return ConsumePartial, nil
}

func (q *PendingWriteQueue) vectorLen() int {
	n := 0
	for node := q.head; node != nil && n < q.limit; node = node.next {
		n++
	}
	return n
}

// advance consumes n accepted bytes from the head: fully drained nodes
// are unlinked and succeeded in FIFO order, a remainder advances the new
// head's read cursor.
func (q *PendingWriteQueue) advance(n int) {
	q.outstanding -= int64(n)
	for q.head != nil && n >= q.head.buf.ReadableBytes() {
		node := q.head
		n -= node.buf.ReadableBytes()
		q.unlink(node)
		node.buf.Release()
		node.p.Succeed()
	}
	if n > 0 {
		q.head.buf.Skip(n)
	}
}

// FailAll empties the queue, failing each completion with err after its
// node is unlinked.
func (q *PendingWriteQueue) FailAll(err error) {
	for q.head != nil {
		node := q.head
		q.outstanding -= int64(node.buf.ReadableBytes())
		q.unlink(node)
		node.buf.Release()
		node.p.Fail(err)
	}
	if q.outstanding != 0 {
		api.Programmerf("outstanding byte counter is %d after failing all writes", q.outstanding)
	}
}

func (q *PendingWriteQueue) unlink(node *pendingWrite) {
	q.head = node.next
	if q.head == nil {
		q.tail = nil
	}
	node.next = nil
}
