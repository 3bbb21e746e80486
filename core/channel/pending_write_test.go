package channel

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-nio/api"
	"github.com/momentics/hioload-nio/core/buffer"
	"github.com/momentics/hioload-nio/core/concurrency"
)

func noSingle(t *testing.T) SingleWriter {
	return func([]byte) (int, error) {
		t.Fatal("single writer must not be called")
		return 0, nil
	}
}

func noVector(t *testing.T) VectorWriter {
	return func([][]byte) (int, error) {
		t.Fatal("vector writer must not be called")
		return 0, nil
	}
}

// tracked returns a promise that appends tag to log on settlement.
func tracked(tag string, log *[]string) api.Promise {
	p := concurrency.NewPromise()
	p.OnComplete(func(err error) {
		if err != nil {
			*log = append(*log, tag+":fail")
			return
		}
		*log = append(*log, tag+":ok")
	})
	return p
}

func enqueueBytes(q *PendingWriteQueue, data string, tag string, log *[]string) {
	q.Enqueue(buffer.Wrap([]byte(data)), tracked(tag, log))
}

func TestConsumeEmptyQueue(t *testing.T) {
	q := NewPendingWriteQueue(0)
	res, err := q.Consume(noSingle(t), noVector(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != ConsumeNothing {
		t.Fatalf("expected ConsumeNothing, got %v", res)
	}
}

func TestConsumeVectorDrainsAll(t *testing.T) {
	var log []string
	q := NewPendingWriteQueue(0)
	enqueueBytes(q, "ABC", "a", &log)
	enqueueBytes(q, "DEFGH", "b", &log)
	if got := q.Outstanding(); got != 8 {
		t.Fatalf("outstanding = %d, want 8", got)
	}

	res, err := q.Consume(noSingle(t), func(bufs [][]byte) (int, error) {
		if len(bufs) != 2 {
			t.Fatalf("vector length = %d, want 2", len(bufs))
		}
		return 8, nil
	})
	if err != nil || res != ConsumeAll {
		t.Fatalf("consume = (%v, %v), want (ConsumeAll, nil)", res, err)
	}
	if got := q.Outstanding(); got != 0 {
		t.Fatalf("outstanding = %d, want 0", got)
	}
	if !q.IsEmpty() {
		t.Fatal("queue should be empty")
	}
	if len(log) != 2 || log[0] != "a:ok" || log[1] != "b:ok" {
		t.Fatalf("completions = %v, want [a:ok b:ok]", log)
	}

	res, err = q.Consume(noSingle(t), noVector(t))
	if err != nil || res != ConsumeNothing {
		t.Fatalf("second consume = (%v, %v), want (ConsumeNothing, nil)", res, err)
	}
}

func TestConsumeSinglePartial(t *testing.T) {
	var log []string
	q := NewPendingWriteQueue(0)
	buf := buffer.Wrap([]byte("ABCDE"))
	q.Enqueue(buf, tracked("a", &log))

	res, err := q.Consume(func(p []byte) (int, error) {
		if string(p) != "ABCDE" {
			t.Fatalf("offered %q, want ABCDE", p)
		}
		return 2, nil
	}, noVector(t))
	if err != nil || res != ConsumePartial {
		t.Fatalf("consume = (%v, %v), want (ConsumePartial, nil)", res, err)
	}
	if got := string(buf.ReadSlice()); got != "CDE" {
		t.Fatalf("remaining = %q, want CDE", got)
	}
	if got := q.Outstanding(); got != 3 {
		t.Fatalf("outstanding = %d, want 3", got)
	}
	if len(log) != 0 {
		t.Fatalf("no completion expected, got %v", log)
	}
}

func TestConsumeVectorPartialAtBoundary(t *testing.T) {
	var log []string
	q := NewPendingWriteQueue(0)
	enqueueBytes(q, "AB", "a", &log)
	second := buffer.Wrap([]byte("CD"))
	q.Enqueue(second, tracked("b", &log))

	res, err := q.Consume(noSingle(t), func([][]byte) (int, error) { return 3, nil })
	if err != nil || res != ConsumePartial {
		t.Fatalf("consume = (%v, %v), want (ConsumePartial, nil)", res, err)
	}
	if len(log) != 1 || log[0] != "a:ok" {
		t.Fatalf("completions = %v, want [a:ok]", log)
	}
	if got := string(second.ReadSlice()); got != "D" {
		t.Fatalf("second buffer = %q, want D", got)
	}
	if got := q.Outstanding(); got != 1 {
		t.Fatalf("outstanding = %d, want 1", got)
	}
}

func TestConsumeZeroByteWrite(t *testing.T) {
	var log []string
	q := NewPendingWriteQueue(0)
	buf := buffer.Wrap([]byte("AB"))
	q.Enqueue(buf, tracked("a", &log))

	res, err := q.Consume(func([]byte) (int, error) { return 0, nil }, noVector(t))
	if err != nil || res != ConsumePartial {
		t.Fatalf("consume = (%v, %v), want (ConsumePartial, nil)", res, err)
	}
	if got := string(buf.ReadSlice()); got != "AB" {
		t.Fatalf("buffer mutated to %q", got)
	}
	if got := q.Outstanding(); got != 2 {
		t.Fatalf("outstanding = %d, want 2", got)
	}
	if len(log) != 0 {
		t.Fatalf("no completion expected, got %v", log)
	}
}

func TestConsumeWouldBlockIsNoOp(t *testing.T) {
	var log []string
	q := NewPendingWriteQueue(0)
	buf := buffer.Wrap([]byte("XYZ"))
	q.Enqueue(buf, tracked("a", &log))

	res, err := q.Consume(func([]byte) (int, error) { return 0, api.ErrWouldBlock }, noVector(t))
	if err != nil || res != ConsumePartial {
		t.Fatalf("consume = (%v, %v), want (ConsumePartial, nil)", res, err)
	}
	if got := string(buf.ReadSlice()); got != "XYZ" {
		t.Fatalf("buffer mutated to %q", got)
	}
	if got := q.Outstanding(); got != 3 {
		t.Fatalf("outstanding = %d, want 3", got)
	}
}

func TestConsumeErrorLeavesQueueIntact(t *testing.T) {
	var log []string
	q := NewPendingWriteQueue(0)
	enqueueBytes(q, "AB", "a", &log)

	boom := errors.New("connection reset")
	res, err := q.Consume(func([]byte) (int, error) { return 0, boom }, noVector(t))
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	_ = res
	if q.IsEmpty() || q.Outstanding() != 2 {
		t.Fatalf("queue mutated: empty=%t outstanding=%d", q.IsEmpty(), q.Outstanding())
	}
	if len(log) != 0 {
		t.Fatalf("no completion expected, got %v", log)
	}
}

func TestConsumeVectorLimit(t *testing.T) {
	var log []string
	q := NewPendingWriteQueue(2)
	enqueueBytes(q, "AA", "a", &log)
	enqueueBytes(q, "BB", "b", &log)
	enqueueBytes(q, "CC", "c", &log)

	res, err := q.Consume(noSingle(t), func(bufs [][]byte) (int, error) {
		if len(bufs) != 2 {
			t.Fatalf("vector length = %d, want 2", len(bufs))
		}
		total := 0
		for _, b := range bufs {
			total += len(b)
		}
		return total, nil
	})
	if err != nil || res != ConsumeAll {
		t.Fatalf("consume = (%v, %v), want (ConsumeAll, nil)", res, err)
	}
	if len(log) != 2 || log[0] != "a:ok" || log[1] != "b:ok" {
		t.Fatalf("completions = %v, want [a:ok b:ok]", log)
	}
	if got := q.Outstanding(); got != 2 {
		t.Fatalf("outstanding = %d, want 2 for the remainder", got)
	}

	// the remainder drains through the single path
	res, err = q.Consume(func(p []byte) (int, error) { return len(p), nil }, noVector(t))
	if err != nil || res != ConsumeAll {
		t.Fatalf("remainder consume = (%v, %v), want (ConsumeAll, nil)", res, err)
	}
	if len(log) != 3 || log[2] != "c:ok" {
		t.Fatalf("completions = %v, want c:ok last", log)
	}
}

func TestFailAll(t *testing.T) {
	var log []string
	q := NewPendingWriteQueue(0)
	enqueueBytes(q, "AB", "a", &log)
	enqueueBytes(q, "CD", "b", &log)

	q.FailAll(errors.New("teardown"))
	if !q.IsEmpty() || q.Outstanding() != 0 {
		t.Fatalf("queue not empty after FailAll: outstanding=%d", q.Outstanding())
	}
	if len(log) != 2 || log[0] != "a:fail" || log[1] != "b:fail" {
		t.Fatalf("completions = %v, want [a:fail b:fail]", log)
	}
}

func TestCompletionMayReenterQueue(t *testing.T) {
	q := NewPendingWriteQueue(0)
	var reentered bool
	p := concurrency.NewPromise()
	p.OnComplete(func(err error) {
		if err != nil {
			t.Fatalf("unexpected failure: %v", err)
		}
		// completion fires after the node is unlinked, so the queue is
		// consistent and accepts new work
		if !q.IsEmpty() {
			t.Fatal("queue must be empty when the completion runs")
		}
		q.Enqueue(buffer.Wrap([]byte("again")), concurrency.NewPromise())
		reentered = true
	})
	q.Enqueue(buffer.Wrap([]byte("first")), p)

	res, err := q.Consume(func(p []byte) (int, error) { return len(p), nil }, noVector(t))
	if err != nil || res != ConsumeAll {
		t.Fatalf("consume = (%v, %v), want (ConsumeAll, nil)", res, err)
	}
	if !reentered {
		t.Fatal("completion did not run")
	}
	if q.IsEmpty() || q.Outstanding() != 5 {
		t.Fatalf("re-entrant enqueue lost: outstanding=%d", q.Outstanding())
	}
}

func TestOverAcceptPanics(t *testing.T) {
	q := NewPendingWriteQueue(0)
	q.Enqueue(buffer.Wrap([]byte("AB")), concurrency.NewPromise())
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when socket accepts more than offered")
		}
	}()
	q.Consume(func([]byte) (int, error) { return 3, nil }, noVector(t))
}

func TestOutstandingTracksLiveBytes(t *testing.T) {
	var log []string
	q := NewPendingWriteQueue(0)
	enqueueBytes(q, "AAAA", "a", &log)
	enqueueBytes(q, "BBBB", "b", &log)
	if q.Outstanding() != 8 {
		t.Fatalf("outstanding = %d, want 8", q.Outstanding())
	}
	q.Consume(noSingle(t), func([][]byte) (int, error) { return 5, nil })
	if q.Outstanding() != 3 {
		t.Fatalf("outstanding = %d, want 3", q.Outstanding())
	}
	q.Consume(func(p []byte) (int, error) { return len(p), nil }, noVector(t))
	if q.Outstanding() != 0 {
		t.Fatalf("outstanding = %d, want 0", q.Outstanding())
	}
}
