package buffer

import "testing"

func TestCursorAccounting(t *testing.T) {
	b := New(64)
	if b.ReadableBytes() != 0 {
		t.Fatalf("fresh buffer readable = %d, want 0", b.ReadableBytes())
	}
	if n := b.WriteBytes([]byte("hello")); n != 5 {
		t.Fatalf("wrote %d, want 5", n)
	}
	if got := string(b.ReadSlice()); got != "hello" {
		t.Fatalf("readable = %q, want hello", got)
	}

	// views never advance the cursor
	if got := string(b.ReadSlice()); got != "hello" {
		t.Fatalf("second view = %q, want hello", got)
	}

	b.Skip(2)
	if got := string(b.ReadSlice()); got != "llo" {
		t.Fatalf("after skip = %q, want llo", got)
	}
	if b.ReadableBytes() != 3 {
		t.Fatalf("readable = %d, want 3", b.ReadableBytes())
	}
	b.Release()
}

func TestWritableWindow(t *testing.T) {
	c := New(8)
	w := c.WritableSlice()
	if len(w) < 8 {
		t.Fatalf("writable window = %d, want >= 8", len(w))
	}
	copy(w, "abc")
	c.AdvanceWrite(3)
	if got := string(c.ReadSlice()); got != "abc" {
		t.Fatalf("readable = %q, want abc", got)
	}
	c.Release()
}

func TestSkipOutOfRangePanics(t *testing.T) {
	b := Wrap([]byte("ab"))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	b.Skip(3)
}

func TestFixedAllocatesConfiguredSize(t *testing.T) {
	f := &Fixed{Size: 128}
	b := f.Buffer(PooledAllocator{})
	if b.Capacity() < 128 {
		t.Fatalf("capacity = %d, want >= 128", b.Capacity())
	}
	b.Release()

	d := &Fixed{}
	b = d.Buffer(PooledAllocator{})
	if b.Capacity() < DefaultRecvSize {
		t.Fatalf("capacity = %d, want >= %d", b.Capacity(), DefaultRecvSize)
	}
	b.Release()
}

func TestAdaptiveGrowsOnFullReads(t *testing.T) {
	a := NewAdaptive(512)
	b := a.Buffer(PooledAllocator{})
	first := b.Capacity()
	b.Release()

	a.Record(first) // filled the buffer
	b = a.Buffer(PooledAllocator{})
	if b.Capacity() <= first {
		t.Fatalf("capacity = %d, want > %d after a full read", b.Capacity(), first)
	}
	b.Release()
}

func TestAdaptiveShrinksAfterTwoSmallReads(t *testing.T) {
	a := NewAdaptive(4096)
	b := a.Buffer(PooledAllocator{})
	start := b.Capacity()
	b.Release()

	a.Record(10)
	b = a.Buffer(PooledAllocator{})
	if b.Capacity() != start {
		t.Fatalf("capacity = %d, want unchanged %d after one small read", b.Capacity(), start)
	}
	b.Release()

	a.Record(10)
	b = a.Buffer(PooledAllocator{})
	if b.Capacity() >= start {
		t.Fatalf("capacity = %d, want < %d after two small reads", b.Capacity(), start)
	}
	b.Release()
}
