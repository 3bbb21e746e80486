// File: fake/socket.go
// Author: momentics <momentics@gmail.com>
//
// Scriptable api.Socket. Read and write outcomes are queued ahead of
// time; an empty script reads as would-block and writes as full
// acceptance, so tests only script what they care about.

package fake

import (
	"net"

	"github.com/momentics/hioload-nio/api"
)

type readStep struct {
	data []byte
	eof  bool
	err  error
}

type writeStep struct {
	accept int
	all    bool
	err    error
}

// Socket implements api.Socket with scripted behavior.
type Socket struct {
	reads  []readStep
	writes []writeStep

	// Written records the bytes accepted by scripted writes, in order.
	Written []byte

	// Call counters.
	WriteCalls  int
	WritevCalls int
	CloseCalls  int

	// LastVectorLen records the region count of the last Writev.
	LastVectorLen int

	// Limit overrides the writev vector bound; defaults to 1024.
	Limit int

	// BindErr, when set, fails Bind.
	BindErr error
	// Bound records the address passed to Bind.
	Bound net.Addr

	// SetOptions records setsockopt passthroughs as (level,name)->value.
	SetOptions map[[2]int]int
	// Options serves getsockopt passthroughs.
	Options map[[2]int]int
}

// NewSocket returns an unscripted socket.
func NewSocket() *Socket {
	return &Socket{
		SetOptions: make(map[[2]int]int),
		Options:    make(map[[2]int]int),
	}
}

// QueueRead schedules a successful read producing data.
func (s *Socket) QueueRead(data []byte) { s.reads = append(s.reads, readStep{data: data}) }

// QueueReadEOF schedules an end-of-stream read.
func (s *Socket) QueueReadEOF() { s.reads = append(s.reads, readStep{eof: true}) }

// QueueReadErr schedules a failing read.
func (s *Socket) QueueReadErr(err error) { s.reads = append(s.reads, readStep{err: err}) }

// QueueAccept schedules a write accepting exactly n bytes.
func (s *Socket) QueueAccept(n int) { s.writes = append(s.writes, writeStep{accept: n}) }

// QueueAcceptAll schedules a write accepting everything offered.
func (s *Socket) QueueAcceptAll() { s.writes = append(s.writes, writeStep{all: true}) }

// QueueWriteWouldBlock schedules a would-block write.
func (s *Socket) QueueWriteWouldBlock() {
	s.writes = append(s.writes, writeStep{err: api.ErrWouldBlock})
}

// QueueWriteErr schedules a failing write.
func (s *Socket) QueueWriteErr(err error) { s.writes = append(s.writes, writeStep{err: err}) }

// Read implements api.Socket.
func (s *Socket) Read(p []byte) (int, error) {
	if len(s.reads) == 0 {
		return 0, api.ErrWouldBlock
	}
	step := s.reads[0]
	s.reads = s.reads[1:]
	if step.err != nil {
		return 0, step.err
	}
	if step.eof {
		return 0, nil
	}
	return copy(p, step.data), nil
}

// Write implements api.Socket.
func (s *Socket) Write(p []byte) (int, error) {
	s.WriteCalls++
	return s.accept(len(p), func(n int) { s.Written = append(s.Written, p[:n]...) })
}

// Writev implements api.Socket.
func (s *Socket) Writev(bufs [][]byte) (int, error) {
	s.WritevCalls++
	s.LastVectorLen = len(bufs)
	offered := 0
	for _, b := range bufs {
		offered += len(b)
	}
	return s.accept(offered, func(n int) {
		for _, b := range bufs {
			if n == 0 {
				break
			}
			take := len(b)
			if take > n {
				take = n
			}
			s.Written = append(s.Written, b[:take]...)
			n -= take
		}
	})
}

func (s *Socket) accept(offered int, record func(n int)) (int, error) {
	if len(s.writes) == 0 {
		record(offered)
		return offered, nil
	}
	step := s.writes[0]
	s.writes = s.writes[1:]
	if step.err != nil {
		return 0, step.err
	}
	n := step.accept
	if step.all || n > offered {
		n = offered
	}
	record(n)
	return n, nil
}

// WritevLimit implements api.Socket.
func (s *Socket) WritevLimit() int {
	if s.Limit > 0 {
		return s.Limit
	}
	return 1024
}

// Bind implements api.Socket.
func (s *Socket) Bind(addr net.Addr) error {
	if s.BindErr != nil {
		return s.BindErr
	}
	s.Bound = addr
	return nil
}

// Close implements api.Socket.
func (s *Socket) Close() error {
	s.CloseCalls++
	return nil
}

// FD implements api.Socket.
func (s *Socket) FD() int { return 42 }

// LocalAddr implements api.Socket.
func (s *Socket) LocalAddr() (net.Addr, error) { return s.Bound, nil }

// RemoteAddr implements api.Socket.
func (s *Socket) RemoteAddr() (net.Addr, error) { return nil, nil }

// SetOption implements api.Socket.
func (s *Socket) SetOption(level, name, value int) error {
	s.SetOptions[[2]int{level, name}] = value
	return nil
}

// Option implements api.Socket.
func (s *Socket) Option(level, name int) (int, error) {
	return s.Options[[2]int{level, name}], nil
}
