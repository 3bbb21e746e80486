//go:build linux

package transport

import (
	"errors"
	"net"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-nio/api"
)

func testPair(t *testing.T) (*Socket, *Socket) {
	t.Helper()
	a, b, err := Pair()
	if err != nil {
		t.Fatalf("pair: %v", err)
	}
	t.Cleanup(func() {
		a.Close()
		b.Close()
	})
	return a, b
}

func TestReadWrite(t *testing.T) {
	a, b := testPair(t)

	n, err := b.Write([]byte("ping"))
	if err != nil || n != 4 {
		t.Fatalf("write = (%d, %v), want (4, nil)", n, err)
	}

	buf := make([]byte, 16)
	n, err = a.Read(buf)
	if err != nil || n != 4 || string(buf[:n]) != "ping" {
		t.Fatalf("read = (%d, %v, %q)", n, err, buf[:n])
	}

	// nothing buffered: must not block
	_, err = a.Read(buf)
	if !errors.Is(err, api.ErrWouldBlock) {
		t.Fatalf("read on empty socket = %v, want ErrWouldBlock", err)
	}
}

func TestWritevGathers(t *testing.T) {
	a, b := testPair(t)

	n, err := b.Writev([][]byte{[]byte("AB"), []byte("CDE")})
	if err != nil || n != 5 {
		t.Fatalf("writev = (%d, %v), want (5, nil)", n, err)
	}

	buf := make([]byte, 16)
	n, err = a.Read(buf)
	if err != nil || string(buf[:n]) != "ABCDE" {
		t.Fatalf("read = (%d, %v, %q), want ABCDE", n, err, buf[:n])
	}
}

func TestReadReportsEndOfStream(t *testing.T) {
	a, b := testPair(t)
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	buf := make([]byte, 4)
	n, err := a.Read(buf)
	if n != 0 || err != nil {
		t.Fatalf("read after peer close = (%d, %v), want (0, nil)", n, err)
	}
}

func TestOptionPassthrough(t *testing.T) {
	a, _ := testPair(t)

	if err := a.SetOption(unix.SOL_SOCKET, unix.SO_SNDBUF, 65536); err != nil {
		t.Fatalf("setsockopt: %v", err)
	}
	v, err := a.Option(unix.SOL_SOCKET, unix.SO_SNDBUF)
	if err != nil || v <= 0 {
		t.Fatalf("getsockopt = (%d, %v), want positive", v, err)
	}
}

func TestBindAndLocalAddr(t *testing.T) {
	s, err := NewTCP()
	if err != nil {
		t.Fatalf("socket: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.Bind(&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	addr, err := s.LocalAddr()
	if err != nil {
		t.Fatalf("local addr: %v", err)
	}
	tcp, ok := addr.(*net.TCPAddr)
	if !ok || tcp.Port == 0 {
		t.Fatalf("local addr = %v, want an assigned port", addr)
	}
}

func TestWritevLimit(t *testing.T) {
	a, _ := testPair(t)
	if a.WritevLimit() != uioMaxIOV {
		t.Fatalf("limit = %d, want %d", a.WritevLimit(), uioMaxIOV)
	}
}
