//go:build linux

// File: transport/socket_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux socket backend on golang.org/x/sys/unix.

package transport

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-nio/api"
)

// uioMaxIOV mirrors the Linux UIO_MAXIOV constant (include/linux/uio.h),
// which golang.org/x/sys/unix does not export.
const uioMaxIOV = 1024

// Socket implements api.Socket over one non-blocking descriptor.
type Socket struct {
	fd int
}

// New wraps an existing descriptor, switching it to non-blocking mode.
// The socket takes ownership of fd.
func New(fd int) (*Socket, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, ioError("set_nonblock", err)
	}
	return &Socket{fd: fd}, nil
}

// NewTCP creates an unconnected non-blocking TCP socket with
// TCP_NODELAY enabled, ready for Bind.
func NewTCP() (*Socket, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, ioError("socket", err)
	}
	_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	return &Socket{fd: fd}, nil
}

// Pair returns two connected non-blocking stream sockets.
func Pair() (*Socket, *Socket, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, ioError("socketpair", err)
	}
	return &Socket{fd: fds[0]}, &Socket{fd: fds[1]}, nil
}

// FD implements api.Socket.
func (s *Socket) FD() int { return s.fd }

// Read implements api.Socket. End-of-stream is (0, nil).
func (s *Socket) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(s.fd, p)
		switch err {
		case nil:
			return n, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return 0, api.ErrWouldBlock
		default:
			return 0, ioError("read", err)
		}
	}
}

// Write implements api.Socket.
func (s *Socket) Write(p []byte) (int, error) {
	for {
		n, err := unix.Write(s.fd, p)
		switch err {
		case nil:
			return n, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return 0, api.ErrWouldBlock
		default:
			return 0, ioError("write", err)
		}
	}
}

// Writev implements api.Socket.
func (s *Socket) Writev(bufs [][]byte) (int, error) {
	if len(bufs) > s.WritevLimit() {
		api.Programmerf("writev vector of %d regions exceeds limit %d", len(bufs), s.WritevLimit())
	}
	for {
		n, err := unix.Writev(s.fd, bufs)
		switch err {
		case nil:
			return n, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return 0, api.ErrWouldBlock
		default:
			return 0, ioError("writev", err)
		}
	}
}

// WritevLimit implements api.Socket.
func (s *Socket) WritevLimit() int { return uioMaxIOV }

// Bind implements api.Socket.
func (s *Socket) Bind(addr net.Addr) error {
	sa, err := sockaddrOf(addr)
	if err != nil {
		return err
	}
	if err := unix.Bind(s.fd, sa); err != nil {
		return ioError("bind", err)
	}
	return nil
}

// Close implements api.Socket.
func (s *Socket) Close() error {
	if err := unix.Close(s.fd); err != nil {
		return ioError("close", err)
	}
	return nil
}

// LocalAddr implements api.Socket.
func (s *Socket) LocalAddr() (net.Addr, error) {
	sa, err := unix.Getsockname(s.fd)
	if err != nil {
		return nil, ioError("getsockname", err)
	}
	return addrOf(sa), nil
}

// RemoteAddr implements api.Socket.
func (s *Socket) RemoteAddr() (net.Addr, error) {
	sa, err := unix.Getpeername(s.fd)
	if err != nil {
		return nil, ioError("getpeername", err)
	}
	return addrOf(sa), nil
}

// SetOption implements api.Socket.
func (s *Socket) SetOption(level, name, value int) error {
	if err := unix.SetsockoptInt(s.fd, level, name, value); err != nil {
		return ioError("setsockopt", err)
	}
	return nil
}

// Option implements api.Socket.
func (s *Socket) Option(level, name int) (int, error) {
	v, err := unix.GetsockoptInt(s.fd, level, name)
	if err != nil {
		return 0, ioError("getsockopt", err)
	}
	return v, nil
}

func sockaddrOf(addr net.Addr) (unix.Sockaddr, error) {
	switch a := addr.(type) {
	case *net.TCPAddr:
		if ip4 := a.IP.To4(); ip4 != nil {
			sa := &unix.SockaddrInet4{Port: a.Port}
			copy(sa.Addr[:], ip4)
			return sa, nil
		}
		sa := &unix.SockaddrInet6{Port: a.Port}
		copy(sa.Addr[:], a.IP.To16())
		return sa, nil
	case *net.UnixAddr:
		return &unix.SockaddrUnix{Name: a.Name}, nil
	default:
		return nil, api.ErrInvalidArgument
	}
}

func addrOf(sa unix.Sockaddr) net.Addr {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.TCPAddr{IP: net.IP(a.Addr[:]), Port: a.Port}
	case *unix.SockaddrInet6:
		return &net.TCPAddr{IP: net.IP(a.Addr[:]), Port: a.Port}
	case *unix.SockaddrUnix:
		return &net.UnixAddr{Name: a.Name, Net: "unix"}
	default:
		return nil
	}
}

func ioError(op string, err error) error {
	if errno, ok := err.(syscall.Errno); ok {
		return api.NewIOError(op, errno, "")
	}
	return err
}
