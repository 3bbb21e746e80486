//go:build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7) poller with an eventfd wakeup channel. Level-triggered:
// the interest mask mirrors the registration's interest exactly, so a
// channel that withdraws an edge stops seeing it on the next mod.

package reactor

import (
	"encoding/binary"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-nio/api"
)

type epollPoller struct {
	epfd   int
	wakefd int
	events []unix.EpollEvent
}

func newPoller(maxEvents int) (poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, ioError("epoll_create1", err)
	}
	wakefd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		return nil, ioError("eventfd", err)
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakefd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakefd, &ev); err != nil {
		unix.Close(epfd)
		unix.Close(wakefd)
		return nil, ioError("epoll_ctl", err)
	}
	return &epollPoller{
		epfd:   epfd,
		wakefd: wakefd,
		events: make([]unix.EpollEvent, maxEvents+1),
	}, nil
}

func interestMask(i api.Interest) uint32 {
	var m uint32
	if i.Readable() {
		m |= unix.EPOLLIN | unix.EPOLLRDHUP
	}
	if i.Writable() {
		m |= unix.EPOLLOUT
	}
	return m
}

func (p *epollPoller) add(fd int, i api.Interest) error {
	ev := unix.EpollEvent{Events: interestMask(i), Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return ioError("epoll_ctl_add", err)
	}
	return nil
}

func (p *epollPoller) mod(fd int, i api.Interest) error {
	ev := unix.EpollEvent{Events: interestMask(i), Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		return ioError("epoll_ctl_mod", err)
	}
	return nil
}

func (p *epollPoller) del(fd int) error {
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return ioError("epoll_ctl_del", err)
	}
	return nil
}

func (p *epollPoller) wait(evs []event, timeoutMs int) (int, error) {
	n, err := unix.EpollWait(p.epfd, p.events, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, ioError("epoll_wait", err)
	}
	out := 0
	for i := 0; i < n && out < len(evs); i++ {
		raw := p.events[i]
		if int(raw.Fd) == p.wakefd {
			p.drainWake()
			continue
		}
		evs[out] = event{
			fd:       int(raw.Fd),
			readable: raw.Events&(unix.EPOLLIN|unix.EPOLLRDHUP|unix.EPOLLHUP|unix.EPOLLERR) != 0,
			writable: raw.Events&unix.EPOLLOUT != 0,
		}
		out++
	}
	return out, nil
}

func (p *epollPoller) wake() error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(p.wakefd, buf[:])
	if err == unix.EAGAIN {
		// counter saturated, a wakeup is already pending
		return nil
	}
	if err != nil {
		return ioError("eventfd_write", err)
	}
	return nil
}

func (p *epollPoller) drainWake() {
	var buf [8]byte
	for {
		_, err := unix.Read(p.wakefd, buf[:])
		if err != nil {
			return
		}
	}
}

func (p *epollPoller) close() error {
	err1 := unix.Close(p.wakefd)
	err2 := unix.Close(p.epfd)
	if err1 != nil {
		return ioError("close", err1)
	}
	if err2 != nil {
		return ioError("close", err2)
	}
	return nil
}

func ioError(op string, err error) error {
	if errno, ok := err.(syscall.Errno); ok {
		return api.NewIOError(op, errno, "")
	}
	return err
}
