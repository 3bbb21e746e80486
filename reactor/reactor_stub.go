//go:build !linux

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub poller for platforms without an epoll backend.

package reactor

import "github.com/momentics/hioload-nio/api"

func newPoller(int) (poller, error) {
	return nil, api.ErrNotSupported
}
