//go:build !linux

// File: transport/socket_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub constructors for platforms without a raw-socket backend.

package transport

import "github.com/momentics/hioload-nio/api"

// Socket is unavailable on this platform.
type Socket struct{}

// New is unavailable on this platform.
func New(int) (*Socket, error) { return nil, api.ErrNotSupported }

// NewTCP is unavailable on this platform.
func NewTCP() (*Socket, error) { return nil, api.ErrNotSupported }

// Pair is unavailable on this platform.
func Pair() (*Socket, *Socket, error) { return nil, nil, api.ErrNotSupported }
