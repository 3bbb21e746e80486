// File: core/channel/options.go
// Author: momentics <momentics@gmail.com>
//
// Typed option dispatch. Socket options pass straight through to the
// descriptor; channel options mutate loop-confined state, so both
// accessors must run on the owning loop.

package channel

import "github.com/momentics/hioload-nio/api"

// SetOption applies value under the given key. An unknown key or a
// mistyped value is a programmer error; socket option failures surface
// as I/O errors.
func (c *Channel) SetOption(opt api.Option, value any) error {
	switch o := opt.(type) {
	case api.SocketOption:
		v, ok := value.(int)
		if !ok {
			api.Programmerf("socket option value must be int, got %T", value)
		}
		return c.sock.SetOption(o.Level, o.Name, v)
	case api.AllocatorOption:
		a, ok := value.(api.Allocator)
		if !ok {
			api.Programmerf("allocator option value must be api.Allocator, got %T", value)
		}
		c.alloc = a
	case api.RecvAllocatorOption:
		r, ok := value.(api.RecvAllocator)
		if !ok {
			api.Programmerf("recv allocator option value must be api.RecvAllocator, got %T", value)
		}
		c.recvAlloc = r
	case api.AutoReadOption:
		b, ok := value.(bool)
		if !ok {
			api.Programmerf("auto-read option value must be bool, got %T", value)
		}
		was := c.autoRead
		c.autoRead = b
		if b && !was {
			c.StartReading0()
		} else if !b && was {
			c.StopReading0()
		}
	case api.MaxMessagesPerReadOption:
		v, ok := value.(int)
		if !ok || v < 1 {
			api.Programmerf("max messages per read must be a positive int, got %v", value)
		}
		c.maxMessagesPerRead = uint32(v)
	default:
		api.Programmerf("unknown option %T", opt)
	}
	return nil
}

// Option reads the value under the given key.
func (c *Channel) Option(opt api.Option) (any, error) {
	switch o := opt.(type) {
	case api.SocketOption:
		return c.sock.Option(o.Level, o.Name)
	case api.AllocatorOption:
		return c.alloc, nil
	case api.RecvAllocatorOption:
		return c.recvAlloc, nil
	case api.AutoReadOption:
		return c.autoRead, nil
	case api.MaxMessagesPerReadOption:
		return int(c.maxMessagesPerRead), nil
	default:
		api.Programmerf("unknown option %T", opt)
	}
	return nil, nil
}
