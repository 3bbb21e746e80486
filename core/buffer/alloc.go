// File: core/buffer/alloc.go
// Author: momentics <momentics@gmail.com>
//
// Default allocator over the shared pbytes pool.

package buffer

import "github.com/momentics/hioload-nio/api"

// PooledAllocator allocates buffers from the process-wide pbytes pool.
type PooledAllocator struct{}

// Get implements api.Allocator.
func (PooledAllocator) Get(capacity int) api.Buffer { return New(capacity) }

// DefaultAllocator is the allocator channels use unless configured
// otherwise.
var DefaultAllocator api.Allocator = PooledAllocator{}
