// File: transport/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package transport implements the non-blocking socket surface over raw
// descriptors: scatter-free reads, single and gathering writes, bind,
// address lookup and setsockopt/getsockopt passthrough. Would-block
// conditions surface as api.ErrWouldBlock; end-of-stream as (0, nil)
// from Read.
package transport
