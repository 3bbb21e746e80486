// File: reactor/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package reactor provides the event loop channels are pinned to: a
// single-goroutine readiness notifier over epoll with a cross-goroutine
// task queue. The loop holds no channel state beyond the registration
// itself; interest masks are rebuilt from each registration's current
// interest on every (re)registration.
package reactor
