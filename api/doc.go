// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package api defines the contracts of the hioload-nio stack: byte buffers
// with independent read/write cursors, one-shot completion promises, the
// non-blocking socket surface, the event-loop registration protocol, the
// channel pipeline, and the typed option registry.
//
// Implementations live in core/, pipeline/, transport/ and reactor/; fakes for testing
// live in fake/.
package api
