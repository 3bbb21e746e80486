// File: fake/doc.go
// Author: momentics <momentics@gmail.com>

// Package fake provides controllable implementations of the api
// contracts for testing: a scriptable socket, a recording event loop
// that runs tasks inline, and a recording pipeline handler.
package fake
