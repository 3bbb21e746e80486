// File: api/promise.go
// Author: momentics <momentics@gmail.com>
//
// One-shot completion handle for asynchronous channel operations.

package api

// Promise is settled exactly once, either successfully or with an error.
// Settling twice is a programmer error. Completion callbacks run on the
// settling goroutine, which for channel operations is the owning event
// loop.
type Promise interface {
	// Succeed settles the promise successfully.
	Succeed()

	// Fail settles the promise with err. err must be non-nil.
	Fail(err error)

	// OnComplete registers fn to run once the promise settles; if it is
	// already settled, fn runs immediately. err is nil on success.
	OnComplete(fn func(err error))

	// Done reports whether the promise has been settled.
	Done() bool

	// Err returns the settlement error, or nil when pending or
	// successful.
	Err() error
}
