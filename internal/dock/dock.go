// Package dock reports macOS dock icon clicks (application reopen) to Go.
package dock

import "errors"

var ErrNoDelegate = errors.New("application delegate not installed")

// ReopenCallback receives whether any window was visible when the dock icon
// was clicked.
type ReopenCallback func(hasVisibleWindows bool)

// ObserveReopen attaches callback to the running application's delegate.
// It must be called on the main thread after the event loop has created the
// delegate. The returned cleanup stops delivery.
func ObserveReopen(callback ReopenCallback) (cleanup func(), err error) {
	return observeReopenImpl(callback)
}
