//go:build darwin

package lifecycle

// The dock delivers reopen events through the application delegate.
const reopenSupported = true
