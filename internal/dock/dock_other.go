//go:build !darwin

package dock

// observeReopenImpl is a no-op; only macOS has a dock reopen.
func observeReopenImpl(ReopenCallback) (func(), error) {
	return func() {}, nil
}
