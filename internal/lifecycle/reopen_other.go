//go:build !darwin

package lifecycle

const reopenSupported = false
