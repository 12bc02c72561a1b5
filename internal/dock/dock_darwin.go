//go:build darwin

package dock

/*
#cgo LDFLAGS: -framework Cocoa

int pentamindInstallReopenHandler(void);
*/
import "C"

import (
	"fmt"
	"sync"
)

var (
	mu      sync.Mutex
	handler ReopenCallback
)

func observeReopenImpl(callback ReopenCallback) (func(), error) {
	mu.Lock()
	handler = callback
	mu.Unlock()

	switch rc := C.pentamindInstallReopenHandler(); rc {
	case 0:
	case 1:
		return nil, ErrNoDelegate
	default:
		return nil, fmt.Errorf("install reopen handler: code %d", int(rc))
	}

	return func() {
		mu.Lock()
		handler = nil
		mu.Unlock()
	}, nil
}

//export pentamindHandleReopen
func pentamindHandleReopen(hasVisibleWindows C.int) {
	mu.Lock()
	h := handler
	mu.Unlock()
	if h != nil {
		h(hasVisibleWindows != 0)
	}
}
