// Package windows tracks the application's windows by label.
package windows

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// MainLabel identifies the primary window.
const MainLabel = "main"

var ErrDuplicateLabel = errors.New("window label already registered")

// Window is the subset of window behavior the shell drives.
type Window interface {
	Label() string
	Show()
	Hide()
	RequestFocus()
	Visible() bool
}

// Registry maps labels to windows. Callers look windows up on every use
// instead of holding on to them.
type Registry struct {
	mu      sync.RWMutex
	windows map[string]Window
}

func NewRegistry() *Registry {
	return &Registry{windows: make(map[string]Window)}
}

func (r *Registry) Add(w Window) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.windows[w.Label()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, w.Label())
	}
	r.windows[w.Label()] = w
	return nil
}

// Remove forgets label; unknown labels are ignored.
func (r *Registry) Remove(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.windows, label)
}

func (r *Registry) Get(label string) (Window, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.windows[label]
	return w, ok
}

// AnyVisible reports whether at least one registered window is shown.
func (r *Registry) AnyVisible() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.windows {
		if w.Visible() {
			return true
		}
	}
	return false
}

func (r *Registry) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	labels := make([]string, 0, len(r.windows))
	for label := range r.windows {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
