package windows

import (
	"sync/atomic"

	"fyne.io/fyne/v2"
)

// FyneWindow adapts a fyne.Window. Fyne does not report visibility, so it
// is tracked here from the calls made through the adapter.
type FyneWindow struct {
	label   string
	window  fyne.Window
	visible atomic.Bool
}

func NewFyneWindow(label string, w fyne.Window) *FyneWindow {
	fw := &FyneWindow{label: label, window: w}
	w.SetOnClosed(func() {
		fw.visible.Store(false)
	})
	return fw
}

func (w *FyneWindow) Label() string { return w.label }

func (w *FyneWindow) Show() {
	w.window.Show()
	w.visible.Store(true)
}

func (w *FyneWindow) Hide() {
	w.window.Hide()
	w.visible.Store(false)
}

func (w *FyneWindow) RequestFocus() {
	w.window.RequestFocus()
}

func (w *FyneWindow) Visible() bool { return w.visible.Load() }

// Fyne returns the wrapped window for content and sizing calls.
func (w *FyneWindow) Fyne() fyne.Window { return w.window }
