package presenter

import (
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/loot-lens-go/domain/action"
)

// FocusModel stores the focus observation.
type FocusModel interface {
	SetFocused(bool) (changed bool)
}

// FocusWatcher polls the foreground window and records whether the game
// window has focus, so passive ticks only run while the game is in front.
type FocusWatcher struct {
	Model      FocusModel
	Logger     *slog.Logger
	Foreground func() (string, error)
	Want       func() string // configured game window title; empty matches everything
	OnChange   func(focused bool)
	interval   time.Duration

	mu   sync.Mutex
	done chan struct{}
}

// NewFocusWatcher constructs a focus watcher polling every 250ms.
func NewFocusWatcher(m FocusModel, logger *slog.Logger, fg func() (string, error), want func() string) *FocusWatcher {
	if fg == nil {
		fg = action.ForegroundWindowTitle
	}
	if want == nil {
		want = func() string { return "" }
	}
	return &FocusWatcher{Model: m, Logger: logger, Foreground: fg, Want: want, interval: 250 * time.Millisecond}
}

// Start begins polling. The first poll happens immediately. Idempotent.
func (w *FocusWatcher) Start() {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil {
		return
	}
	w.done = make(chan struct{})
	w.Poll()
	go w.loop(w.done)
}

// Stop ends polling. Idempotent.
func (w *FocusWatcher) Stop() {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done == nil {
		return
	}
	close(w.done)
	w.done = nil
}

func (w *FocusWatcher) loop(done chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.Poll()
		case <-done:
			return
		}
	}
}

// Poll takes one focus observation.
func (w *FocusWatcher) Poll() {
	if w == nil || w.Model == nil {
		return
	}
	focused := action.Focused(w.Want(), w.Foreground)
	if !w.Model.SetFocused(focused) {
		return
	}
	if w.Logger != nil {
		w.Logger.Debug("game focus changed", "focused", focused)
	}
	if w.OnChange != nil {
		w.OnChange(focused)
	}
}
