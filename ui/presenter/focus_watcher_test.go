package presenter

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/soocke/loot-lens-go/ui/model"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestFocusWatcher_TracksForeground(t *testing.T) {
	var title atomic.Value
	title.Store("Notepad")
	m := &model.ScanningModel{}
	var changes atomic.Int32
	w := NewFocusWatcher(m, nil, func() (string, error) { return title.Load().(string), nil }, func() string { return "ARC Raiders" })
	w.interval = 10 * time.Millisecond
	w.OnChange = func(bool) { changes.Add(1) }

	w.Start()
	defer w.Stop()
	if m.Focused() {
		t.Fatalf("focused on a foreign window")
	}
	title.Store("ARC Raiders")
	waitFor(t, m.Focused)
	title.Store("Notepad")
	waitFor(t, func() bool { return !m.Focused() })
	if n := changes.Load(); n != 2 {
		t.Fatalf("expected 2 focus changes, got %d", n)
	}
}

func TestFocusWatcher_EmptyWantAlwaysFocused(t *testing.T) {
	m := &model.ScanningModel{}
	w := NewFocusWatcher(m, nil, func() (string, error) { return "anything", nil }, nil)
	w.Poll()
	if !m.Focused() {
		t.Fatalf("empty game window should count as focused")
	}
}

func TestFocusWatcher_StartStopIdempotent(t *testing.T) {
	w := NewFocusWatcher(&model.ScanningModel{}, nil, func() (string, error) { return "", nil }, nil)
	w.interval = 5 * time.Millisecond
	w.Start()
	w.Start()
	w.Stop()
	w.Stop()
	w.Start()
	w.Stop()
}
