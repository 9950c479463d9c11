package model

import "sync/atomic"

// ScanningModel tracks whether passive ticking is enabled and whether the
// game window currently has focus. The zero value is disabled and unfocused.
// Atomic because the ticker goroutine reads it while UI callbacks write it.
type ScanningModel struct {
	enabled atomic.Bool
	focused atomic.Bool
}

// Enabled reports whether the user turned passive scanning on.
func (m *ScanningModel) Enabled() bool {
	if m == nil {
		return false
	}
	return m.enabled.Load()
}

// SetEnabled stores the enabled flag.
func (m *ScanningModel) SetEnabled(b bool) {
	if m == nil {
		return
	}
	m.enabled.Store(b)
}

// Focused reports the last focus observation.
func (m *ScanningModel) Focused() bool {
	if m == nil {
		return false
	}
	return m.focused.Load()
}

// SetFocused stores the focus observation and reports whether it changed.
func (m *ScanningModel) SetFocused(b bool) bool {
	if m == nil {
		return false
	}
	return m.focused.Swap(b) != b
}

// Active reports whether a tick should run now.
func (m *ScanningModel) Active() bool { return m.Enabled() && m.Focused() }
