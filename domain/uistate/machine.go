package uistate

import (
	"sync"
	"time"
)

// Transition is a committed state change.
type Transition struct {
	From     State
	To       State
	InRaid   bool // the new state is raid scoped
	LeftRaid bool // a raid-scoped state was left; raid data must be cleared
	At       time.Time
}

// Machine commits raw classifications. A raw state commits when it is not
// Unknown, differs from the committed state and, with repeat on, equals the
// previous raw classification.
type Machine struct {
	mu        sync.Mutex
	repeat    bool
	committed State
	lastRaw   State
	since     time.Time
}

// NewMachine creates a machine starting in Unknown.
func NewMachine(repeat bool) *Machine { return &Machine{repeat: repeat} }

// Observe feeds one raw classification.
func (m *Machine) Observe(raw State, at time.Time) (Transition, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prevRaw := m.lastRaw
	m.lastRaw = raw
	if raw == Unknown || raw == m.committed {
		return Transition{}, false
	}
	if m.repeat && raw != prevRaw {
		return Transition{}, false
	}
	tr := Transition{
		From:     m.committed,
		To:       raw,
		InRaid:   raw.Raid(),
		LeftRaid: m.committed.Raid() && !raw.Raid(),
		At:       at,
	}
	m.committed = raw
	m.since = at
	return tr, true
}

// Committed returns the committed state and when it was committed.
func (m *Machine) Committed() (State, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.committed, m.since
}
