package scan

import (
	"fmt"
	"sync"
)

// Lock ranks. A call chain may only acquire locks in increasing rank:
// name, then icon, then tooltip.
const (
	rankName    = 1
	rankIcon    = 2
	rankTooltip = 3
)

// held is the bitmask of lock ranks owned by the current call chain. It is
// passed down explicitly; fallbacks that run under an already-held lock call
// the unlocked implementation instead of acquiring again.
type held uint8

func (h held) has(rank uint) bool { return h&(1<<rank) != 0 }

// rankedLock is a mutex that refuses out-of-order acquisition.
type rankedLock struct {
	mu   sync.Mutex
	rank uint
	name string
}

func newRankedLock(rank uint, name string) *rankedLock {
	return &rankedLock{rank: rank, name: name}
}

// lock acquires l on behalf of a chain already holding h. Acquiring while a
// lock of equal or higher rank is held panics: that path could deadlock
// against a chain taking the locks in the documented order.
func (l *rankedLock) lock(h held) held {
	if h>>l.rank != 0 {
		panic(fmt.Sprintf("scan: lock %q (rank %d) acquired out of order, held=%04b", l.name, l.rank, uint8(h)))
	}
	l.mu.Lock()
	return h | 1<<l.rank
}

func (l *rankedLock) unlock() { l.mu.Unlock() }
