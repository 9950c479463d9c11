package events

import (
	"sync"
	"testing"
	"time"

	"github.com/soocke/loot-lens-go/domain/uistate"
)

type recorder struct {
	mu  sync.Mutex
	got []Event
}

func (r *recorder) listener(ev Event) {
	r.mu.Lock()
	r.got = append(r.got, ev)
	r.mu.Unlock()
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func TestBusDeliversInOrder(t *testing.T) {
	b := NewBus(nil)
	r := &recorder{}
	b.Subscribe(r.listener)
	b.Publish(StateChanged{To: uistate.MainMenu})
	b.Publish(ScanResult{Kind: ScanIcon, Placeholder: "scan failed: no icon"})
	b.Close()
	if r.len() != 2 {
		t.Fatalf("expected 2 events, got %d", r.len())
	}
	if _, ok := r.got[0].(StateChanged); !ok {
		t.Fatalf("first event %T", r.got[0])
	}
	if sr := r.got[1].(ScanResult); sr.Label() != "scan failed: no icon" {
		t.Fatalf("label %q", sr.Label())
	}
}

func TestBusSurvivesListenerPanic(t *testing.T) {
	b := NewBus(nil)
	r := &recorder{}
	b.Subscribe(func(Event) { panic("boom") })
	b.Subscribe(r.listener)
	b.Publish(MarkerCleared{At: time.Now()})
	b.Publish(MarkerCleared{At: time.Now()})
	b.Close()
	if r.len() != 2 || b.Delivered() != 2 {
		t.Fatalf("delivery stopped after panic: %d", r.len())
	}
}

func TestBusPublishAfterCloseIsDropped(t *testing.T) {
	b := NewBus(nil)
	b.Close()
	b.Close()
	b.Publish(MarkerCleared{})
	if b.Delivered() != 0 {
		t.Fatalf("event delivered after close")
	}
}

func TestScanKindNames(t *testing.T) {
	if ScanTooltip.String() != "tooltip" || ScanKind(0).String() != "unknown" {
		t.Fatalf("unexpected names")
	}
}
