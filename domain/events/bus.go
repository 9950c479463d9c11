package events

import (
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Listener receives every published event on the bus goroutine.
type Listener func(Event)

type evtAddListener struct{ l Listener }

func (evtAddListener) EventName() string { return "add_listener" }

// Bus delivers events to listeners from a single goroutine, in publish
// order. A panicking listener is logged and does not stop delivery.
type Bus struct {
	logger    *slog.Logger
	events    chan Event
	mu        sync.RWMutex
	closed    bool
	done      chan struct{}
	listeners []Listener
	delivered atomic.Int64
}

// NewBus constructs the bus and starts its loop.
func NewBus(logger *slog.Logger) *Bus {
	b := &Bus{logger: logger, events: make(chan Event, 64), done: make(chan struct{})}
	go b.loop()
	return b
}

func (b *Bus) loop() {
	defer close(b.done)
	for ev := range b.events {
		if e, ok := ev.(evtAddListener); ok {
			b.listeners = append(b.listeners, e.l)
			continue
		}
		for _, l := range b.listeners {
			b.deliver(l, ev)
		}
		b.delivered.Add(1)
	}
}

func (b *Bus) deliver(l Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil && b.logger != nil {
			b.logger.Error("event listener panic", "event", ev.EventName(), "error", r, "stack", string(debug.Stack()))
		}
	}()
	l(ev)
}

// Subscribe registers l for events published after the call.
func (b *Bus) Subscribe(l Listener) {
	if l != nil {
		b.send(evtAddListener{l: l})
	}
}

// Publish queues ev for delivery. Events published after Close are dropped.
func (b *Bus) Publish(ev Event) {
	if ev != nil {
		b.send(ev)
	}
}

func (b *Bus) send(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	b.events <- ev
}

// Delivered returns how many events reached the listeners.
func (b *Bus) Delivered() int64 { return b.delivered.Load() }

// Close stops accepting events and waits for queued ones to be delivered.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.events)
	b.mu.Unlock()
	<-b.done
}
