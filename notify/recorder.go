package notify

import (
	"sync"
	"time"
)

// Event is one recorded notification.
type Event struct {
	Kind    Kind
	Handle  Handle
	Message string
	At      time.Time
}

// Recorder keeps every notification in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(kind Kind, h Handle, msg string) {
	r.mu.Lock()
	r.events = append(r.events, Event{Kind: kind, Handle: h, Message: msg, At: time.Now()})
	r.mu.Unlock()
}

// Loading records a pending notification.
func (r *Recorder) Loading(msg string) Handle {
	h := NewHandle()
	r.record(KindLoading, h, msg)
	return h
}

// Success records a success resolution.
func (r *Recorder) Success(h Handle, msg string) { r.record(KindSuccess, h, msg) }

// Error records an error resolution.
func (r *Recorder) Error(h Handle, msg string) { r.record(KindError, h, msg) }

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// ForHandle returns the events recorded for h, in order.
func (r *Recorder) ForHandle(h Handle) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Handle == h {
			out = append(out, e)
		}
	}
	return out
}

// Pending returns handles that were opened but never resolved.
func (r *Recorder) Pending() []Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	open := map[Handle]bool{}
	var order []Handle
	for _, e := range r.events {
		if e.Kind == KindLoading {
			open[e.Handle] = true
			order = append(order, e.Handle)
			continue
		}
		delete(open, e.Handle)
	}
	var out []Handle
	for _, h := range order {
		if open[h] {
			out = append(out, h)
		}
	}
	return out
}

// Count returns how many events of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
