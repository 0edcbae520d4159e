package notify

import "sync"

// Tee forwards every notification to several notifiers under one handle.
type Tee struct {
	targets []Notifier

	mu      sync.Mutex
	handles map[Handle][]Handle
}

// NewTee creates a Tee over targets.
func NewTee(targets ...Notifier) *Tee {
	return &Tee{targets: targets, handles: make(map[Handle][]Handle)}
}

// Loading opens a pending notification on every target.
func (t *Tee) Loading(msg string) Handle {
	h := NewHandle()
	inner := make([]Handle, len(t.targets))
	for i, n := range t.targets {
		inner[i] = n.Loading(msg)
	}
	t.mu.Lock()
	t.handles[h] = inner
	t.mu.Unlock()
	return h
}

// Success resolves h on every target.
func (t *Tee) Success(h Handle, msg string) {
	for i, inner := range t.take(h) {
		t.targets[i].Success(inner, msg)
	}
}

// Error resolves h on every target.
func (t *Tee) Error(h Handle, msg string) {
	for i, inner := range t.take(h) {
		t.targets[i].Error(inner, msg)
	}
}

func (t *Tee) take(h Handle) []Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	inner := t.handles[h]
	delete(t.handles, h)
	return inner
}
