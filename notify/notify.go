package notify

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Default notification texts.
const (
	DefaultPending = "Processing..."
	DefaultSuccess = "Success!"
	DefaultFailure = "Something went wrong. Try again."
)

// Handle correlates a pending notification with its resolution.
type Handle string

// NewHandle returns a fresh random handle.
func NewHandle() Handle {
	return Handle(uuid.NewString())
}

// Kind is the state a notification is shown in.
type Kind int

const (
	KindLoading Kind = iota
	KindSuccess
	KindError
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Notifier displays transient status messages.
type Notifier interface {
	// Loading shows a pending message and returns its handle.
	Loading(msg string) Handle
	// Success replaces the pending message for h with a success message.
	Success(h Handle, msg string)
	// Error replaces the pending message for h with an error message.
	Error(h Handle, msg string)
}

// Ticket is one pending notification that resolves at most once.
type Ticket struct {
	n        Notifier
	h        Handle
	once     sync.Once
	resolved atomic.Int32
}

// Start shows a pending notification. An empty msg uses DefaultPending.
func Start(n Notifier, msg string) *Ticket {
	if n == nil {
		n = Discard
	}
	if msg == "" {
		msg = DefaultPending
	}
	return &Ticket{n: n, h: n.Loading(msg)}
}

// Handle returns the handle shown by Start.
func (t *Ticket) Handle() Handle { return t.h }

// Succeed resolves the ticket as a success. It reports whether this call
// performed the resolution.
func (t *Ticket) Succeed(msg string) bool {
	return t.Resolve(KindSuccess, msg)
}

// Fail resolves the ticket as an error.
func (t *Ticket) Fail(msg string) bool {
	return t.Resolve(KindError, msg)
}

// Resolve moves the ticket to kind. Only the first call has an effect.
// Empty messages fall back to DefaultSuccess or DefaultFailure.
func (t *Ticket) Resolve(kind Kind, msg string) bool {
	done := false
	t.once.Do(func() {
		switch kind {
		case KindSuccess:
			if msg == "" {
				msg = DefaultSuccess
			}
			t.n.Success(t.h, msg)
		default:
			kind = KindError
			if msg == "" {
				msg = DefaultFailure
			}
			t.n.Error(t.h, msg)
		}
		t.resolved.Store(int32(kind))
		done = true
	})
	return done
}

// State returns KindLoading until the ticket is resolved.
func (t *Ticket) State() Kind { return Kind(t.resolved.Load()) }

type discard struct{}

func (discard) Loading(string) Handle { return NewHandle() }
func (discard) Success(Handle, string) {}
func (discard) Error(Handle, string)   {}

// Discard drops every notification.
var Discard Notifier = discard{}
