package console

import (
	"github.com/kbukum/adminkit/mutation"
)

// Callback reacts to a settled mutation. Any field may be nil.
type Callback struct {
	OnSuccess func(*mutation.Result)
	OnError   func(error)
	OnSettled func(*mutation.Result, error)
}

func (cb Callback) run(res *mutation.Result, err error) {
	if err == nil && cb.OnSuccess != nil {
		cb.OnSuccess(res)
	}
	if err != nil && cb.OnError != nil {
		cb.OnError(err)
	}
	if cb.OnSettled != nil {
		cb.OnSettled(res, err)
	}
}

// OnSuccess runs fn after a successful mutation.
func OnSuccess(fn func(*mutation.Result)) Callback {
	return Callback{OnSuccess: fn}
}

// OnError runs fn after a failed mutation.
func OnError(fn func(error)) Callback {
	return Callback{OnError: fn}
}

// OnSettled runs fn after every mutation that reached the network.
func OnSettled(fn func(*mutation.Result, error)) Callback {
	return Callback{OnSettled: fn}
}

// Invalidate marks cached keys stale after a successful mutation, so
// lists reload on the next read.
func (c *Console) Invalidate(keys ...string) Callback {
	return OnSuccess(func(*mutation.Result) {
		c.Cache.Invalidate(keys...)
	})
}
