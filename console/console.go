// Package console ties the mutation and query adapters to a notification
// surface. It is the only layer that shows notifications.
package console

import (
	"context"

	"github.com/kbukum/adminkit/client"
	"github.com/kbukum/adminkit/logger"
	"github.com/kbukum/adminkit/mutation"
	"github.com/kbukum/adminkit/notify"
	"github.com/kbukum/adminkit/query"
)

// Console bundles what a command needs to issue requests.
type Console struct {
	Source   client.Source
	Cache    *query.Cache
	Notifier notify.Notifier

	log *logger.Logger
}

// New creates a Console. A nil cache gets a default one and a nil
// notifier discards.
func New(source client.Source, cache *query.Cache, n notify.Notifier) *Console {
	if cache == nil {
		cache = query.NewCache()
	}
	if n == nil {
		n = notify.Discard
	}
	return &Console{
		Source:   source,
		Cache:    cache,
		Notifier: n,
		log:      logger.Get("console"),
	}
}

// Mutation builds an adapter over the console's source.
func (c *Console) Mutation(opts mutation.Options) *mutation.Adapter {
	return mutation.New(c.Source, opts)
}

// Query builds a typed query over the console's source and cache.
func Query[T any](c *Console, opts query.Options[T]) *query.Query[T] {
	return query.New(c.Source, c.Cache, opts)
}

// Mutate runs one mutation with a pending notification that resolves to
// success or error exactly once. Configuration errors are returned
// without any notification or callback. Callbacks run after the
// notification resolves; the error is always returned to the caller.
func (c *Console) Mutate(ctx context.Context, a *mutation.Adapter, vars mutation.Variables, cbs ...Callback) (*mutation.Result, error) {
	call, err := a.Prepare(vars)
	if err != nil {
		return nil, err
	}

	ticket := notify.Start(c.Notifier, notify.DefaultPending)
	res, err := call.Execute(ctx)
	out := mutation.OutcomeOf(res, err)

	if out.Succeeded() {
		ticket.Succeed(out.Message)
	} else {
		ticket.Fail(out.Message)
	}

	c.log.WithContext(ctx).Debug("mutation settled", logger.Fields(
		logger.FieldHandle, string(ticket.Handle()),
		logger.FieldVerb, call.Verb().String(),
		logger.FieldPath, call.Request().Path,
		logger.FieldStatus, out.Status.String(),
	))

	for _, cb := range cbs {
		cb.run(res, err)
	}
	return res, err
}
