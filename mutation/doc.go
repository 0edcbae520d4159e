// Package mutation dispatches one state-changing request per call.
//
// An Adapter carries defaults (path, verb, success message, secure flag);
// Variables override verb, path and payload per call. Prepare resolves
// and shapes the request, failing with MISSING_TARGET or
// UNSUPPORTED_VERB before any I/O. Execute sends it once, without retry.
//
//	a := mutation.New(selector, mutation.Options{Path: "/api/contact-info", Secure: false})
//	res, err := a.Mutate(ctx, mutation.Variables{Data: info})
//	out := mutation.OutcomeOf(res, err)
//
// The adapter never shows notifications; see package console.
package mutation
