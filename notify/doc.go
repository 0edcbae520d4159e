// Package notify reports the lifecycle of a request to the user.
//
// Every mutation opens one pending notification and resolves that same
// handle exactly once, to success or error:
//
//	t := notify.Start(n, "")
//	res, err := call.Execute(ctx)
//	if err != nil {
//	    t.Fail(msg)
//	} else {
//	    t.Succeed(msg)
//	}
package notify
