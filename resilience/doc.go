// Package resilience retries failed reads with exponential backoff.
//
// Queries use it to re-issue transient failures before reporting an error
// state. Mutations never retry.
//
//	users, err := resilience.Retry(ctx, resilience.DefaultPolicy(),
//	    func(ctx context.Context, attempt int) ([]User, error) {
//	        return fetch(ctx)
//	    })
package resilience
