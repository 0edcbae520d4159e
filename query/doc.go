// Package query provides cached, typed reads over the admin API.
//
// A Cache holds raw JSON bodies by key, de-duplicates concurrent fetches
// with singleflight, retries retryable failures and serves entries for
// StaleTime before refetching. Invalidate marks keys stale after a
// mutation changes the underlying list.
//
//	cache := query.NewCache(query.WithStaleTime(cfg.Query.StaleTime))
//	projects := query.New(selector, cache, query.Options[[]api.Project]{
//		Key: "all-projects", Path: "/api/projects", Enabled: true, Secure: true,
//	})
//	state := projects.Get(ctx)
package query
