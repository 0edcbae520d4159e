// Package credential supplies the bearer token the secure client attaches
// to requests.
//
// A Provider only reads; a Store also saves and clears. Implementations:
//
//   - Static: a fixed token, mostly for tests.
//   - Env: reads an environment variable.
//   - FileStore: one token in a 0600 file, optionally sealed.
//   - RedisStore: one token under a redis key, shared between machines.
//
// Token reports ErrNoToken when nothing is stored; callers treat that as
// "not logged in" rather than a failure.
package credential
