// Package server hosts a Gin engine over HTTP/1.1 and h2c with a small
// middleware stack. `adminctl mock-server` uses it to serve the in-memory
// admin API.
package server
