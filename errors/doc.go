// Package errors provides the structured error type used across adminkit.
//
// AppError carries a machine-readable code, a user-facing message and an
// optional cause. Transport failures stay *httpclient.Error; AppError covers
// configuration, credential and dispatch errors raised before any I/O.
package errors
