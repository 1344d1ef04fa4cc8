// Package common defines constants and sentinel errors shared by the server,
// its repositories and the clients. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound    = errors.New("not found")
	ErrHandleTaken = errors.New("handle already taken")
)
