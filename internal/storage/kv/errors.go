package kv

import "errors"

var (
	// ErrDBClosed is returned when operating on a closed database.
	ErrDBClosed = errors.New("kv: database is closed")

	// ErrKeyNotFound is returned when a key doesn't exist.
	ErrKeyNotFound = errors.New("kv: key not found")

	// ErrUnknownBackend is returned for an unrecognized backend name.
	ErrUnknownBackend = errors.New("kv: unknown backend")
)
