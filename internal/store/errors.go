package store

import "errors"

// ErrNotFound is returned when a partial update targets a document that does not exist.
var ErrNotFound = errors.New("document not found")

// ErrUnknownField is returned when an update names a field the collection does not have.
var ErrUnknownField = errors.New("unknown document field")
