package store

import "errors"

// Every mutation reports one of these kinds; callers match with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrBookUnavailable = errors.New("book unavailable")
	ErrReaderSuspended = errors.New("reader suspended")
	ErrInvalidState    = errors.New("invalid state")
)
