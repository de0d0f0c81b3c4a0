package storage

import "errors"

// Sentinel errors for the storage package. Callers match them with errors.Is;
// the wrapped message names the file and the offending value.
var (
	// ErrCorruptHistory is returned when the history file cannot be parsed into
	// valid records.
	ErrCorruptHistory = errors.New("corrupt incident history")

	// ErrEmptyButRequired is returned when the caller requires at least a
	// bootstrap record and the history has none.
	ErrEmptyButRequired = errors.New("incident history is empty")
)
