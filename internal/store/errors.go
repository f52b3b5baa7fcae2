package store

import "errors"

var (
	// ErrPersistence wraps I/O failures while reading or writing a document
	// file. The document in memory is unaffected.
	ErrPersistence = errors.New("persistence failure")

	// ErrCorrupt wraps parse and validation failures on loaded data. A file
	// that fails validation is rejected wholesale rather than partially
	// loaded.
	ErrCorrupt = errors.New("corrupt document")
)
