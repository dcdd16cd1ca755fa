package domain

import (
	"errors"
	"fmt"
)

// ErrDocumentNotFound is returned when a loader or sink has no document under the requested name.
var ErrDocumentNotFound = errors.New("document not found")

// ErrNoDocuments is returned when an input location yields no documents at all.
var ErrNoDocuments = errors.New("no documents found")

// ErrInvalidDocument is returned when a document cannot be decoded.
var ErrInvalidDocument = errors.New("invalid document")

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// ErrUnchanged is returned by sinks that skip rewriting identical content.
var ErrUnchanged = errors.New("output unchanged")

// DocumentError records the failure of one document.
type DocumentError struct {
	Name string // Document name
	Op   string // Pipeline step that failed
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
