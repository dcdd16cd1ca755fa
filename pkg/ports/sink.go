package ports

import "context"

// OutputSink persists transformed text.
type OutputSink interface {
	// Write stores text under name, replacing any previous content.
	Write(ctx context.Context, name, text string) error
}

// ReadableSink is an OutputSink that can read back what it stored.
type ReadableSink interface {
	OutputSink

	// Read returns the text stored under name.
	// Returns domain.ErrDocumentNotFound if nothing was written under name.
	Read(ctx context.Context, name string) (string, error)

	// List returns the names of all stored outputs.
	List(ctx context.Context) ([]string, error)
}
