package ports

import (
	"context"

	"github.com/aretw0/chazz/pkg/domain"
)

// DocumentLoader defines how the converter discovers and decodes input documents.
type DocumentLoader interface {
	// List returns the names of all documents available, in a deterministic order.
	// It returns domain.ErrNoDocuments when the source is empty.
	List(ctx context.Context) ([]string, error)

	// Load decodes a single document by name.
	// Returns domain.ErrDocumentNotFound if the name is unknown.
	Load(ctx context.Context, name string) (*domain.Document, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel that receives the name of each changed document.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
