package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/chazz/pkg/domain"
)

// Loader implements ports.DocumentLoader using an in-memory map.
// Safe for concurrent use.
type Loader struct {
	docs map[string]any
	mu   sync.RWMutex
}

// NewLoader creates a loader over already decoded document values.
func NewLoader(docs map[string]any) *Loader {
	l := &Loader{docs: make(map[string]any, len(docs))}
	for k, v := range docs {
		l.docs[k] = v
	}
	return l
}

// NewFromJSON creates a loader from raw JSON documents.
// This handles decoding automatically, improving DX for tests.
func NewFromJSON(raw map[string]string) (*Loader, error) {
	docs := make(map[string]any, len(raw))
	for name, data := range raw {
		v, err := domain.DecodeValue([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidDocument, name, err)
		}
		docs[name] = v
	}
	return &Loader{docs: docs}, nil
}

// Put adds or replaces a document.
func (l *Loader) Put(name string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.docs[name] = value
}

// List returns all document names in sorted order.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.docs) == 0 {
		return nil, domain.ErrNoDocuments
	}
	names := make([]string, 0, len(l.docs))
	for k := range l.docs {
		names = append(names, k)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}

// Load returns the document stored under name.
func (l *Loader) Load(ctx context.Context, name string) (*domain.Document, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	v, ok := l.docs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, name)
	}
	return &domain.Document{Name: name, Value: v}, nil
}
