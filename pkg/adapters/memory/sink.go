package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/chazz/pkg/domain"
)

// Sink implements ports.ReadableSink in memory.
// Safe for concurrent use.
type Sink struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewSink creates a new in-memory sink.
func NewSink() *Sink {
	return &Sink{
		data: make(map[string]string),
	}
}

// Write stores text under name.
func (s *Sink) Write(ctx context.Context, name, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = text
	return nil
}

// Read returns the text stored under name.
func (s *Sink) Read(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.data[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, name)
	}
	return text, nil
}

// List returns stored names in sorted order.
func (s *Sink) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for k := range s.data {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

// Snapshot returns a copy of everything written so far.
func (s *Sink) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}
