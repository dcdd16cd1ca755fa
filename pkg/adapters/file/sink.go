package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/aretw0/chazz/pkg/domain"
	"github.com/zeebo/blake3"
)

// Sink implements ports.ReadableSink using the local filesystem.
// Each output is stored as BasePath/<name>.
type Sink struct {
	BasePath      string
	SkipUnchanged bool
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithSkipUnchanged makes Write return domain.ErrUnchanged instead of rewriting identical content.
func WithSkipUnchanged(skip bool) SinkOption {
	return func(s *Sink) {
		s.SkipUnchanged = skip
	}
}

// NewSink creates a new Sink with the given base path.
// If basePath is empty, it defaults to "out".
func NewSink(basePath string, opts ...SinkOption) *Sink {
	if basePath == "" {
		basePath = "out"
	}
	s := &Sink{BasePath: basePath}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write persists text atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Sink) Write(ctx context.Context, name, text string) error {
	if err := validName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure output directory: %w", err)
	}

	destPath := filepath.Join(s.BasePath, name)
	data := []byte(text)

	if s.SkipUnchanged && sameDigest(destPath, data) {
		return domain.ErrUnchanged
	}

	// Same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, ".tmp-"+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // No-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing output for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to output: %w", err)
	}

	return nil
}

// Read returns the stored output for name.
func (s *Sink) Read(ctx context.Context, name string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(s.BasePath, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, name)
		}
		return "", fmt.Errorf("failed to read output: %w", err)
	}
	return string(data), nil
}

// List returns all stored output names.
func (s *Sink) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list outputs: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if !entry.IsDir() && !isHidden(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func sameDigest(path string, data []byte) bool {
	existing, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	a, b := blake3.Sum256(existing), blake3.Sum256(data)
	return bytes.Equal(a[:], b[:])
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("output name cannot be empty")
	}
	if filepath.Base(name) != name || name == "." || name == ".." {
		return fmt.Errorf("invalid output name %q", name)
	}
	return nil
}
