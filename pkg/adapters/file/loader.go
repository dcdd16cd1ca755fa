package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/chazz/pkg/domain"
	"github.com/fsnotify/fsnotify"
	"github.com/tidwall/jsonc"
)

// Loader implements ports.DocumentLoader over the local filesystem.
// Path is either a single document or a directory of documents (not recursive).
type Loader struct {
	Path   string
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger sets the logger used for skipped entries and watch events.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader rooted at path.
func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{
		Path:   path,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List returns the base names of the documents under Path.
// Hidden files and sub-directories are ignored.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	info, err := os.Stat(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}

	if !info.IsDir() {
		return []string{filepath.Base(l.Path)}, nil
	}

	entries, err := os.ReadDir(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to list input directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || isHidden(name) {
			l.logger.Debug("Skipping entry", "path", filepath.Join(l.Path, name))
			continue
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", domain.ErrNoDocuments, l.Path)
	}
	sort.Strings(names)
	return names, nil
}

// Load reads and decodes one document. JSON with comments and trailing commas is accepted.
func (l *Loader) Load(ctx context.Context, name string) (*domain.Document, error) {
	path, err := l.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, name)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	value, err := domain.DecodeValue(jsonc.ToJSON(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidDocument, name, err)
	}

	return &domain.Document{Name: name, Value: value}, nil
}

// Watch reports the names of documents created or modified under Path.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	info, err := os.Stat(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}

	dir, only := l.Path, ""
	if !info.IsDir() {
		dir, only = filepath.Dir(l.Path), filepath.Base(l.Path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				name := filepath.Base(event.Name)
				if isHidden(name) || (only != "" && name != only) {
					continue
				}
				if fi, err := os.Stat(event.Name); err != nil || fi.IsDir() {
					continue
				}
				l.logger.Debug("File event detected", "path", event.Name, "op", event.Op.String())
				select {
				case out <- name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.logger.Error("File watcher error", "err", err)
			}
		}
	}()

	return out, nil
}

func (l *Loader) resolve(name string) (string, error) {
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return "", fmt.Errorf("%w: invalid name %q", domain.ErrDocumentNotFound, name)
	}

	info, err := os.Stat(l.Path)
	if err != nil {
		return "", fmt.Errorf("failed to stat input: %w", err)
	}
	if !info.IsDir() {
		if name != filepath.Base(l.Path) {
			return "", fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, name)
		}
		return l.Path, nil
	}
	return filepath.Join(l.Path, name), nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
