package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/chazz/pkg/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format selects how transformed text is written out.
type Format string

const (
	// FormatMarkdown writes the transformed text as-is.
	FormatMarkdown Format = "markdown"
	// FormatHTML renders the transformed Markdown to HTML.
	FormatHTML Format = "html"
)

// Formats lists the supported formats.
var Formats = []Format{FormatMarkdown, FormatHTML}

// goldmark.Markdown is safe to share; Convert keeps per-call state.
var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ParseFormat validates a format name. The empty string means markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownFormat, s)
	}
}

// Render converts transformed text into the output representation.
func (f Format) Render(text string) (string, error) {
	switch f {
	case FormatMarkdown, "":
		return text, nil
	case FormatHTML:
		var buf bytes.Buffer
		if err := htmlRenderer.Convert([]byte(text), &buf); err != nil {
			return "", fmt.Errorf("failed to render html: %w", err)
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownFormat, string(f))
	}
}

// OutputName maps an input document name to the name written to the sink.
// Markdown keeps the input name; HTML swaps the extension for .html.
func (f Format) OutputName(name string) string {
	if f != FormatHTML {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".html"
}
