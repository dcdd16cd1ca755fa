package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/chazz/internal/presentation/tui"
	"github.com/aretw0/chazz/pkg/convert"
	"github.com/aretw0/chazz/pkg/domain"
	"github.com/aretw0/chazz/pkg/markup"
	"github.com/tidwall/jsonc"
	"golang.org/x/term"
)

// PreviewOptions configures RunPreview.
type PreviewOptions struct {
	Engine *markup.Engine
	Key    string // when set, input is a JSON document and only this field is previewed
	Styled bool   // render with glamour
	Width  int
}

// RunPreview transforms the text read from in and writes it to out.
func RunPreview(in io.Reader, out io.Writer, opts PreviewOptions) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	engine := opts.Engine
	if engine == nil {
		engine = markup.NewEngine()
	}

	text := string(data)
	if opts.Key != "" {
		value, err := domain.DecodeValue(jsonc.ToJSON(data))
		if err != nil {
			return fmt.Errorf("input is not a JSON document: %w", err)
		}
		field, err := convert.SelectField(value, opts.Key)
		if err != nil {
			return err
		}
		switch f := field.(type) {
		case convert.Missing:
			return fmt.Errorf("nothing to preview: %s", f.Reason)
		case convert.Text:
			text = string(f)
		}
	}

	result := engine.Transform(text)

	if opts.Styled {
		render, err := tui.NewRenderer(opts.Width)
		if err != nil {
			return err
		}
		styled, err := render(result)
		if err != nil {
			return fmt.Errorf("failed to render preview: %w", err)
		}
		result = styled
	}

	_, err = io.WriteString(out, result)
	return err
}

// TerminalWidth reports whether f is a terminal and, if so, its width.
func TerminalWidth(f *os.File) (int, bool) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0, true
	}
	return width, true
}
