package chazz

import (
	_ "embed"
	"strings"

	"github.com/aretw0/chazz/pkg/adapters/file"
	"github.com/aretw0/chazz/pkg/convert"
	"github.com/aretw0/chazz/pkg/markup"
)

//go:embed VERSION
var rawVersion string

// Version is the release of this module.
var Version = strings.TrimSpace(rawVersion)

// Transform rewrites every recognised tag in text using the default rule table.
func Transform(text string) string {
	return markup.Transform(text)
}

// New creates a Converter reading JSON documents from input (a file or a directory),
// converting the field key and writing the results under the output directory.
func New(input, key, output string, opts ...convert.Option) *convert.Converter {
	return convert.New(file.NewLoader(input), file.NewSink(output), key, opts...)
}
