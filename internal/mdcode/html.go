package mdcode

import (
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var converter = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ToHTML converts a Markdown document to HTML.
func ToHTML(source []byte, w io.Writer) error {
	return converter.Convert(source, w)
}
