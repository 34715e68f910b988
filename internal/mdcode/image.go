package mdcode

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Image is an image reference found in a Markdown document.
type Image struct {
	Alt         string
	Destination string
	Line        int
}

// Images parses a Markdown document and returns its image references in
// document order.
func Images(source []byte) ([]*Image, error) {
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	var images []*Image

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || node.Kind() != ast.KindImage {
			return ast.WalkContinue, nil
		}

		img, ok := node.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}

		images = append(images, &Image{
			Alt:         altText(img, source),
			Destination: string(img.Destination),
			Line:        lineOf(img, source),
		})

		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	return images, nil
}

func altText(img *ast.Image, source []byte) string {
	var buff bytes.Buffer

	for child := img.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			buff.Write(t.Segment.Value(source))
		}
	}

	return buff.String()
}

// lineOf returns the line of the block holding an inline node.
func lineOf(node ast.Node, source []byte) int {
	for n := node; n != nil; n = n.Parent() {
		if n.Type() != ast.TypeBlock {
			continue
		}

		if lines := n.Lines(); lines.Len() > 0 {
			return lineAt(source, lines.At(0).Start)
		}
	}

	return 0
}

func lineAt(source []byte, offset int) int {
	line := 1

	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}

	return line
}
