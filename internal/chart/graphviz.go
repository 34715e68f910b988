package chart

import (
	"bytes"
	"context"
	"fmt"

	gv "github.com/goccy/go-graphviz"
)

// lefty and dotty are interactive front ends of the dot layout.
var builtinLayouts = map[string]gv.Layout{
	"dot":   gv.DOT,
	"neato": gv.NEATO,
	"lefty": gv.DOT,
	"dotty": gv.DOT,
}

// renderBuiltin renders code with the Graphviz library compiled into the
// binary, so no dot executable is needed.
func (graphviz) renderBuiltin(ctx context.Context, tag, code string, cfg Config) ([]byte, error) {
	layout, ok := builtinLayouts[tag]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTag, tag)
	}

	g, err := gv.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer g.Close()

	g.SetLayout(layout)

	graph, err := gv.ParseBytes([]byte(code))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := g.Render(ctx, graph, gv.Format(cfg.Format), &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	return buf.Bytes(), nil
}
