// Package chart replaces tagged diagram blocks in Markdown lines with image
// references to files rendered by an external tool and cached by content key.
package chart

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ezerfernandes/mdchart/internal/imgstore"
)

// Store keeps rendered images by file name.
type Store interface {
	Exists(name string) (bool, error)
	Write(name string, data []byte) error
}

// Option customizes a [Renderer].
type Option func(r *Renderer)

// WithStore sets the image store. The default writes to the local filesystem.
func WithStore(store Store) Option {
	return func(r *Renderer) { r.store = store }
}

// WithRunner sets how external tools are started. The default is [ExecRunner].
func WithRunner(runner Runner) Option {
	return func(r *Renderer) { r.runner = runner }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// Renderer rewrites the blocks of one tool.
type Renderer struct {
	tool   Tool
	cfg    Config
	store  Store
	runner Runner
	logger *log.Logger
	match  *matcher
}

// New returns a renderer for tool. The configuration is validated once here
// and never changes afterwards.
func New(tool Tool, cfg Config, opts ...Option) (*Renderer, error) {
	if err := cfg.Validate(tool); err != nil {
		return nil, err
	}

	cfg.Arguments = slices.Clone(cfg.Arguments)

	r := &Renderer{
		tool:  tool,
		cfg:   cfg,
		match: newMatcher(tool.Tags()),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.store == nil {
		r.store = imgstore.OS()
	}

	if r.runner == nil {
		r.runner = ExecRunner{}
	}

	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}

	r.logger = r.logger.With("tool", tool.Name())

	return r, nil
}

// Process scans lines and replaces every block of the renderer's tool with an
// image reference. A malformed document (nested, mismatched or unterminated
// block) yields an error and no output.
func (r *Renderer) Process(ctx context.Context, lines []string) ([]string, error) {
	return r.match.walk(lines, func(block *Block) (string, error) {
		return r.render(ctx, block)
	}, r.stray)
}

// Render renders one block of lines opened by tag and returns the image
// reference that replaces it.
func (r *Renderer) Render(ctx context.Context, tag string, lines []string) (string, error) {
	if !slices.Contains(r.tool.Tags(), tag) {
		return "", fmt.Errorf("%s: %w %q", r.tool.Name(), ErrUnknownTag, tag)
	}

	return r.render(ctx, &Block{Tag: tag, Lines: lines})
}

// Image locates the image of a block.
type Image struct {
	Key  Key
	Path string // file the image is written to
	Link string // destination used in the reference
}

// Reference returns the Markdown image reference for the image.
func (r *Renderer) Reference(img Image) string {
	return fmt.Sprintf("![%s chart %s](%s)", r.tool.Label(), img.Key, img.Link)
}

// Image returns where the image of block is stored and linked.
func (r *Renderer) Image(block *Block) Image {
	key := KeyOf(block.Code())
	name := key.String() + "." + r.tool.Extension(r.cfg)

	return Image{
		Key:  key,
		Path: r.cfg.WriteImgsDir + name,
		Link: r.cfg.BaseImgLinkDir + name,
	}
}

// Cached reports whether the image of block is already in the store.
func (r *Renderer) Cached(block *Block) (bool, error) {
	return r.store.Exists(r.Image(block).Path)
}

// Resolve maps an image destination produced by the renderer back to the
// file it points to. It reports false for destinations the renderer could not
// have produced.
func (r *Renderer) Resolve(link string) (string, bool) {
	name, ok := strings.CutPrefix(link, r.cfg.BaseImgLinkDir)
	if !ok {
		return "", false
	}

	stem, ok := strings.CutSuffix(name, "."+r.tool.Extension(r.cfg))
	if !ok {
		return "", false
	}

	if _, err := ParseKey(stem); err != nil {
		return "", false
	}

	return r.cfg.WriteImgsDir + name, true
}

func (r *Renderer) render(ctx context.Context, block *Block) (string, error) {
	img := r.Image(block)
	ref := r.Reference(img)
	logger := r.logger.With("tag", block.Tag, "key", img.Key.String())

	cached, err := r.store.Exists(img.Path)
	if err != nil {
		return "", err
	}

	if cached {
		logger.Debug("image cached", "file", img.Path)

		return ref, nil
	}

	data, err := r.run(ctx, block)
	if err == nil && len(data) == 0 {
		err = ErrEmptyOutput
	}

	if err != nil {
		err = &BlockError{Tag: block.Tag, Line: block.StartLine, Err: err}
		if r.cfg.BestEffort {
			logger.Warn("render failed", "err", err)

			return ref, nil
		}

		return "", err
	}

	if err := r.store.Write(img.Path, data); err != nil {
		return "", fmt.Errorf("write image %s: %w", img.Path, err)
	}

	logger.Info("image rendered", "file", img.Path, "bytes", len(data))

	return ref, nil
}

func (r *Renderer) run(ctx context.Context, block *Block) ([]byte, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	r.logger.Debug("running tool", "tag", block.Tag, "line", block.StartLine)

	return r.tool.Render(ctx, r.runner, block.Tag, block.Code(), r.cfg)
}

func (r *Renderer) stray(line int, tag string) {
	r.logger.Warn("end tag outside a block", "tag", tag, "line", line)
}

// Set renders the blocks of several tools in a single pass over a document.
type Set struct {
	renderers []*Renderer
	byTag     map[string]*Renderer
	match     *matcher
}

// NewSet groups renderers. Two renderers may not claim the same tag.
func NewSet(renderers ...*Renderer) (*Set, error) {
	s := &Set{renderers: renderers, byTag: make(map[string]*Renderer)}

	var tags []string

	for _, r := range renderers {
		for _, tag := range r.tool.Tags() {
			if other, dup := s.byTag[tag]; dup {
				return nil, fmt.Errorf("tag %q claimed by %s and %s", tag, other.tool.Name(), r.tool.Name())
			}

			s.byTag[tag] = r
			tags = append(tags, tag)
		}
	}

	s.match = newMatcher(tags)

	return s, nil
}

// Renderers returns the grouped renderers.
func (s *Set) Renderers() []*Renderer { return s.renderers }

// For returns the renderer handling tag, or nil.
func (s *Set) For(tag string) *Renderer { return s.byTag[tag] }

// Process is [Renderer.Process] over the tags of every renderer in the set.
func (s *Set) Process(ctx context.Context, lines []string) ([]string, error) {
	return s.match.walk(lines, func(block *Block) (string, error) {
		return s.byTag[block.Tag].render(ctx, block)
	}, func(line int, tag string) {
		s.byTag[tag].stray(line, tag)
	})
}

// Blocks returns the blocks of every renderer in the set without rendering them.
func (s *Set) Blocks(lines []string) ([]*Block, error) {
	var blocks []*Block

	_, err := s.match.walk(lines, func(block *Block) (string, error) {
		blocks = append(blocks, block)

		return "", nil
	}, nil)
	if err != nil {
		return nil, err
	}

	return blocks, nil
}
