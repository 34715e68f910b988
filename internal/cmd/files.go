package cmd

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
)

const stdinPath = "-"

type document struct {
	path string // stdinPath for standard input
	rel  string // name under --out-dir
}

func includeFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringSliceVar(&opts.include, "include", []string{"**.md"}, "glob of files to process inside directories")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "glob of files to skip inside directories")
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}

		globs = append(globs, g)
	}

	return globs, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}

	return false
}

// documents expands the path arguments into the documents to process.
func (opts *options) documents(args []string) ([]document, error) {
	if len(args) == 0 {
		return []document{{path: stdinPath, rel: "stdin.md"}}, nil
	}

	include, err := compileGlobs(opts.include)
	if err != nil {
		return nil, err
	}

	exclude, err := compileGlobs(opts.exclude)
	if err != nil {
		return nil, err
	}

	var docs []document

	for _, arg := range args {
		if arg == stdinPath {
			docs = append(docs, document{path: stdinPath, rel: "stdin.md"})

			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			docs = append(docs, document{path: arg, rel: filepath.Base(arg)})

			continue
		}

		err = filepath.WalkDir(arg, func(path string, entry fs.DirEntry, err error) error {
			if err != nil || entry.IsDir() {
				return err
			}

			rel, err := filepath.Rel(arg, path)
			if err != nil {
				return err
			}

			name := filepath.ToSlash(rel)
			if matchAny(include, name) && !matchAny(exclude, name) {
				docs = append(docs, document{path: path, rel: rel})
			}

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(docs) == 0 {
		return nil, errNoDocuments
	}

	return docs, nil
}

func readDocument(cmd *cobra.Command, doc document) ([]byte, error) {
	if doc.path == stdinPath {
		return io.ReadAll(cmd.InOrStdin())
	}

	return os.ReadFile(doc.path)
}

var errNoDocuments = errors.New("no Markdown documents found")
