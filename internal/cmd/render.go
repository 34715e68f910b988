package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ezerfernandes/mdchart/internal/chart"
	"github.com/ezerfernandes/mdchart/internal/mdcode"
)

func renderCmd(opts *options) *cobra.Command {
	var (
		outDir string
		html   bool
		jobs   int
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "render [flags] [path...]",
		Aliases: []string{"r"},
		Short:   "Replace diagram blocks with image references",
		Long:    renderHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := opts.renderers(cmd)
			if err != nil {
				return err
			}

			docs, err := opts.documents(args)
			if err != nil {
				return err
			}

			if len(docs) > 1 && len(outDir) == 0 {
				return errOutDirRequired
			}

			group, ctx := errgroup.WithContext(cmd.Context())
			group.SetLimit(max(jobs, 1))

			for _, doc := range docs {
				group.Go(func() error {
					if err := renderDocument(ctx, cmd, set, doc, outDir, html); err != nil {
						return fmt.Errorf("%s: %w", doc.path, err)
					}

					return nil
				})
			}

			return group.Wait()
		},

		DisableAutoGenTag: true,
	}

	includeFlags(cmd, opts)

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "write results below this directory instead of standard output")
	cmd.Flags().BoolVar(&html, "html", false, "convert the result to HTML")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "documents rendered in parallel")

	return cmd
}

func renderDocument(ctx context.Context, cmd *cobra.Command, set *chart.Set, doc document, outDir string, html bool) error {
	src, err := readDocument(cmd, doc)
	if err != nil {
		return err
	}

	lines, err := set.Process(ctx, mdcode.SplitLines(src))
	if err != nil {
		return err
	}

	result := mdcode.JoinLines(lines)

	if html {
		var buf bytes.Buffer
		if err := mdcode.ToHTML(result, &buf); err != nil {
			return err
		}

		result = buf.Bytes()
	}

	if len(outDir) == 0 {
		_, err := cmd.OutOrStdout().Write(result)

		return err
	}

	return writeResult(outDir, outputName(doc.rel, html), result)
}

func outputName(rel string, html bool) string {
	if !html {
		return rel
	}

	return strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
}

func writeResult(outDir, rel string, data []byte) error {
	target := filepath.Join(outDir, rel)

	if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return err
	}

	return os.WriteFile(target, data, fileMode)
}

var errOutDirRequired = errors.New("--out-dir is required with several documents")
