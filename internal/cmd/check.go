package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdchart/internal/mdcode"
)

func checkCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "check [flags] [path...]",
		Aliases: []string{"c"},
		Short:   "Verify that referenced images exist",
		Long:    checkHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := opts.renderers(cmd)
			if err != nil {
				return err
			}

			docs, err := opts.documents(args)
			if err != nil {
				return err
			}

			tbl := table.New("File", "Line", "Alt", "Image", "Problem").WithWriter(cmd.OutOrStdout())

			var checked, failures int

			for _, doc := range docs {
				src, err := readDocument(cmd, doc)
				if err != nil {
					return err
				}

				images, err := mdcode.Images(src)
				if err != nil {
					return fmt.Errorf("%s: %w", doc.path, err)
				}

				for _, img := range images {
					for _, r := range set.Renderers() {
						path, ok := r.Resolve(img.Destination)
						if !ok {
							continue
						}

						checked++

						if problem := imageProblem(opts, path); len(problem) != 0 {
							failures++

							tbl.AddRow(doc.path, img.Line, img.Alt, path, problem)
						}

						break
					}
				}
			}

			if failures > 0 {
				tbl.Print()

				return fmt.Errorf("%d of %d image(s) missing or empty", failures, checked)
			}

			opts.logger.Info("images present", "count", checked)

			return nil
		},

		DisableAutoGenTag: true,
	}

	includeFlags(cmd, opts)

	return cmd
}

func imageProblem(opts *options, path string) string {
	size, err := opts.imageStore().Size(path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "missing"
	case err != nil:
		return err.Error()
	case size == 0:
		return "empty"
	default:
		return ""
	}
}
