package cmd

import (
	"fmt"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdchart/internal/mdcode"
)

func scanCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "scan [flags] [path...]",
		Aliases: []string{"s", "ls"},
		Short:   "List diagram blocks without rendering them",
		Long:    scanHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := opts.renderers(cmd)
			if err != nil {
				return err
			}

			docs, err := opts.documents(args)
			if err != nil {
				return err
			}

			tbl := table.New("File", "Lines", "Tag", "Key", "Image", "Cached").WithWriter(cmd.OutOrStdout())

			for _, doc := range docs {
				src, err := readDocument(cmd, doc)
				if err != nil {
					return err
				}

				blocks, err := set.Blocks(mdcode.SplitLines(src))
				if err != nil {
					return fmt.Errorf("%s: %w", doc.path, err)
				}

				for _, block := range blocks {
					r := set.For(block.Tag)
					img := r.Image(block)

					cached, err := r.Cached(block)
					if err != nil {
						return err
					}

					tbl.AddRow(doc.path, fmt.Sprintf("L%d-%d", block.StartLine, block.EndLine), block.Tag, img.Key, img.Path, yesNo(cached))
				}
			}

			tbl.Print()

			return nil
		},

		DisableAutoGenTag: true,
	}

	includeFlags(cmd, opts)

	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}
