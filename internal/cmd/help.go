package cmd

import (
	_ "embed"
)

var (
	//go:embed help/root.md
	rootHelp string

	//go:embed help/render.md
	renderHelp string

	//go:embed help/scan.md
	scanHelp string

	//go:embed help/check.md
	checkHelp string
)
