// Package mdcode holds the Markdown side of the pipeline: splitting documents
// into lines, finding image references and converting to HTML.
package mdcode

import (
	"bytes"
	"strings"
)

// SplitLines splits a document into lines. CRLF line endings are normalized
// to LF, so tag lines match the same way on every platform.
func SplitLines(source []byte) []string {
	source = bytes.ReplaceAll(source, []byte("\r\n"), []byte("\n"))

	return strings.Split(string(source), "\n")
}

// JoinLines is the inverse of [SplitLines].
func JoinLines(lines []string) []byte {
	return []byte(strings.Join(lines, "\n"))
}
