package chart

import (
	"regexp"
	"strings"
)

// Block is the text captured between a start tag and its end tag.
type Block struct {
	Tag       string
	Lines     []string
	StartLine int // 1-based line of the start tag
	EndLine   int // 1-based line of the end tag
}

// Code returns the block lines joined with newlines.
func (b *Block) Code() string {
	return strings.Join(b.Lines, "\n")
}

// Walker is called for every closed block and returns the single line that
// replaces it in the output.
type Walker func(block *Block) (string, error)

type matcher struct {
	start *regexp.Regexp
	end   *regexp.Regexp
}

func newMatcher(tags []string) *matcher {
	quoted := make([]string, len(tags))
	for i, tag := range tags {
		quoted[i] = regexp.QuoteMeta(tag)
	}

	alt := strings.Join(quoted, "|")

	return &matcher{
		start: regexp.MustCompile(`^<(` + alt + `)>$`),
		end:   regexp.MustCompile(`^</(` + alt + `)>$`),
	}
}

func match(re *regexp.Regexp, line string) string {
	if m := re.FindStringSubmatch(line); m != nil {
		return m[1]
	}

	return ""
}

// walk runs the block scanner over lines. stray, when not nil, is told about
// end tags found outside any block; those lines pass through unchanged.
func (m *matcher) walk(lines []string, walker Walker, stray func(line int, tag string)) ([]string, error) {
	out := make([]string, 0, len(lines))

	var open *Block

	for i, line := range lines {
		lineNo := i + 1

		if tag := match(m.start, line); tag != "" {
			if open != nil {
				return nil, &BlockError{Tag: tag, Line: lineNo, Err: ErrNestedBlock}
			}

			open = &Block{Tag: tag, StartLine: lineNo}

			continue
		}

		if tag := match(m.end, line); tag != "" {
			if open == nil {
				if stray != nil {
					stray(lineNo, tag)
				}

				out = append(out, line)

				continue
			}

			if tag != open.Tag {
				return nil, &BlockError{Tag: tag, Line: lineNo, Err: ErrMismatchedTag}
			}

			open.EndLine = lineNo

			repl, err := walker(open)
			if err != nil {
				return nil, err
			}

			out = append(out, repl)
			open = nil

			continue
		}

		if open != nil {
			open.Lines = append(open.Lines, line)

			continue
		}

		out = append(out, line)
	}

	if open != nil {
		return nil, &BlockError{Tag: open.Tag, Line: open.StartLine, Err: ErrUnterminatedBlock}
	}

	return out, nil
}

// Walk scans lines for blocks delimited by <tag> and </tag> lines, where tag is
// one of tags, and replaces each block with the line returned by walker. Lines
// outside blocks are kept in order. Tag lines must match exactly, with nothing
// else on the line.
func Walk(lines []string, tags []string, walker Walker) ([]string, error) {
	return newMatcher(tags).walk(lines, walker, nil)
}

// Blocks returns the blocks found in lines without rendering them.
func Blocks(lines []string, tags []string) ([]*Block, error) {
	var blocks []*Block

	_, err := Walk(lines, tags, func(block *Block) (string, error) {
		blocks = append(blocks, block)

		return "", nil
	})
	if err != nil {
		return nil, err
	}

	return blocks, nil
}
