package chart

import (
	"errors"
	"fmt"
)

var (
	// ErrNestedBlock is returned when a start tag appears inside an open block.
	ErrNestedBlock = errors.New("start tag inside an open block")
	// ErrUnterminatedBlock is returned when the input ends with a block still open.
	ErrUnterminatedBlock = errors.New("unterminated block")
	// ErrMismatchedTag is returned when a block is closed by another tag than the one that opened it.
	ErrMismatchedTag = errors.New("closing tag does not match opening tag")
	// ErrUnknownTag is returned when a tag is not handled by the tool.
	ErrUnknownTag = errors.New("unknown tag")
	// ErrNoOutput is returned when the external tool exits without writing its image.
	ErrNoOutput = errors.New("tool wrote no output file")
	// ErrEmptyOutput is returned when the external tool produced an empty image.
	ErrEmptyOutput = errors.New("tool produced empty output")
	// ErrUnknownOption is returned by [ParseOptions] for unrecognized option names.
	ErrUnknownOption = errors.New("unknown option")
	// ErrInvalidOption is returned by [ParseOptions] for malformed option values.
	ErrInvalidOption = errors.New("invalid option")
)

// BlockError reports a failure tied to a block of the document.
type BlockError struct {
	Tag  string
	Line int // 1-based line of the tag that triggered the error
	Err  error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("line %d: <%s>: %v", e.Line, e.Tag, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}
