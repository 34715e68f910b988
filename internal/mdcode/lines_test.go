package mdcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "<dot>", "b", ""}, SplitLines([]byte("a\r\n<dot>\nb\n")))
	assert.Equal(t, []string{""}, SplitLines(nil))
}

func TestJoinLinesRoundTrip(t *testing.T) {
	t.Parallel()

	src := "# Title\n\ntext\n"
	assert.Equal(t, src, string(JoinLines(SplitLines([]byte(src)))))
}
