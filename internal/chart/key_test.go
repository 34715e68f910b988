package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Key(0x46A5A9388A5BEFFE), KeyOf("123456789"))
	assert.Equal(t, "3702803685211506625", KeyOf("digraph{a->b}").String())
	assert.Equal(t, Key(0), KeyOf(""))
}

func TestKeyOfContentSensitive(t *testing.T) {
	t.Parallel()

	base := KeyOf("digraph{a->b}")

	assert.Equal(t, base, KeyOf("digraph{a->b}"))
	assert.NotEqual(t, base, KeyOf("digraph{a->c}"))
	assert.NotEqual(t, base, KeyOf("digraph{a->b} "))
	assert.NotEqual(t, base, KeyOf("digraph{a->b}\n"))
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	key := KeyOf("graph { x -- y }")

	parsed, err := ParseKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	_, err = ParseKey("deadbeef")
	assert.Error(t, err)
}
