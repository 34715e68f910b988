package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ParseOptions(Graphviz(), nil)
	require.NoError(t, err)
	assert.Equal(t, Config{Format: "png", Engine: EngineExec}, cfg)

	cfg, err = ParseOptions(Ditaa(), map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, Config{Engine: EngineExec}, cfg)
}

func TestParseOptions(t *testing.T) {
	t.Parallel()

	cfg, err := ParseOptions(Graphviz(), map[string]string{
		"BINARY_PATH":       "/usr/local/bin/",
		"WRITE_IMGS_DIR":    "site/img/",
		"base-img-link-dir": "/img/",
		"arguments":         `-Gdpi=150 -Glabel="two words"`,
		"FORMAT":            "SVG",
		"TIMEOUT":           "30s",
		"BEST_EFFORT":       "true",
	})
	require.NoError(t, err)

	assert.Equal(t, Config{
		BinaryPath:     "/usr/local/bin/",
		WriteImgsDir:   "site/img/",
		BaseImgLinkDir: "/img/",
		Arguments:      []string{"-Gdpi=150", "-Glabel=two words"},
		Format:         "svg",
		Engine:         EngineExec,
		Timeout:        30 * time.Second,
		BestEffort:     true,
	}, cfg)
}

func TestParseOptionsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tool    Tool
		options map[string]string
		err     error
	}{
		{"unknown option", Graphviz(), map[string]string{"DOT": "/usr/bin/dot"}, ErrUnknownOption},
		{"bad timeout", Graphviz(), map[string]string{"TIMEOUT": "soon"}, ErrInvalidOption},
		{"negative timeout", Graphviz(), map[string]string{"TIMEOUT": "-1s"}, ErrInvalidOption},
		{"bad bool", PlantUML(), map[string]string{"BEST_EFFORT": "perhaps"}, ErrInvalidOption},
		{"unbalanced quotes", Ditaa(), map[string]string{"ARGUMENTS": `-E "open`}, ErrInvalidOption},
		{"empty graphviz format", Graphviz(), map[string]string{"FORMAT": ""}, ErrInvalidOption},
		{"format with path", Graphviz(), map[string]string{"FORMAT": "../png"}, ErrInvalidOption},
		{"ditaa pdf", Ditaa(), map[string]string{"FORMAT": "pdf"}, ErrInvalidOption},
		{"unknown engine", Graphviz(), map[string]string{"ENGINE": "remote"}, ErrInvalidOption},
		{"no builtin ditaa", Ditaa(), map[string]string{"ENGINE": "builtin"}, ErrInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseOptions(tt.tool, tt.options)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestUnknownOptionListsNames(t *testing.T) {
	t.Parallel()

	_, err := ParseOptions(Graphviz(), map[string]string{"DOT": "/usr/bin/dot"})
	require.ErrorIs(t, err, ErrUnknownOption)

	for _, name := range OptionNames {
		assert.Contains(t, err.Error(), name)
	}
}

func TestNormalizeOption(t *testing.T) {
	t.Parallel()

	assert.Equal(t, OptBinaryPath, NormalizeOption("binary-path"))
	assert.Equal(t, OptWriteImgsDir, NormalizeOption(" write_imgs_dir "))
	assert.Equal(t, OptBestEffort, NormalizeOption("BEST_EFFORT"))
}
