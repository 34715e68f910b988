package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezerfernandes/mdchart/internal/chart"
)

const yamlConfig = `
defaults:
  WRITE_IMGS_DIR: build/img/
  BASE_IMG_LINK_DIR: img/
  TIMEOUT: 10s
tools:
  graphviz:
    FORMAT: svg
    BINARY_PATH: $MDCHART_TEST_BIN/
  ditaa:
    ARGUMENTS: -E --scale 2
    BEST_EFFORT: true
`

const tomlConfig = `
[defaults]
WRITE_IMGS_DIR = "out/"

[tools.plantuml]
ARGUMENTS = "-charset UTF-8"
BEST_EFFORT = true
`

func TestParseYAML(t *testing.T) {
	t.Setenv("MDCHART_TEST_BIN", "/opt/graphviz/bin")

	file, err := Parse([]byte(yamlConfig), YAML)
	require.NoError(t, err)

	cfg, err := file.Tool(chart.Graphviz(), nil)
	require.NoError(t, err)
	assert.Equal(t, chart.Config{
		BinaryPath:     "/opt/graphviz/bin/",
		WriteImgsDir:   "build/img/",
		BaseImgLinkDir: "img/",
		Format:         "svg",
		Engine:         chart.EngineExec,
		Timeout:        10 * time.Second,
	}, cfg)

	cfg, err = file.Tool(chart.Ditaa(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"-E", "--scale", "2"}, cfg.Arguments)
	assert.True(t, cfg.BestEffort)
	assert.Equal(t, "build/img/", cfg.WriteImgsDir)
}

func TestParseTOML(t *testing.T) {
	t.Parallel()

	file, err := Parse([]byte(tomlConfig), TOML)
	require.NoError(t, err)

	cfg, err := file.Tool(chart.PlantUML(), nil)
	require.NoError(t, err)
	assert.Equal(t, "out/", cfg.WriteImgsDir)
	assert.Equal(t, []string{"-charset", "UTF-8"}, cfg.Arguments)
	assert.True(t, cfg.BestEffort)
}

func TestOverridesWin(t *testing.T) {
	t.Parallel()

	file, err := Parse([]byte(tomlConfig), TOML)
	require.NoError(t, err)

	cfg, err := file.Tool(chart.PlantUML(), map[string]string{"write-imgs-dir": "site/", chart.OptBestEffort: "false"})
	require.NoError(t, err)
	assert.Equal(t, "site/", cfg.WriteImgsDir)
	assert.False(t, cfg.BestEffort)
}

func TestNilFile(t *testing.T) {
	t.Parallel()

	var file *File

	cfg, err := file.Tool(chart.Graphviz(), map[string]string{chart.OptFormat: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "pdf", cfg.Format)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("tools:\n  mermaid:\n    FORMAT: svg\n"), YAML)
	assert.ErrorIs(t, err, ErrUnknownTool)

	_, err = Parse([]byte("tools:\n  graphviz:\n    FORMAT: svg\n  Graphviz:\n    FORMAT: png\n"), YAML)
	assert.ErrorIs(t, err, ErrDuplicateTool)

	_, err = Parse([]byte("[tools.ditaa]\nFORMAT = \"svg\"\n[tools.DITAA]\nFORMAT = \"png\"\n"), TOML)
	assert.ErrorIs(t, err, ErrDuplicateTool)

	_, err = Parse([]byte("tools: ["), YAML)
	assert.Error(t, err)

	_, err = Parse(nil, Format("ini"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	file, err := Parse([]byte("defaults:\n  COLOR: red\n"), YAML)
	require.NoError(t, err)

	_, err = file.Tool(chart.Ditaa(), nil)
	assert.ErrorIs(t, err, chart.ErrUnknownOption)
}

func TestCommandSubstitutionRejected(t *testing.T) {
	t.Parallel()

	file, err := Parse([]byte("defaults:\n  BINARY_PATH: $(whoami)\n"), YAML)
	require.NoError(t, err)

	_, err = file.Options("graphviz", nil)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	path := filepath.Join(dir, "mdchart.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlConfig), 0o600))

	file, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, file.Tools, "plantuml")

	_, err = Load(filepath.Join(dir, "mdchart.json"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEnv(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	base := filepath.Join(dir, "base.env")
	local := filepath.Join(dir, "local.env")

	require.NoError(t, os.WriteFile(base, []byte("DOT_DIR=/usr/bin\nIMG_DIR=build/img\n"), 0o600))
	require.NoError(t, os.WriteFile(local, []byte("IMG_DIR=site/img\n"), 0o600))

	file, err := Parse([]byte("defaults:\n  BINARY_PATH: ${DOT_DIR}/\n  WRITE_IMGS_DIR: $IMG_DIR/\n"), YAML)
	require.NoError(t, err)
	require.NoError(t, file.LoadEnv(base, local))

	cfg, err := file.Tool(chart.Graphviz(), nil)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/", cfg.BinaryPath)
	assert.Equal(t, "site/img/", cfg.WriteImgsDir)

	assert.Error(t, file.LoadEnv(filepath.Join(dir, "missing.env")))
}
