package chart

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const fileMode = 0o600

// Mode tells how a tool receives its source and hands back the image.
type Mode int

const (
	// ModePipe feeds the source on standard input and reads the image from standard output.
	ModePipe Mode = iota
	// ModeTempFile writes the source to a temporary file and reads the image the tool writes next to it.
	ModeTempFile
)

func (m Mode) String() string {
	if m == ModeTempFile {
		return "temp file"
	}

	return "stdin/stdout"
}

// Tool is an external diagram renderer and the tags it handles.
type Tool interface {
	Name() string
	// Label is used in the alt text of image references.
	Label() string
	Tags() []string
	Mode() Mode
	Defaults() Config
	// Extension returns the image file extension, without the dot.
	Extension(cfg Config) string
	Validate(cfg Config) error
	// Render turns code into image bytes.
	Render(ctx context.Context, run Runner, tag, code string, cfg Config) ([]byte, error)
}

type builtinRenderer interface {
	renderBuiltin(ctx context.Context, tag, code string, cfg Config) ([]byte, error)
}

var (
	graphvizTool Tool = graphviz{}
	ditaaTool    Tool = ditaa{}
	plantumlTool Tool = plantuml{}
)

// Graphviz renders <dot>, <neato>, <lefty> and <dotty> blocks.
func Graphviz() Tool { return graphvizTool }

// Ditaa renders <ditaa> blocks.
func Ditaa() Tool { return ditaaTool }

// PlantUML renders <plantuml> blocks.
func PlantUML() Tool { return plantumlTool }

// Tools returns every known tool.
func Tools() []Tool {
	return []Tool{graphvizTool, ditaaTool, plantumlTool}
}

// Lookup returns the tool with the given name.
func Lookup(name string) (Tool, bool) {
	for _, tool := range Tools() {
		if strings.EqualFold(tool.Name(), name) {
			return tool, true
		}
	}

	return nil, false
}

type graphviz struct{}

func (graphviz) Name() string   { return "graphviz" }
func (graphviz) Label() string  { return "Graphviz" }
func (graphviz) Tags() []string { return []string{"dot", "neato", "lefty", "dotty"} }
func (graphviz) Mode() Mode     { return ModePipe }

func (graphviz) Defaults() Config {
	return Config{Format: "png", Engine: EngineExec}
}

func (graphviz) Extension(cfg Config) string {
	return cfg.Format
}

func (g graphviz) Validate(cfg Config) error {
	if len(cfg.Format) == 0 {
		return fmt.Errorf("%s: %w %s: empty", g.Name(), ErrInvalidOption, OptFormat)
	}

	return nil
}

// Render pipes code into BinaryPath+tag, which writes the image on stdout.
func (g graphviz) Render(ctx context.Context, run Runner, tag, code string, cfg Config) ([]byte, error) {
	if cfg.Engine == EngineBuiltin {
		return g.renderBuiltin(ctx, tag, code, cfg)
	}

	args := append([]string{"-T" + cfg.Format}, cfg.Arguments...)

	return run.Run(ctx, Command{Path: cfg.BinaryPath + tag, Args: args, Stdin: []byte(code)})
}

type ditaa struct{}

func (ditaa) Name() string   { return "ditaa" }
func (ditaa) Label() string  { return "Ditaa" }
func (ditaa) Tags() []string { return []string{"ditaa"} }
func (ditaa) Mode() Mode     { return ModeTempFile }

func (ditaa) Defaults() Config {
	return Config{Engine: EngineExec}
}

func (ditaa) Extension(cfg Config) string {
	if cfg.Format == "svg" {
		return "svg"
	}

	return "png"
}

func (d ditaa) Validate(cfg Config) error {
	switch cfg.Format {
	case "", "png", "svg":
		return nil
	default:
		return fmt.Errorf("%s: %w %s: %q, want png or svg", d.Name(), ErrInvalidOption, OptFormat, cfg.Format)
	}
}

// Render runs "ditaa ARGUMENTS... input output" inside a temporary directory,
// adding --svg for svg output.
func (d ditaa) Render(ctx context.Context, run Runner, tag, code string, cfg Config) ([]byte, error) {
	dir, err := os.MkdirTemp("", "mdchart-ditaa-")
	if err != nil {
		return nil, err
	}

	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "diagram.txt")
	output := filepath.Join(dir, "diagram."+d.Extension(cfg))

	if err := os.WriteFile(input, []byte(code), fileMode); err != nil {
		return nil, err
	}

	args := slices.Clone(cfg.Arguments)
	if cfg.Format == "svg" {
		args = append(args, "--svg")
	}

	args = append(args, input, output)

	if _, err := run.Run(ctx, Command{Path: filepath.Join(cfg.BinaryPath, tag), Args: args, Dir: dir}); err != nil {
		return nil, err
	}

	return readOutput(output)
}

type plantuml struct{}

func (plantuml) Name() string   { return "plantuml" }
func (plantuml) Label() string  { return "PlantUML" }
func (plantuml) Tags() []string { return []string{"plantuml"} }
func (plantuml) Mode() Mode     { return ModeTempFile }

func (plantuml) Defaults() Config {
	return Config{Engine: EngineExec}
}

func (plantuml) Extension(cfg Config) string {
	if len(cfg.Format) != 0 {
		return cfg.Format
	}

	return "png"
}

func (plantuml) Validate(Config) error {
	return nil
}

// Render wraps code in @startuml/@enduml, writes it to a temporary .puml file
// and runs "plantuml ARGUMENTS... input". PlantUML writes the image next to
// the input, replacing its extension.
func (p plantuml) Render(ctx context.Context, run Runner, tag, code string, cfg Config) ([]byte, error) {
	dir, err := os.MkdirTemp("", "mdchart-plantuml-")
	if err != nil {
		return nil, err
	}

	defer os.RemoveAll(dir)

	ext := p.Extension(cfg)
	input := filepath.Join(dir, "diagram.puml")
	output := filepath.Join(dir, "diagram."+ext)

	if err := os.WriteFile(input, []byte(WrapPlantUML(code)), fileMode); err != nil {
		return nil, err
	}

	args := slices.Clone(cfg.Arguments)
	if len(cfg.Format) != 0 {
		args = append(args, "-t"+cfg.Format)
	}

	args = append(args, input)

	if _, err := run.Run(ctx, Command{Path: filepath.Join(cfg.BinaryPath, tag), Args: args, Dir: dir}); err != nil {
		return nil, err
	}

	return readOutput(output)
}

// WrapPlantUML returns code enclosed in the @startuml and @enduml markers.
func WrapPlantUML(code string) string {
	return "@startuml\n" + code + "\n@enduml\n"
}

func readOutput(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoOutput
	}

	return data, err
}
