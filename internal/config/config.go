// Package config loads per-tool options from a YAML or TOML file.
//
// A file has a defaults section applied to every tool and one section per
// tool, both keyed by option name:
//
//	defaults:
//	  WRITE_IMGS_DIR: build/img/
//	  BASE_IMG_LINK_DIR: img/
//	tools:
//	  graphviz:
//	    FORMAT: svg
//	  ditaa:
//	    ARGUMENTS: -E --scale 2
//
// Values may reference environment variables ($HOME, ${DOT_DIR}); they are
// expanded when the options of a tool are built and never passed through a
// shell. Variables read from dotenv files with [File.LoadEnv] take precedence
// over the process environment.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/shell"

	"github.com/ezerfernandes/mdchart/internal/chart"
)

// ErrUnknownFormat is returned by [Load] for files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("unknown config file format")

// ErrUnknownTool is returned for tool sections that name no known tool.
var ErrUnknownTool = errors.New("unknown tool")

// ErrDuplicateTool is returned when two tool sections differ only in case.
var ErrDuplicateTool = errors.New("duplicate tool section")

// Format is the syntax of a configuration file.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// File is a parsed configuration file.
type File struct {
	Defaults map[string]any            `yaml:"defaults" toml:"defaults"`
	Tools    map[string]map[string]any `yaml:"tools" toml:"tools"`

	// Env holds variables loaded from dotenv files.
	Env map[string]string `yaml:"-" toml:"-"`
}

// FormatOf returns the format implied by the file extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

// Load reads and parses the configuration file at path.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	file, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return file, nil
}

// Parse parses configuration data in the given format.
func Parse(data []byte, format Format) (*File, error) {
	file := new(File)

	var err error

	switch format {
	case YAML:
		err = yaml.Unmarshal(data, file)
	case TOML:
		err = toml.Unmarshal(data, file)
	default:
		err = fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}

	if err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(file.Tools))

	for name := range file.Tools {
		tool, ok := chart.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownTool, name)
		}

		if other, dup := seen[tool.Name()]; dup {
			return nil, fmt.Errorf("%w: %q and %q", ErrDuplicateTool, other, name)
		}

		seen[tool.Name()] = name
	}

	return file, nil
}

// LoadEnv reads variables from dotenv files. Later files override earlier
// ones.
func (f *File) LoadEnv(paths ...string) error {
	if f.Env == nil {
		f.Env = make(map[string]string)
	}

	for _, path := range paths {
		env, err := godotenv.Read(path)
		if err != nil {
			return err
		}

		maps.Copy(f.Env, env)
	}

	return nil
}

func (f *File) getenv(name string) string {
	if f != nil {
		if value, ok := f.Env[name]; ok {
			return value
		}
	}

	return os.Getenv(name)
}

// Options returns the options of tool: file defaults, then the tool section,
// then overrides, with environment variables expanded. A nil file has no
// entries.
func (f *File) Options(tool string, overrides map[string]string) (map[string]string, error) {
	options := make(map[string]string)

	if f != nil {
		if err := merge(options, f.Defaults); err != nil {
			return nil, err
		}

		for name, section := range f.Tools {
			if strings.EqualFold(name, tool) {
				if err := merge(options, section); err != nil {
					return nil, err
				}
			}
		}
	}

	for name, value := range overrides {
		options[chart.NormalizeOption(name)] = value
	}

	for name, value := range maps.Clone(options) {
		expanded, err := shell.Expand(value, f.getenv)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", tool, name, err)
		}

		options[name] = expanded
	}

	return options, nil
}

// Tool returns the validated configuration of tool.
func (f *File) Tool(tool chart.Tool, overrides map[string]string) (chart.Config, error) {
	options, err := f.Options(tool.Name(), overrides)
	if err != nil {
		return chart.Config{}, err
	}

	return chart.ParseOptions(tool, options)
}

func merge(dst map[string]string, src map[string]any) error {
	for name, value := range src {
		switch v := value.(type) {
		case string:
			dst[chart.NormalizeOption(name)] = v
		case bool, int, int64, float64:
			dst[chart.NormalizeOption(name)] = fmt.Sprint(v)
		default:
			return fmt.Errorf("option %s: unsupported value %v", name, value)
		}
	}

	return nil
}
