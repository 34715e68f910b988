package chart

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
)

// Option names accepted by [ParseOptions].
const (
	OptBinaryPath     = "BINARY_PATH"
	OptWriteImgsDir   = "WRITE_IMGS_DIR"
	OptBaseImgLinkDir = "BASE_IMG_LINK_DIR"
	OptArguments      = "ARGUMENTS"
	OptFormat         = "FORMAT"
	OptEngine         = "ENGINE"
	OptTimeout        = "TIMEOUT"
	OptBestEffort     = "BEST_EFFORT"
)

// OptionNames lists every option recognized by [ParseOptions].
var OptionNames = []string{
	OptBinaryPath,
	OptWriteImgsDir,
	OptBaseImgLinkDir,
	OptArguments,
	OptFormat,
	OptEngine,
	OptTimeout,
	OptBestEffort,
}

// Engine selects how a tool produces its image.
type Engine string

const (
	// EngineExec runs the external program.
	EngineExec Engine = "exec"
	// EngineBuiltin renders in process, for tools that support it.
	EngineBuiltin Engine = "builtin"
)

// Config is the configuration of one tool. Path values are plain prefixes:
// image files are named WriteImgsDir+key+"."+ext and referenced as
// BaseImgLinkDir+key+"."+ext.
type Config struct {
	BinaryPath     string
	WriteImgsDir   string
	BaseImgLinkDir string
	Arguments      []string
	Format         string
	Engine         Engine
	Timeout        time.Duration // zero means no limit
	BestEffort     bool          // log tool failures instead of failing the document
}

var reFormat = regexp.MustCompile(`^[a-z0-9]+$`)

// NormalizeOption maps an option name such as "binary-path" to its canonical
// form ("BINARY_PATH").
func NormalizeOption(name string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
}

// ParseOptions builds the configuration of tool from named options, starting
// from the tool defaults. Unknown names and malformed values are rejected.
func ParseOptions(tool Tool, options map[string]string) (Config, error) {
	cfg := tool.Defaults()

	for name, value := range options {
		var err error

		switch NormalizeOption(name) {
		case OptBinaryPath:
			cfg.BinaryPath = value
		case OptWriteImgsDir:
			cfg.WriteImgsDir = value
		case OptBaseImgLinkDir:
			cfg.BaseImgLinkDir = value
		case OptArguments:
			cfg.Arguments, err = shlex.Split(value)
		case OptFormat:
			cfg.Format = strings.ToLower(strings.TrimSpace(value))
		case OptEngine:
			cfg.Engine = Engine(strings.ToLower(strings.TrimSpace(value)))
		case OptTimeout:
			cfg.Timeout, err = time.ParseDuration(value)
		case OptBestEffort:
			cfg.BestEffort, err = strconv.ParseBool(value)
		default:
			return Config{}, fmt.Errorf("%s: %w %q, want one of %s", tool.Name(), ErrUnknownOption, name, strings.Join(OptionNames, ", "))
		}

		if err != nil {
			return Config{}, fmt.Errorf("%s: %w %s: %v", tool.Name(), ErrInvalidOption, name, err)
		}
	}

	if err := cfg.Validate(tool); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks cfg against the constraints of tool.
func (c Config) Validate(tool Tool) error {
	if c.Format != "" && !reFormat.MatchString(c.Format) {
		return fmt.Errorf("%s: %w %s: %q", tool.Name(), ErrInvalidOption, OptFormat, c.Format)
	}

	switch c.Engine {
	case EngineExec:
	case EngineBuiltin:
		if _, ok := tool.(builtinRenderer); !ok {
			return fmt.Errorf("%s: %w %s: no builtin engine", tool.Name(), ErrInvalidOption, OptEngine)
		}
	default:
		return fmt.Errorf("%s: %w %s: %q", tool.Name(), ErrInvalidOption, OptEngine, c.Engine)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("%s: %w %s: negative duration", tool.Name(), ErrInvalidOption, OptTimeout)
	}

	return tool.Validate(c)
}
