// Package cmd implements the mdchart command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdchart/internal/chart"
	"github.com/ezerfernandes/mdchart/internal/config"
	"github.com/ezerfernandes/mdchart/internal/imgstore"
)

const (
	fileMode = 0o644
	dirMode  = 0o755
)

type options struct {
	configFile string
	envFiles   []string
	tools      []string
	verbose    bool
	quiet      bool

	binaryPath string
	imgsDir    string
	linkDir    string
	arguments  string
	format     string
	engine     string
	timeout    time.Duration
	bestEffort bool

	include []string
	exclude []string

	logger *log.Logger
	runner chart.Runner
	store  *imgstore.Store
}

// Execute runs the command line with args and exits with a non-zero status on
// failure.
func Execute(args []string, stdout, stderr io.Writer) {
	root := rootCmd(new(options))

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{ //nolint:exhaustruct
		Use:           "mdchart",
		Short:         "Render diagram blocks in Markdown to cached images",
		Long:          rootHelp,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.createLogger(cmd.ErrOrStderr())
		},

		DisableAutoGenTag: true,
	}

	flags := root.PersistentFlags()

	flags.StringVarP(&opts.configFile, "config", "c", "", "configuration file (.yaml, .yml or .toml)")
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files with variables for option values")
	flags.StringSliceVarP(&opts.tools, "tool", "t", nil, "tools to enable (graphviz, ditaa, plantuml); default all")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only log warnings and errors")

	flags.StringVar(&opts.binaryPath, "binary-path", "", "directory or prefix of the tool executables (BINARY_PATH)")
	flags.StringVar(&opts.imgsDir, "imgs-dir", "", "prefix of generated image files (WRITE_IMGS_DIR)")
	flags.StringVar(&opts.linkDir, "link-dir", "", "prefix of image links in the output (BASE_IMG_LINK_DIR)")
	flags.StringVar(&opts.arguments, "args", "", "extra tool arguments (ARGUMENTS)")
	flags.StringVar(&opts.format, "format", "", "image format (FORMAT)")
	flags.StringVar(&opts.engine, "engine", "", "exec or builtin (ENGINE)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "limit for one tool run (TIMEOUT)")
	flags.BoolVar(&opts.bestEffort, "best-effort", false, "keep going when a tool fails (BEST_EFFORT)")

	root.AddCommand(renderCmd(opts))
	root.AddCommand(scanCmd(opts))
	root.AddCommand(checkCmd(opts))
	root.AddCommand(toolsCmd(opts))

	return root
}

func (opts *options) createLogger(w io.Writer) {
	level := log.InfoLevel

	switch {
	case opts.verbose:
		level = log.DebugLevel
	case opts.quiet:
		level = log.WarnLevel
	}

	opts.logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// optionFlags maps option flags to the option they override.
var optionFlags = map[string]string{
	"binary-path": chart.OptBinaryPath,
	"imgs-dir":    chart.OptWriteImgsDir,
	"link-dir":    chart.OptBaseImgLinkDir,
	"args":        chart.OptArguments,
	"format":      chart.OptFormat,
	"engine":      chart.OptEngine,
	"timeout":     chart.OptTimeout,
	"best-effort": chart.OptBestEffort,
}

// overrides returns the option values given on the command line.
func overrides(cmd *cobra.Command) map[string]string {
	res := make(map[string]string)

	for name, option := range optionFlags {
		if flag := cmd.Flag(name); flag != nil && flag.Changed {
			res[option] = flag.Value.String()
		}
	}

	return res
}

func (opts *options) selectedTools() ([]chart.Tool, error) {
	if len(opts.tools) == 0 {
		return chart.Tools(), nil
	}

	tools := make([]chart.Tool, 0, len(opts.tools))

	for _, name := range opts.tools {
		tool, ok := chart.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w %q", config.ErrUnknownTool, name)
		}

		tools = append(tools, tool)
	}

	return tools, nil
}

func (opts *options) imageStore() *imgstore.Store {
	if opts.store == nil {
		opts.store = imgstore.OS()
	}

	return opts.store
}

// renderers builds the renderer set of the enabled tools.
func (opts *options) renderers(cmd *cobra.Command) (*chart.Set, error) {
	var (
		file *config.File
		err  error
	)

	if len(opts.configFile) != 0 {
		if file, err = config.Load(opts.configFile); err != nil {
			return nil, err
		}
	}

	if len(opts.envFiles) != 0 {
		if file == nil {
			file = new(config.File)
		}

		if err := file.LoadEnv(opts.envFiles...); err != nil {
			return nil, err
		}
	}

	tools, err := opts.selectedTools()
	if err != nil {
		return nil, err
	}

	values := overrides(cmd)
	renderers := make([]*chart.Renderer, 0, len(tools))

	for _, tool := range tools {
		cfg, err := file.Tool(tool, values)
		if err != nil {
			return nil, err
		}

		ropts := []chart.Option{chart.WithLogger(opts.logger), chart.WithStore(opts.imageStore())}
		if opts.runner != nil {
			ropts = append(ropts, chart.WithRunner(opts.runner))
		}

		r, err := chart.New(tool, cfg, ropts...)
		if err != nil {
			return nil, err
		}

		opts.logger.Debug("tool enabled", "tool", tool.Name(), "imgs", cfg.WriteImgsDir, "links", cfg.BaseImgLinkDir)

		renderers = append(renderers, r)
	}

	return chart.NewSet(renderers...)
}
