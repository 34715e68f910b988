package chart

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Run waits for the output pipes to close once the
// context is done.
const waitDelay = time.Second

// Command describes one invocation of an external tool. Arguments are passed
// to the program as a list; no shell is involved.
type Command struct {
	Path  string
	Args  []string
	Stdin []byte // nil leaves standard input empty
	Dir   string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Runner runs a command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// RunnerFunc adapts a function to the [Runner] interface.
type RunnerFunc func(ctx context.Context, cmd Command) ([]byte, error)

// Run calls f(ctx, cmd).
func (f RunnerFunc) Run(ctx context.Context, cmd Command) ([]byte, error) {
	return f(ctx, cmd)
}

// ExecRunner runs commands with os/exec. A non-zero exit status is an error
// that carries the tool's standard error.
type ExecRunner struct {
	Env []string // nil inherits the current environment
}

// Run starts the command, waits for it and returns its standard output.
func (r ExecRunner) Run(ctx context.Context, c Command) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = r.Env
	cmd.WaitDelay = waitDelay

	killProcessGroup(cmd)

	if c.Stdin != nil {
		cmd.Stdin = bytes.NewReader(c.Stdin)
	}

	var out, errBuf bytes.Buffer

	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w: %v", c.Path, ctxErr, err)
		}

		if msg := strings.TrimSpace(errBuf.String()); len(msg) != 0 {
			return nil, fmt.Errorf("%s: %w: %s", c.Path, err, msg)
		}

		return nil, fmt.Errorf("%s: %w", c.Path, err)
	}

	return out.Bytes(), nil
}
