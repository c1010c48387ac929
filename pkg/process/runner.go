// Package process runs external commands and captures their combined output.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"sort"
	"strings"
)

// Cmd describes a single command invocation.
type Cmd struct {
	Args []string          // Executable followed by its arguments
	Dir  string            // Working directory (empty = current)
	Env  map[string]string // Complete environment; nil inherits the caller's
}

// Result is the outcome of a command that was started.
type Result struct {
	ExitCode int
	Output   string // stdout and stderr, interleaved
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Cmd) (*Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Logger *log.Logger
}

// NewExecRunner creates a runner that logs command lines to logger (may be nil).
func NewExecRunner(logger *log.Logger) *ExecRunner {
	return &ExecRunner{Logger: logger}
}

// Run starts cmd and waits for it. A non-zero exit code is reported in the
// Result, not as an error; an error means the command could not be run.
func (r *ExecRunner) Run(ctx context.Context, cmd Cmd) (*Result, error) {
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("empty command line")
	}

	if r.Logger != nil {
		r.Logger.Printf("Running: %s (dir: %s)", CommandLine(cmd.Args), cmd.Dir)
	}

	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	if cmd.Env != nil {
		c.Env = EnvList(cmd.Env)
	}

	var output bytes.Buffer
	c.Stdout = &output
	c.Stderr = &output

	err := c.Run()

	result := &Result{Output: output.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return nil, fmt.Errorf("running %s: %w", cmd.Args[0], err)
	}

	return result, nil
}

// EnvList converts an environment map into a sorted KEY=VALUE list.
func EnvList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]string, 0, len(keys))
	for _, k := range keys {
		list = append(list, k+"="+env[k])
	}
	return list
}

// EnvMap converts a KEY=VALUE list (as returned by os.Environ) into a map.
func EnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

// CommandLine renders args for display, quoting arguments that contain spaces.
func CommandLine(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if strings.ContainsAny(a, " \t") {
			a = `"` + a + `"`
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}
