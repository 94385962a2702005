// Package runner runs external commands and captures their exit status and output.
package runner

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	apperrors "github.com/bumpdecider/bumpdecider/internal/pkg/errors"
)

// Result describes a finished command.
type Result struct {
	Command  string
	Args     []string
	ExitCode int
	// Output is the combined stdout and stderr of the command.
	Output   string
	Duration time.Duration
}

// Success reports whether the command exited with status 0.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// CommandLine returns the command and its arguments joined by spaces.
func (r *Result) CommandLine() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.Command + " " + strings.Join(r.Args, " "))
}

// Runner defines the interface for running external commands.
//
// Run returns an error only when the command could not be started or the
// context ended before it finished. A non-zero exit is reported through
// Result.ExitCode.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (*Result, error)
}

// ExecRunner implements Runner using exec.CommandContext.
type ExecRunner struct {
	// workDir is the working directory for commands.
	// If empty, uses the current directory.
	workDir string
}

// NewExecRunner creates a new ExecRunner in the current directory.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// NewExecRunnerWithWorkDir creates a new ExecRunner with a specific working directory.
func NewExecRunnerWithWorkDir(workDir string) *ExecRunner {
	return &ExecRunner{workDir: workDir}
}

// Run executes name with args and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if r.workDir != "" {
		cmd.Dir = r.workDir
	}

	start := time.Now()
	output, err := cmd.CombinedOutput()
	res := &Result{
		Command:  name,
		Args:     args,
		Output:   string(output),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			res.ExitCode = -1
			return res, apperrors.NewTimeoutError(ctx.Err()).WithContext("command", res.CommandLine())
		}
		if ctx.Err() != nil {
			res.ExitCode = -1
			return res, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			apperrors.LogCommand(name, args, res.ExitCode, res.Duration)
			apperrors.LogOutput(name, res.Output)
			return res, nil
		}
		res.ExitCode = -1
		return res, err
	}

	apperrors.LogCommand(name, args, res.ExitCode, res.Duration)
	apperrors.LogOutput(name, res.Output)
	return res, nil
}

// Ensure ExecRunner implements Runner
var _ Runner = (*ExecRunner)(nil)
