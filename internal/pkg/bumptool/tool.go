// Package bumptool invokes the external version bumping tool (bump2version).
package bumptool

import (
	"context"
	"fmt"
	"time"

	"github.com/bumpdecider/bumpdecider/internal/pkg/bump"
	apperrors "github.com/bumpdecider/bumpdecider/internal/pkg/errors"
	"github.com/bumpdecider/bumpdecider/internal/pkg/runner"
)

const (
	// DefaultCommand is the bump tool binary installed by bump2version.
	DefaultCommand = "bumpversion"
	// DefaultTimeout bounds a single bump tool run.
	DefaultTimeout = 2 * time.Minute
)

// DefaultInstallCommand installs bump2version into the active Python environment.
var DefaultInstallCommand = []string{"pip", "install", "bump2version"}

// Request describes one bump tool invocation.
type Request struct {
	Type       bump.BumpType
	ConfigFile string
	AllowDirty bool
}

// Args returns the command line arguments for the request.
func (r Request) Args() []string {
	var args []string
	if r.AllowDirty {
		args = append(args, "--allow-dirty")
	}
	configFile := r.ConfigFile
	if configFile == "" {
		configFile = bump.DefaultConfigFile
	}
	args = append(args, "--config-file", configFile, r.Type.String())
	return args
}

// Tool defines the interface for the external bump tool.
type Tool interface {
	Install(ctx context.Context) error
	Bump(ctx context.Context, req Request) error
}

// Options configures a CLITool.
type Options struct {
	Command        string
	InstallCommand []string
	Timeout        time.Duration
}

// CLITool runs the bump tool as a subprocess.
type CLITool struct {
	runner         runner.Runner
	command        string
	installCommand []string
	timeout        time.Duration
}

// New creates a CLITool, filling unset options with defaults.
func New(r runner.Runner, opts Options) *CLITool {
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}
	if len(opts.InstallCommand) == 0 {
		opts.InstallCommand = DefaultInstallCommand
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &CLITool{
		runner:         r,
		command:        opts.Command,
		installCommand: opts.InstallCommand,
		timeout:        opts.Timeout,
	}
}

// Install runs the install command.
func (t *CLITool) Install(ctx context.Context) error {
	res, err := t.run(ctx, t.installCommand[0], t.installCommand[1:]...)
	if err != nil {
		return err
	}
	if !res.Success() {
		return apperrors.NewBumpToolError(fmt.Errorf("%s exited with status %d", res.CommandLine(), res.ExitCode), res.Output).
			WithContext("command", res.CommandLine()).
			WithSuggestion("Check that pip is available or disable bump_tool.install")
	}
	return nil
}

// Bump runs the bump tool for req. A non-zero exit is a bump tool failure.
func (t *CLITool) Bump(ctx context.Context, req Request) error {
	if !req.Type.IsValid() {
		return apperrors.NewInvalidBumpTypeError(req.Type.String(), bump.BumpTypeNames())
	}

	res, err := t.run(ctx, t.command, req.Args()...)
	if err != nil {
		return err
	}
	if !res.Success() {
		return apperrors.NewBumpToolError(fmt.Errorf("%s exited with status %d", res.CommandLine(), res.ExitCode), res.Output).
			WithContext("command", res.CommandLine())
	}
	return nil
}

func (t *CLITool) run(ctx context.Context, name string, args ...string) (*runner.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	res, err := t.runner.Run(ctx, name, args...)
	if err != nil {
		// A timed-out bump tool is still a bump tool failure.
		if apperrors.HasCode(err, apperrors.ErrTimeout) {
			return nil, apperrors.NewBumpToolError(err, "").
				WithContext("command", name).
				WithSuggestion(fmt.Sprintf("Increase bump_tool.timeout_seconds (currently %s)", t.timeout))
		}
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.NewBumpToolError(err, "").WithContext("command", name)
	}
	return res, nil
}

// Ensure CLITool implements Tool
var _ Tool = (*CLITool)(nil)
