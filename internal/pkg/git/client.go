// Package git provides the git operations bumpdecider needs after a version bump.
package git

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/bumpdecider/bumpdecider/internal/pkg/errors"
	"github.com/bumpdecider/bumpdecider/internal/pkg/runner"
)

const (
	// GitCommandTimeout is the default timeout for local git commands.
	GitCommandTimeout = 10 * time.Second
	// GitPushTimeout is the default timeout for git push.
	GitPushTimeout = 60 * time.Second
	// DefaultCommand is the git binary used when none is configured.
	DefaultCommand = "git"
)

// Identity is the author identity written to the global git configuration
// before pushing.
type Identity struct {
	Name  string
	Email string
}

// DefaultIdentity is the CI bot identity used for version bump commits.
var DefaultIdentity = Identity{
	Name:  "BambooUser-IDM",
	Email: "idm_bamboo_user@idmod.org",
}

// Validate checks that both fields are set.
func (i Identity) Validate() error {
	if strings.TrimSpace(i.Name) == "" || strings.TrimSpace(i.Email) == "" {
		return apperrors.NewInvalidConfigError("git identity requires both name and email")
	}
	return nil
}

// Client defines the interface for Git operations.
type Client interface {
	ConfigureIdentity(ctx context.Context, identity Identity) error
	Push(ctx context.Context) error
	GetCurrentBranch(ctx context.Context) (string, error)
}

// Options configures a DefaultClient.
type Options struct {
	// Command is the git binary. Defaults to DefaultCommand.
	Command     string
	Timeout     time.Duration
	PushTimeout time.Duration
}

// DefaultClient implements the Client interface on top of a runner.Runner.
type DefaultClient struct {
	runner  runner.Runner
	command string
	timeout time.Duration
	pushTO  time.Duration
}

// NewClient creates a new DefaultClient with default options.
func NewClient(r runner.Runner) *DefaultClient {
	return NewClientWithOptions(r, Options{})
}

// NewClientWithOptions creates a new DefaultClient, filling unset options with defaults.
func NewClientWithOptions(r runner.Runner, opts Options) *DefaultClient {
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}
	if opts.Timeout <= 0 {
		opts.Timeout = GitCommandTimeout
	}
	if opts.PushTimeout <= 0 {
		opts.PushTimeout = GitPushTimeout
	}
	return &DefaultClient{
		runner:  r,
		command: opts.Command,
		timeout: opts.Timeout,
		pushTO:  opts.PushTimeout,
	}
}

// ConfigureIdentity sets user.email and user.name in the global git configuration.
func (c *DefaultClient) ConfigureIdentity(ctx context.Context, identity Identity) error {
	if err := identity.Validate(); err != nil {
		return err
	}
	if err := c.run(ctx, c.timeout, "config", "--global", "user.email", identity.Email); err != nil {
		return fmt.Errorf("failed to set user.email: %w", err)
	}
	if err := c.run(ctx, c.timeout, "config", "--global", "user.name", identity.Name); err != nil {
		return fmt.Errorf("failed to set user.name: %w", err)
	}
	return nil
}

// Push pushes the current branch to its configured remote.
func (c *DefaultClient) Push(ctx context.Context) error {
	// Use longer timeout for push (network operation)
	return c.run(ctx, c.pushTO, "push")
}

// GetCurrentBranch returns the name of the current branch.
func (c *DefaultClient) GetCurrentBranch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.runner.Run(ctx, c.command, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if !res.Success() {
		return "", apperrors.NewGitError(fmt.Errorf("exit status %d", res.ExitCode), res.Output)
	}
	return strings.TrimSpace(res.Output), nil
}

// run executes a git subcommand and maps a non-zero exit to a git error.
func (c *DefaultClient) run(ctx context.Context, timeout time.Duration, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := c.runner.Run(ctx, c.command, args...)
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.NewGitError(err, "")
	}
	if !res.Success() {
		return apperrors.NewGitError(fmt.Errorf("%s exited with status %d", res.CommandLine(), res.ExitCode), res.Output).
			WithContext("command", res.CommandLine())
	}
	return nil
}

// Ensure DefaultClient implements Client
var _ Client = (*DefaultClient)(nil)
