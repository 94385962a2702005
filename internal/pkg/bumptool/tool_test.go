package bumptool

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bumpdecider/bumpdecider/internal/pkg/bump"
	apperrors "github.com/bumpdecider/bumpdecider/internal/pkg/errors"
	"github.com/bumpdecider/bumpdecider/internal/pkg/runner"
)

// MockRunner is a mock implementation of runner.Runner
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, name string, args ...string) (*runner.Result, error) {
	callArgs := m.Called(ctx, name, args)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).(*runner.Result), callArgs.Error(1)
}

func TestRequest_Args(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		expected []string
	}{
		{
			name:     "allow dirty with default config",
			req:      Request{Type: bump.BumpMinor, AllowDirty: true},
			expected: []string{"--allow-dirty", "--config-file", ".bumpversion.cfg", "minor"},
		},
		{
			name:     "custom config file",
			req:      Request{Type: bump.BumpBuild, ConfigFile: "setup.cfg", AllowDirty: true},
			expected: []string{"--allow-dirty", "--config-file", "setup.cfg", "build"},
		},
		{
			name:     "clean tree required",
			req:      Request{Type: bump.BumpPatch, ConfigFile: ".bumpversion.cfg"},
			expected: []string{"--config-file", ".bumpversion.cfg", "patch"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.req.Args())
		})
	}
}

func TestBump_Success(t *testing.T) {
	r := new(MockRunner)
	args := []string{"--allow-dirty", "--config-file", ".bumpversion.cfg", "major"}
	r.On("Run", mock.Anything, "bumpversion", args).
		Return(&runner.Result{Command: "bumpversion", Args: args}, nil).Once()

	tool := New(r, Options{})
	err := tool.Bump(context.Background(), Request{Type: bump.BumpMajor, AllowDirty: true})

	require.NoError(t, err)
	r.AssertExpectations(t)
}

func TestBump_NonZeroExit(t *testing.T) {
	r := new(MockRunner)
	args := []string{"--allow-dirty", "--config-file", "missing.cfg", "patch"}
	r.On("Run", mock.Anything, "bumpversion", args).
		Return(&runner.Result{Command: "bumpversion", Args: args, ExitCode: 2, Output: "usage: bumpversion"}, nil).Once()

	err := New(r, Options{}).Bump(context.Background(), Request{Type: bump.BumpPatch, ConfigFile: "missing.cfg", AllowDirty: true})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBumpToolFailed))
	assert.Equal(t, 2, apperrors.GetExitCode(err))
	assert.Equal(t, "usage: bumpversion", apperrors.GetAppError(err).Context["output"])
}

func TestBump_RunnerError(t *testing.T) {
	r := new(MockRunner)
	r.On("Run", mock.Anything, "bump2version", mock.Anything).
		Return(nil, errors.New(`exec: "bump2version": executable file not found in $PATH`)).Once()

	err := New(r, Options{Command: "bump2version"}).Bump(context.Background(), Request{Type: bump.BumpPatch})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBumpToolFailed))
}

func TestBump_TimeoutIsBumpToolFailure(t *testing.T) {
	r := new(MockRunner)
	r.On("Run", mock.Anything, "bumpversion", mock.Anything).
		Return(nil, apperrors.NewTimeoutError(context.DeadlineExceeded)).Once()

	err := New(r, Options{Timeout: 2 * time.Second}).Bump(context.Background(), Request{Type: bump.BumpMinor})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBumpToolFailed))
	assert.Equal(t, 2, apperrors.GetExitCode(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, apperrors.GetAppError(err).Suggestion, "bump_tool.timeout_seconds")
}

func TestInstall_TimeoutIsBumpToolFailure(t *testing.T) {
	r := new(MockRunner)
	r.On("Run", mock.Anything, "pip", mock.Anything).
		Return(nil, apperrors.NewTimeoutError(context.DeadlineExceeded)).Once()

	err := New(r, Options{}).Install(context.Background())

	require.Error(t, err)
	assert.Equal(t, 2, apperrors.GetExitCode(err))
}

func TestBump_InvalidType(t *testing.T) {
	r := new(MockRunner)

	err := New(r, Options{}).Bump(context.Background(), Request{Type: "huge"})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidArguments))
	r.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestBump_AppliesTimeout(t *testing.T) {
	r := new(MockRunner)
	r.On("Run", mock.Anything, "bumpversion", mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			deadline, ok := ctx.Deadline()
			assert.True(t, ok, "context should carry a deadline")
			assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
		}).
		Return(&runner.Result{Command: "bumpversion"}, nil).Once()

	err := New(r, Options{Timeout: 5 * time.Second}).Bump(context.Background(), Request{Type: bump.BumpPatch})
	require.NoError(t, err)
}

func TestInstall(t *testing.T) {
	r := new(MockRunner)
	r.On("Run", mock.Anything, "pip", []string{"install", "bump2version"}).
		Return(&runner.Result{Command: "pip", Args: []string{"install", "bump2version"}}, nil).Once()

	require.NoError(t, New(r, Options{}).Install(context.Background()))
	r.AssertExpectations(t)
}

func TestInstall_Failure(t *testing.T) {
	r := new(MockRunner)
	r.On("Run", mock.Anything, "pipx", []string{"install", "bump2version==1.0.1"}).
		Return(&runner.Result{Command: "pipx", ExitCode: 1, Output: "network unreachable"}, nil).Once()

	tool := New(r, Options{InstallCommand: []string{"pipx", "install", "bump2version==1.0.1"}})
	err := tool.Install(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBumpToolFailed))
	assert.Contains(t, apperrors.GetAppError(err).Suggestion, "bump_tool.install")
}

// TestCLITool_Integration_FakeTool runs a shell script standing in for
// bumpversion and checks the exact arguments it receives.
func TestCLITool_Integration_FakeTool(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-bumpversion")
	argsFile := filepath.Join(dir, "args.txt")
	content := "#!/bin/sh\nprintf '%s\\n' \"$@\" > " + argsFile + "\n"
	require.NoError(t, os.WriteFile(script, []byte(content), 0755))

	tool := New(runner.NewExecRunnerWithWorkDir(dir), Options{Command: script})
	err := tool.Bump(context.Background(), Request{Type: bump.BumpRelease, AllowDirty: true})
	require.NoError(t, err)

	got, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "--allow-dirty\n--config-file\n.bumpversion.cfg\nrelease\n", string(got))
}
