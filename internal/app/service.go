// Package app contains the application layer that runs a version bump.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/bumpdecider/bumpdecider/internal/pkg/bump"
	"github.com/bumpdecider/bumpdecider/internal/pkg/bumptool"
	apperrors "github.com/bumpdecider/bumpdecider/internal/pkg/errors"
	"github.com/bumpdecider/bumpdecider/internal/pkg/git"
	"github.com/bumpdecider/bumpdecider/internal/pkg/history"
	"github.com/bumpdecider/bumpdecider/internal/pkg/ui"
)

// statFile is a variable to allow mocking in tests.
var statFile = os.Stat

// ServiceOptions contains the fixed parameters of a BumpService.
type ServiceOptions struct {
	// Identity is written to the global git config before pushing.
	// Defaults to git.DefaultIdentity.
	Identity git.Identity
	// InstallTool runs the bump tool installer before bumping.
	InstallTool bool
}

// RunOptions contains options for a single run.
type RunOptions struct {
	DryRun bool
}

// Result describes what a run did.
type Result struct {
	Decision bump.Decision
	DryRun   bool
	Bumped   bool
	Pushed   bool
	// PushErr is set when the push step failed after a successful bump.
	PushErr error
}

// Success reports whether the bump step succeeded. Push failures do not
// affect it.
func (r *Result) Success() bool {
	return r != nil && r.Bumped
}

// BumpService resolves a bump decision and applies it.
type BumpService struct {
	tool       bumptool.Tool
	gitClient  git.Client
	uiManager  ui.Manager
	historyMgr history.Manager
	identity   git.Identity
	install    bool
}

// NewBumpService creates a new BumpService with the given dependencies.
// historyMgr may be nil to disable run history.
func NewBumpService(
	tool bumptool.Tool,
	gitClient git.Client,
	uiManager ui.Manager,
	historyMgr history.Manager,
	opts ServiceOptions,
) *BumpService {
	identity := opts.Identity
	if identity == (git.Identity{}) {
		identity = git.DefaultIdentity
	}
	return &BumpService{
		tool:       tool,
		gitClient:  gitClient,
		uiManager:  uiManager,
		historyMgr: historyMgr,
		identity:   identity,
		install:    opts.InstallTool,
	}
}

// Resolve derives the decision for cfg without side effects.
func (s *BumpService) Resolve(cfg bump.Configuration) (bump.Decision, error) {
	if word, ok := bump.FindTrigger(cfg.CommitMessage); ok && cfg.BumpType == "" {
		apperrors.Debug("Found bump trigger %q in commit message", word)
	}

	decision, err := bump.Resolve(cfg)
	if err != nil {
		return bump.Decision{}, err
	}

	apperrors.Debug("Resolved bump type %s (source=%s, push=%t)", decision.Type, decision.Source, decision.Push)
	return decision, nil
}

// Execute runs the bump tool for decision and, when requested, pushes the
// resulting commit.
//
// A bump tool failure is returned as an error and nothing is pushed. A push
// failure is reported in Result.PushErr; the bump is kept.
func (s *BumpService) Execute(ctx context.Context, decision bump.Decision, cfg bump.Configuration) (*Result, error) {
	result := &Result{Decision: decision}

	configFile := cfg.ConfigFile
	if configFile == "" {
		configFile = bump.DefaultConfigFile
	}
	if _, err := statFile(configFile); err != nil {
		apperrors.Warn("Bump tool config file %s not found: %v", configFile, err)
	}

	if s.install {
		apperrors.Debug("Installing bump tool")
		if err := s.tool.Install(ctx); err != nil {
			apperrors.Error("Failed to install bump tool: %v", err)
			return result, err
		}
	}

	req := bumptool.Request{
		Type:       decision.Type,
		ConfigFile: configFile,
		AllowDirty: true,
	}
	if err := s.tool.Bump(ctx, req); err != nil {
		apperrors.Error("Bump tool failed: %v", err)
		return result, err
	}
	result.Bumped = true

	if !decision.Push {
		apperrors.Debug("Push not requested, leaving bump commit local")
		return result, nil
	}

	if err := s.push(ctx); err != nil {
		apperrors.Error("Push failed: %v", err)
		result.PushErr = apperrors.NewPushError(err)
		return result, nil
	}
	result.Pushed = true

	return result, nil
}

// push configures the git identity and pushes the current branch.
func (s *BumpService) push(ctx context.Context) error {
	if apperrors.IsVerbose() {
		if branch, err := s.gitClient.GetCurrentBranch(ctx); err == nil {
			apperrors.Debug("Pushing branch %s", branch)
		}
	}

	if err := s.gitClient.ConfigureIdentity(ctx, s.identity); err != nil {
		return fmt.Errorf("failed to configure git identity: %w", err)
	}
	if err := s.gitClient.Push(ctx); err != nil {
		return err
	}
	return nil
}

// Run resolves cfg, shows the decision and executes it unless opts.DryRun is set.
// The returned error is the bump or push failure, in that order of precedence.
func (s *BumpService) Run(ctx context.Context, cfg bump.Configuration, opts RunOptions) (*Result, error) {
	decision, err := s.Resolve(cfg)
	if err != nil {
		return nil, err
	}

	configFile := cfg.ConfigFile
	if configFile == "" {
		configFile = bump.DefaultConfigFile
	}
	s.uiManager.ShowDecision(decision, configFile)

	if opts.DryRun {
		result := &Result{Decision: decision, DryRun: true}
		s.record(cfg, result, nil)
		s.uiManager.ShowSuccess("Dry run: no commands executed")
		return result, nil
	}

	result, err := s.Execute(ctx, decision, cfg)
	s.record(cfg, result, err)
	if err != nil {
		return result, err
	}

	s.uiManager.ShowSuccess(fmt.Sprintf("Bumped %s version", decision.Type))
	switch {
	case result.Pushed:
		s.uiManager.ShowSuccess("Pushed version bump commit")
	case result.PushErr != nil:
		s.uiManager.ShowWarning("Version bump commit was not pushed")
		return result, result.PushErr
	}

	return result, nil
}

// record saves the run to history. Failures are logged, not returned.
func (s *BumpService) record(cfg bump.Configuration, result *Result, runErr error) {
	if s.historyMgr == nil || result == nil {
		return
	}

	entry := &history.Entry{
		CommitSubject: history.Subject(cfg.CommitMessage),
		BumpType:      result.Decision.Type.String(),
		Source:        result.Decision.Source.String(),
		PushRequested: result.Decision.Push,
		Bumped:        result.Bumped,
		Pushed:        result.Pushed,
		DryRun:        result.DryRun,
	}
	switch {
	case runErr != nil:
		entry.Error = apperrors.SanitizeErrorMessage(runErr.Error())
	case result.PushErr != nil:
		entry.Error = apperrors.SanitizeErrorMessage(result.PushErr.Error())
	}

	if err := s.historyMgr.Save(entry); err != nil {
		apperrors.Warn("Failed to record run history: %v", err)
	}
}
