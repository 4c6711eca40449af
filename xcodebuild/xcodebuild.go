package xcodebuild

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/fileremover"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/xcodecommand"
)

// DefaultMaxAttempts is the number of xcodebuild runs (the first one included) allowed for an invocation.
const DefaultMaxAttempts = 3

// State ...
type State string

// States of an invocation ...
const (
	Pending   State = "pending"
	Running   State = "running"
	Succeeded State = "succeeded"
	Failed    State = "failed"
	Exhausted State = "exhausted"
)

// Invocation is an already composed xcodebuild command and the paths it owns.
type Invocation struct {
	Command string
	WorkDir string
	// ResultBundlePath is removed before every attempt, xcodebuild refuses to overwrite an existing bundle.
	ResultBundlePath string
	RawLogPath       string
	MaxAttempts      int
}

// Result of an invocation. ExitCode and Stderr belong to the last attempt.
type Result struct {
	ExitCode        int
	State           State
	Attempts        int
	Stderr          []string
	TransientErrors []string
}

// PathChecker ...
type PathChecker interface {
	IsPathExists(pth string) (bool, error)
}

// Xcodebuild ...
type Xcodebuild interface {
	Run(invocation Invocation) (Result, error)
}

type xcodebuild struct {
	logger             log.Logger
	pathChecker        PathChecker
	fileRemover        fileremover.FileRemover
	xcodeCommandRunner xcodecommand.Runner
}

// NewXcodebuild ...
func NewXcodebuild(logger log.Logger, pathChecker PathChecker, fileRemover fileremover.FileRemover, xcodeCommandRunner xcodecommand.Runner) Xcodebuild {
	return &xcodebuild{
		logger:             logger,
		pathChecker:        pathChecker,
		fileRemover:        fileRemover,
		xcodeCommandRunner: xcodeCommandRunner,
	}
}

// Run runs the invocation until it succeeds, fails with a non transient error or runs out of attempts.
// The returned error is set only if xcodebuild could not be run at all.
func (b *xcodebuild) Run(invocation Invocation) (Result, error) {
	maxAttempts := invocation.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	result := Result{State: Pending}

	if invocation.RawLogPath != "" {
		if err := os.MkdirAll(filepath.Dir(invocation.RawLogPath), 0755); err != nil {
			return result, fmt.Errorf("failed to create raw log directory: %w", err)
		}
	}

	for attemptsLeft := maxAttempts; attemptsLeft > 0; {
		attemptsLeft--
		result.Attempts++
		result.State = Running

		if err := b.cleanResultBundle(invocation.ResultBundlePath); err != nil {
			result.State = Failed
			return result, err
		}

		output, err := b.xcodeCommandRunner.Run(invocation.Command, invocation.WorkDir)
		if err != nil {
			result.State = Failed
			return result, fmt.Errorf("failed to run xcodebuild: %w", err)
		}

		result.ExitCode = output.ExitCode
		result.Stderr = output.Stderr

		if output.ExitCode == 0 {
			b.logger.Donef("xcodebuild completed successfully")
			result.State = Succeeded
			return result, nil
		}

		for _, line := range FilterNoise(output.Stderr) {
			b.logger.Errorf("%s", line)
		}
		b.logger.Errorf("xcodebuild failed. Exit code %d", output.ExitCode)

		signature, transient := FindTransientError(output.Stderr)
		if !transient {
			result.State = Failed
			return result, nil
		}
		result.TransientErrors = append(result.TransientErrors, signature.Name)
		b.logger.Warnf("Automatic retry reason found in log: %s", signature.Name)

		if attemptsLeft > 0 {
			b.logger.Warnf("An error due to a bug in the simulator has been detected, retrying xcodebuild. %d attempts left", attemptsLeft)
			continue
		}

		b.logger.Errorf("xcodebuild failed too many times (%d)", maxAttempts)
		result.State = Exhausted
	}

	return result, nil
}

func (b *xcodebuild) cleanResultBundle(pth string) error {
	if pth == "" {
		return nil
	}

	exists, err := b.pathChecker.IsPathExists(pth)
	if err != nil {
		return fmt.Errorf("failed to check result bundle (%s): %w", pth, err)
	}
	if !exists {
		return nil
	}

	b.logger.Printf("The result bundle directory already exists, deleting it.")
	if err := b.fileRemover.RemoveAll(pth); err != nil {
		return fmt.Errorf("failed to remove result bundle (%s): %w", pth, err)
	}

	// A half written bundle of a crashed attempt may still be held open.
	if exists, err := b.pathChecker.IsPathExists(pth); err != nil {
		return fmt.Errorf("failed to check result bundle (%s): %w", pth, err)
	} else if exists {
		return fmt.Errorf("result bundle (%s) still exists after removal", pth)
	}

	return nil
}
