package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/step"
	"github.com/stretchr/testify/assert"
)

func Test_GivenRunError_WhenExitCodeIsComputed_ThenFailuresExitWithOne(t *testing.T) {
	logger := log.NewLogger()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: 0},
		{name: "build failed", err: step.ErrBuildFailed, want: 1},
		{name: "tests failed", err: fmt.Errorf("run_test_package: %w", step.ErrTestsFailed), want: 1},
		{name: "unexpected error", err: errors.New("failed to start command"), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(logger, tt.err))
		})
	}
}

func Test_GivenLogger_WhenRunnerIsCreated_ThenUnknownActionIsRejected(t *testing.T) {
	// Given
	runner := createRunner(log.NewLogger())

	// When
	_, err := runner.Run(step.Config{Action: "lt_distribution"})

	// Then
	assert.Error(t, err)
}
