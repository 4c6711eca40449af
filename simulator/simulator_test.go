package simulator

import (
	"errors"
	"os/exec"
	"strconv"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testingMocks struct {
	commandFactory *mocks.Factory
}

func Test_GivenSimulators_WhenShutdownAll_ThenShutsDownEveryDevice(t *testing.T) {
	// Given
	manager, mocks := createSimulatorAndMocks(t)
	parameters := []string{"simctl", "shutdown", "all"}
	mocks.commandFactory.On("Create", "xcrun", parameters, mock.Anything).Return(createCommand(t, "", nil))

	// When
	err := manager.ShutdownAll()

	// Then
	assert.NoError(t, err)
	mocks.commandFactory.AssertCalled(t, "Create", "xcrun", parameters, mock.Anything)
}

func Test_GivenShutdownSimulator_WhenShutdown_ThenSucceeds(t *testing.T) {
	// Given
	manager, mocks := createSimulatorAndMocks(t)
	mocks.commandFactory.On("Create", "xcrun", []string{"simctl", "shutdown", "test-identifier"}, mock.Anything).
		Return(createCommand(t, "Unable to shutdown device in current state: Shutdown", exitError(t, 149)))

	// When
	err := manager.Shutdown("test-identifier")

	// Then
	assert.NoError(t, err)
}

func Test_GivenSimctlFails_WhenShutdown_ThenOnlyWarns(t *testing.T) {
	// Given
	manager, mocks := createSimulatorAndMocks(t)
	mocks.commandFactory.On("Create", "xcrun", []string{"simctl", "shutdown", "all"}, mock.Anything).
		Return(createCommand(t, "CoreSimulatorService connection became invalid", exitError(t, 1)))

	// When
	err := manager.ShutdownAll()

	// Then
	assert.NoError(t, err)
}

func Test_GivenXcrunMissing_WhenShutdown_ThenFails(t *testing.T) {
	// Given
	manager, mocks := createSimulatorAndMocks(t)
	mocks.commandFactory.On("Create", "xcrun", []string{"simctl", "shutdown", "all"}, mock.Anything).
		Return(createCommand(t, "", errors.New(`exec: "xcrun": executable file not found in $PATH`)))

	// When
	err := manager.ShutdownAll()

	// Then
	assert.Error(t, err)
}

// Helpers

func createSimulatorAndMocks(t *testing.T) (Manager, testingMocks) {
	commandFactory := mocks.NewFactory(t)
	manager := NewManager(log.NewLogger(), commandFactory)

	return manager, testingMocks{
		commandFactory: commandFactory,
	}
}

func createCommand(t *testing.T, output string, err error) *mocks.Command {
	command := mocks.NewCommand(t)
	command.On("PrintableCommandArgs").Return("xcrun simctl shutdown")
	command.On("RunAndReturnTrimmedCombinedOutput").Return(output, err)

	return command
}

func exitError(t *testing.T, code int) error {
	err := exec.Command("sh", "-c", "exit "+strconv.Itoa(code)).Run()
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	return exitErr
}
