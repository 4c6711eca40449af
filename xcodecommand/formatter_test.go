package xcodecommand

import (
	"errors"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func Test_GivenXcprettyInstalled_WhenChecked_ThenReturnsItsVersion(t *testing.T) {
	// Given
	checker, commandFactory := createFormatterChecker(t)
	commandFactory.On("Create", "xcpretty", []string{"--version"}, mock.Anything).Return(createCommand(t, "0.3.0", nil))

	// When
	xcprettyVersion, err := checker.CheckXcpretty()

	// Then
	require.NoError(t, err)
	assert.Equal(t, "0.3.0", xcprettyVersion.String())
}

func Test_GivenXcprettyMissing_WhenFormatterSelected_ThenFallsBackToXcodebuild(t *testing.T) {
	// Given
	checker, commandFactory := createFormatterChecker(t)
	commandFactory.On("Create", "xcpretty", []string{"--version"}, mock.Anything).Return(createCommand(t, "command not found: xcpretty", errors.New("exit status 127")))

	// When
	formatter := SelectFormatter(log.NewLogger(), checker, XcprettyFormatter)

	// Then
	assert.Equal(t, XcodebuildFormatter, formatter)
}

func Test_GivenUnparsableVersion_WhenFormatterSelected_ThenFallsBackToXcodebuild(t *testing.T) {
	// Given
	checker, commandFactory := createFormatterChecker(t)
	commandFactory.On("Create", "xcpretty", []string{"--version"}, mock.Anything).Return(createCommand(t, "not a version", nil))

	// When
	formatter := SelectFormatter(log.NewLogger(), checker, XcprettyFormatter)

	// Then
	assert.Equal(t, XcodebuildFormatter, formatter)
}

func Test_GivenXcodebuildFormatter_WhenFormatterSelected_ThenXcprettyIsNotChecked(t *testing.T) {
	// Given
	checker, _ := createFormatterChecker(t)

	// When
	formatter := SelectFormatter(log.NewLogger(), checker, XcodebuildFormatter)

	// Then
	assert.Equal(t, XcodebuildFormatter, formatter)
}

func createFormatterChecker(t *testing.T) (FormatterChecker, *mocks.Factory) {
	commandFactory := mocks.NewFactory(t)
	return NewFormatterChecker(log.NewLogger(), commandFactory), commandFactory
}

func createCommand(t *testing.T, output string, err error) *mocks.Command {
	cmd := mocks.NewCommand(t)
	cmd.On("PrintableCommandArgs").Return("xcpretty --version")
	cmd.On("RunAndReturnTrimmedCombinedOutput").Return(output, err)
	return cmd
}
