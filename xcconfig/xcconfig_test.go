package xcconfig

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/bitrise-steplib/steps-xcodebuild-junit/xcconfig/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_WhenWritingXCConfigContent_ThenItShouldReturnFilePath(t *testing.T) {
	// Given
	testContent := "TREAT_WARNINGS_AS_ERRORS = YES"
	testTempDir := "temp_dir"
	expectedPath := filepath.Join(testTempDir, "temp.xcconfig")
	mockPathProvider := mocks.NewPathProvider(t)
	mockPathProvider.On("CreateTempDir", "").Return(testTempDir, nil)
	mockFileWriter := mocks.NewFileWriter(t)
	mockFileWriter.On("Write", expectedPath, testContent, fs.FileMode(0644)).Return(nil)
	xcconfigWriter := NewWriter(mockPathProvider, mocks.NewPathChecker(t), mockFileWriter)

	// When
	path, err := xcconfigWriter.Write(testContent)

	// Then
	if assert.NoError(t, err) {
		assert.Equal(t, expectedPath, path)
	}
}

func Test_GivenExistingXCConfigFile_WhenWriting_ThenItsPathIsReturned(t *testing.T) {
	// Given
	mockPathChecker := mocks.NewPathChecker(t)
	mockPathChecker.On("IsPathExists", "Configs/CI.xcconfig").Return(true, nil)
	xcconfigWriter := NewWriter(mocks.NewPathProvider(t), mockPathChecker, mocks.NewFileWriter(t))

	// When
	path, err := xcconfigWriter.Write(" Configs/CI.xcconfig\n")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "Configs/CI.xcconfig", path)
}

func Test_GivenMissingXCConfigFile_WhenWriting_ThenFails(t *testing.T) {
	// Given
	mockPathChecker := mocks.NewPathChecker(t)
	mockPathChecker.On("IsPathExists", "Configs/CI.xcconfig").Return(false, nil)
	xcconfigWriter := NewWriter(mocks.NewPathProvider(t), mockPathChecker, mocks.NewFileWriter(t))

	// When
	_, err := xcconfigWriter.Write("Configs/CI.xcconfig")

	// Then
	assert.Error(t, err)
}

func Test_GivenTempDirFailure_WhenWriting_ThenFails(t *testing.T) {
	// Given
	mockPathProvider := mocks.NewPathProvider(t)
	mockPathProvider.On("CreateTempDir", "").Return("", errors.New("no space left on device"))
	xcconfigWriter := NewWriter(mockPathProvider, mocks.NewPathChecker(t), mocks.NewFileWriter(t))

	// When
	_, err := xcconfigWriter.Write("A = B")

	// Then
	assert.ErrorContains(t, err, "no space left on device")
}
