package fileremover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenMissingPath_WhenRemoveAll_ThenSucceeds(t *testing.T) {
	// Given
	remover := NewFileRemover()
	pth := filepath.Join(t.TempDir(), "result.xcresult")

	// When
	err := remover.RemoveAll(pth)

	// Then
	assert.NoError(t, err)
}

func Test_GivenPartiallyWrittenBundle_WhenRemoveAll_ThenItIsGone(t *testing.T) {
	// Given
	remover := NewFileRemover()
	pth := filepath.Join(t.TempDir(), "result.xcresult")
	require.NoError(t, os.MkdirAll(filepath.Join(pth, "1_Test"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pth, "1_Test", "action_TestSummaries.plist"), []byte("<plist"), 0644))

	// When
	err := remover.RemoveAll(pth)

	// Then
	require.NoError(t, err)
	_, err = os.Stat(pth)
	assert.True(t, os.IsNotExist(err))
}

func Test_GivenStaticLibraries_WhenRemoveMatching_ThenOnlyMatchingFilesAreRemoved(t *testing.T) {
	// Given
	remover := NewFileRemover()
	root := t.TempDir()
	library := filepath.Join(root, "Build", "Products", "Debug-iphonesimulator", "libLTKit.a")
	xctestrun := filepath.Join(root, "Build", "Products", "LTKit.xctestrun")
	archiveDir := filepath.Join(root, "Build", "Intermediates", "dir.a")
	for _, pth := range []string{library, xctestrun} {
		require.NoError(t, os.MkdirAll(filepath.Dir(pth), 0755))
		require.NoError(t, os.WriteFile(pth, nil, 0644))
	}
	require.NoError(t, os.MkdirAll(archiveDir, 0755))

	// When
	removed, err := remover.RemoveMatching(root, "*.a")

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{library}, removed)
	assert.NoFileExists(t, library)
	assert.FileExists(t, xctestrun)
	assert.DirExists(t, archiveDir)
}

func Test_GivenInvalidPattern_WhenRemoveMatching_ThenFails(t *testing.T) {
	// When
	_, err := NewFileRemover().RemoveMatching(t.TempDir(), "[")

	// Then
	assert.Error(t, err)
}
