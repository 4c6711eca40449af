package testaddon

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenNormalBundleName_WhenExport_ThenCreatesOutputStructure(t *testing.T) {
	runTest(t, "LTKit", "LTKit")
}

func Test_GivenBundleNameWithSpecialCharacters_WhenExport_ThenReplacesSpecialCharacters(t *testing.T) {
	runTest(t, "W/eir/d:Na::me/", "W-eir-d-Na--me-")
}

func runTest(t *testing.T, bundleName string, expectedBundleName string) {
	// Given
	junitPath, outputDir := prepareArtifacts(t)
	exporter := NewExporter(log.NewLogger(), command.NewFactory(env.NewRepository()), fileutil.NewFileManager())

	// When
	err := exporter.CopyAndSaveMetadata(AddonCopy{
		SourceTestOutputPath:  junitPath,
		TargetAddonPath:       outputDir,
		TargetAddonBundleName: bundleName,
	})

	// Then
	require.NoError(t, err)

	bundleDir := filepath.Join(outputDir, expectedBundleName)
	assert.FileExists(t, filepath.Join(bundleDir, filepath.Base(junitPath)))

	content, err := os.ReadFile(filepath.Join(bundleDir, metadataFileName))
	require.NoError(t, err)
	var metadata map[string]string
	require.NoError(t, json.Unmarshal(content, &metadata))
	assert.Equal(t, map[string]string{"test-name": expectedBundleName}, metadata)
}

func prepareArtifacts(t *testing.T) (string, string) {
	tempDir := t.TempDir()

	junitPath := filepath.Join(tempDir, "result", "junit.xml")
	err := fileutil.NewFileManager().Write(junitPath, "<testsuites></testsuites>", 0777)
	require.NoError(t, err)
	require.FileExists(t, junitPath)

	return junitPath, filepath.Join(tempDir, "output")
}
