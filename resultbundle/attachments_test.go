package resultbundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenScreenshotAttachments_WhenRenamed_ThenNamesDescribeTheActivity(t *testing.T) {
	// Given
	bundle := t.TempDir()
	passing := testCase("testFoo()", "Success", 0.5)
	passing["TestIdentifier"] = "LTFooTests/testFoo()"
	passing["ActivitySummaries"] = []interface{}{activity("Tap button", "A1", nil,
		activity("Take screenshot", "A2", []interface{}{screenshot("Screenshot_A2.png", 1)}),
	)}
	failing := testCase("testBar()", "Failure", 1, failure("LTFooTests.m", 3, "failed"))
	failing["TestIdentifier"] = "LTFooTests/testBar()"
	failing["ActivitySummaries"] = []interface{}{activity("Swipe", "B1", []interface{}{screenshot("Screenshot_B1.jpg", 2)})}

	writeSummaries(t, bundle, "1_Test", summaries("1.2", simulator(), testClass("LTFooTests", passing, failing)))
	attachmentDir := filepath.Join(bundle, "1_Test", AttachmentsDirName)
	writeAttachment(t, attachmentDir, "Screenshot_A2.png")
	writeAttachment(t, attachmentDir, "Screenshot_B1.jpg")

	// When
	dirs, err := RenameAttachments(bundle)

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{attachmentDir}, dirs)
	assert.FileExists(t, filepath.Join(attachmentDir, "LTFooTests-testFoo()_2001-01-01_12-00-01_Take screenshot_A2.png"))
	assert.FileExists(t, filepath.Join(attachmentDir, "Failures", "LTFooTests-testBar()_2001-01-01_12-00-02_Swipe_B1.jpg"))
	assert.NoFileExists(t, filepath.Join(attachmentDir, "Screenshot_A2.png"))
}

func Test_GivenLegacyScreenshot_WhenRenamed_ThenExistingFormatIsRenamed(t *testing.T) {
	// Given
	bundle := t.TempDir()
	test := testCase("testFoo()", "Success", 0.5)
	legacy := activity("Launch", "C1", nil)
	legacy["HasScreenshotData"] = true
	legacy["StartTimeInterval"] = 60.0
	test["ActivitySummaries"] = []interface{}{legacy}

	writeSummaries(t, bundle, "1_Test", summaries("1.2", simulator(), testClass("LTFooTests", test)))
	attachmentDir := filepath.Join(bundle, "1_Test", AttachmentsDirName)
	writeAttachment(t, attachmentDir, "Screenshot_C1.png")

	// When
	dirs, err := RenameAttachments(bundle)

	// Then
	require.NoError(t, err)
	assert.Len(t, dirs, 1)
	assert.FileExists(t, filepath.Join(attachmentDir, "LTFooTests-testFoo()_2001-01-01_12-01-00_Launch_C1.png"))
}

func Test_GivenBundleWithoutAttachments_WhenRenamed_ThenNothingHappens(t *testing.T) {
	// Given
	bundle := t.TempDir()
	writeSummaries(t, bundle, "1_Test", summaries("1.2", simulator(), testClass("LTFooTests", testCase("testFoo()", "Success", 1))))

	// When
	dirs, err := RenameAttachments(bundle)

	// Then
	require.NoError(t, err)
	assert.Empty(t, dirs)
}

func activity(title, uuid string, attachments []interface{}, subActivities ...map[string]interface{}) map[string]interface{} {
	object := map[string]interface{}{
		"Title":             title,
		"UUID":              uuid,
		"StartTimeInterval": 0.0,
	}
	if len(attachments) > 0 {
		object["Attachments"] = attachments
	}
	if len(subActivities) > 0 {
		object["SubActivities"] = toList(subActivities)
	}
	return object
}

func screenshot(fileName string, timestamp float64) map[string]interface{} {
	return map[string]interface{}{
		"Filename":  fileName,
		"Timestamp": timestamp,
	}
}

func writeAttachment(t *testing.T, dir, name string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("image"), 0644))
}
