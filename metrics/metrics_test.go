package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenRetriedInvocation_WhenRecorded_ThenAttemptsAndSignaturesAreCounted(t *testing.T) {
	// Given
	recorder := NewRecorder()

	// When
	recorder.RecordInvocation("build_and_test", 3, 65, []string{"simulator boot timeout", "simulator boot timeout"})
	recorder.RecordInvocation("build_and_test", 1, 0, nil)

	// Then
	assert.Equal(t, 4.0, testutil.ToFloat64(recorder.attemptsTotal.WithLabelValues("build_and_test")))
	assert.Equal(t, 0.0, testutil.ToFloat64(recorder.lastExitCode.WithLabelValues("build_and_test")))
	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.transientFailuresTotal.WithLabelValues("simulator boot timeout")))
}

func Test_GivenRecordedMetrics_WhenWrittenToTextfile_ThenFileHoldsThem(t *testing.T) {
	// Given
	recorder := NewRecorder()
	recorder.RecordInvocation("run_test_package", 1, 65, nil)
	recorder.RecordTestReport("run_test_package", 12, 2)
	pth := filepath.Join(t.TempDir(), "xcodebuild.prom")

	// When
	err := recorder.WriteTextfile(pth)

	// Then
	require.NoError(t, err)
	content, err := os.ReadFile(pth)
	require.NoError(t, err)
	assert.Contains(t, string(content), `xcodebuild_tests{action="run_test_package"} 12`)
	assert.Contains(t, string(content), `xcodebuild_test_failures{action="run_test_package"} 2`)
	assert.Contains(t, string(content), `xcodebuild_last_exit_code{action="run_test_package"} 65`)
}

func Test_GivenUnwritableDirectory_WhenWrittenToTextfile_ThenFails(t *testing.T) {
	// Given
	recorder := NewRecorder()
	pth := filepath.Join(t.TempDir(), "missing", "xcodebuild.prom")

	// When
	err := recorder.WriteTextfile(pth)

	// Then
	assert.Error(t, err)
}
