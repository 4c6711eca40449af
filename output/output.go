package output

import (
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/bitrise/configs"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/testaddon"
)

// Exported environment variables ...
const (
	TestResultKey          = "XCODEBUILD_TEST_RESULT"
	JUnitReportPathKey     = "XCODEBUILD_JUNIT_REPORT_PATH"
	RawLogPathKey          = "XCODEBUILD_RAW_LOG_PATH"
	ResultBundleZipPathKey = "XCODEBUILD_RESULT_BUNDLE_ZIP_PATH"
	AttachmentsZipPathKey  = "XCODEBUILD_TEST_ATTACHMENTS_PATH"
	testRunResultSucceeded = "succeeded"
	testRunResultFailed    = "failed"
)

// OutputExporter is implemented by go-steputils' export.Exporter.
type OutputExporter interface {
	ExportOutputFile(key, sourcePath, destinationPath string) error
	ExportOutputFilesZip(key string, sourcePaths []string, zipPath string) error
}

// Exporter ...
type Exporter interface {
	ExportTestRunResult(failed bool)
	ExportJUnitReport(deployDir, junitPath, bundleName string) error
	ExportRawLog(deployDir, rawLogPath string) error
	ExportResultBundle(deployDir, resultBundlePath string) error
	ExportAttachments(deployDir string, attachmentDirs []string, bundleName string) error
}

type exporter struct {
	envRepository     env.Repository
	logger            log.Logger
	outputExporter    OutputExporter
	testAddonExporter testaddon.Exporter
}

// NewExporter ...
func NewExporter(envRepository env.Repository, logger log.Logger, outputExporter OutputExporter, testAddonExporter testaddon.Exporter) Exporter {
	return &exporter{
		envRepository:     envRepository,
		logger:            logger,
		outputExporter:    outputExporter,
		testAddonExporter: testAddonExporter,
	}
}

func (e exporter) ExportTestRunResult(failed bool) {
	status := testRunResultSucceeded
	if failed {
		status = testRunResultFailed
	}
	if err := e.envRepository.Set(TestResultKey, status); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", TestResultKey, err)
	}
}

func (e exporter) ExportJUnitReport(deployDir, junitPath, bundleName string) error {
	deployPth := filepath.Join(deployDir, filepath.Base(junitPath))
	if err := e.outputExporter.ExportOutputFile(JUnitReportPathKey, junitPath, deployPth); err != nil {
		return fmt.Errorf("failed to export %s: %w", JUnitReportPathKey, err)
	}

	if addonResultPath := e.envRepository.Get(configs.BitrisePerStepTestResultDirEnvKey); len(addonResultPath) > 0 {
		e.logger.Println()
		e.logger.Infof("Exporting test results")

		if err := e.testAddonExporter.CopyAndSaveMetadata(testaddon.AddonCopy{
			SourceTestOutputPath:  junitPath,
			TargetAddonPath:       addonResultPath,
			TargetAddonBundleName: bundleName,
		}); err != nil {
			e.logger.Warnf("Failed to export test results: %s", err)
		}
	}

	return nil
}

func (e exporter) ExportRawLog(deployDir, rawLogPath string) error {
	deployPth := filepath.Join(deployDir, filepath.Base(rawLogPath))
	if err := e.outputExporter.ExportOutputFile(RawLogPathKey, rawLogPath, deployPth); err != nil {
		return fmt.Errorf("failed to copy xcodebuild output log file from (%s) to (%s): %w", rawLogPath, deployPth, err)
	}
	return nil
}

func (e exporter) ExportResultBundle(deployDir, resultBundlePath string) error {
	zipPth := filepath.Join(deployDir, filepath.Base(resultBundlePath)+".zip")
	if err := e.outputExporter.ExportOutputFilesZip(ResultBundleZipPathKey, []string{resultBundlePath}, zipPth); err != nil {
		return fmt.Errorf("failed to export %s: %w", ResultBundleZipPathKey, err)
	}
	return nil
}

func (e exporter) ExportAttachments(deployDir string, attachmentDirs []string, bundleName string) error {
	zipPth := filepath.Join(deployDir, fmt.Sprintf("%s-xc-test-Attachments.zip", bundleName))
	if err := e.outputExporter.ExportOutputFilesZip(AttachmentsZipPathKey, attachmentDirs, zipPth); err != nil {
		return fmt.Errorf("failed to export %s: %w", AttachmentsZipPathKey, err)
	}
	return nil
}
