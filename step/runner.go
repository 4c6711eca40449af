package step

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/fileremover"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/output"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/resultbundle"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/simulator"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/testreport"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/xcodebuild"
)

var (
	// ErrBuildFailed ...
	ErrBuildFailed = errors.New("build failed, see logs for more details")
	// ErrTestsFailed ...
	ErrTestsFailed = errors.New("tests failed, see logs for more details")
)

// MetricsRecorder ...
type MetricsRecorder interface {
	RecordInvocation(action string, attempts int, exitCode int, transientErrors []string)
	RecordTestReport(action string, tests, failures int)
	WriteTextfile(pth string) error
}

// Result ...
type Result struct {
	Xcodebuild xcodebuild.Result

	TestsRun        bool
	FailedTestCases []string

	// BundleName names the test results in the test add-on.
	BundleName       string
	RawLogPath       string
	ResultBundlePath string
	JUnitReportPath  string
	TestPackagePath  string
	AttachmentDirs   []string
}

type actionHandler func(r XcodebuildRunner, cfg Config) (Result, error)

var actionHandlers = map[string]actionHandler{
	ActionBuild:            XcodebuildRunner.build,
	ActionBuildAndTest:     XcodebuildRunner.buildAndTest,
	ActionBuildTestPackage: XcodebuildRunner.buildTestPackage,
	ActionRunTestPackage:   XcodebuildRunner.runTestPackage,
	ActionAnalyze:          XcodebuildRunner.analyze,
}

// XcodebuildRunner ...
type XcodebuildRunner struct {
	logger           log.Logger
	xcodebuild       xcodebuild.Xcodebuild
	simulatorManager simulator.Manager
	fileRemover      fileremover.FileRemover
	outputExporter   output.Exporter
	metricsRecorder  MetricsRecorder
}

// NewXcodebuildRunner ...
func NewXcodebuildRunner(logger log.Logger, xcodebuild xcodebuild.Xcodebuild, simulatorManager simulator.Manager, fileRemover fileremover.FileRemover, outputExporter output.Exporter, metricsRecorder MetricsRecorder) XcodebuildRunner {
	return XcodebuildRunner{
		logger:           logger,
		xcodebuild:       xcodebuild,
		simulatorManager: simulatorManager,
		fileRemover:      fileRemover,
		outputExporter:   outputExporter,
		metricsRecorder:  metricsRecorder,
	}
}

// Run runs the configured action.
// ErrBuildFailed and ErrTestsFailed are returned when xcodebuild or the tests fail, other errors mean the action could not be performed.
func (r XcodebuildRunner) Run(cfg Config) (Result, error) {
	handler, ok := actionHandlers[cfg.Action]
	if !ok {
		return Result{}, fmt.Errorf("unknown action: %s", cfg.Action)
	}

	r.logger.Infof("Running %s", cfg.Action)
	return handler(r, cfg)
}

func (r XcodebuildRunner) build(cfg Config) (Result, error) {
	buildAction := xcodebuild.ActionBuild
	if cfg.WithTests {
		buildAction = xcodebuild.ActionBuildForTesting
	}

	opts := cfg.Options
	opts.Actions = []xcodebuild.BuildAction{xcodebuild.ActionClean, buildAction}

	result, err := r.runXcodebuild(cfg, opts)
	if err != nil {
		return result, err
	}
	if result.Xcodebuild.ExitCode != 0 {
		return result, ErrBuildFailed
	}

	r.logger.Donef("Build completed successfully")
	return result, nil
}

func (r XcodebuildRunner) buildAndTest(cfg Config) (Result, error) {
	r.shutdownSimulators()

	opts := cfg.Options
	opts.ResultBundlePath = cfg.ResultBundlePath
	opts.Actions = []xcodebuild.BuildAction{xcodebuild.ActionClean, xcodebuild.ActionTest}

	result, err := r.runXcodebuild(cfg, opts)
	if err != nil {
		return result, err
	}
	result.BundleName = cfg.Options.Scheme

	if err := r.collectTestResults(cfg, &result); err != nil {
		return result, err
	}
	if len(result.FailedTestCases) > 0 {
		return result, ErrTestsFailed
	}
	if result.Xcodebuild.ExitCode != 0 {
		return result, ErrBuildFailed
	}

	r.logger.Donef("Build and test completed successfully")
	return result, nil
}

func (r XcodebuildRunner) buildTestPackage(cfg Config) (Result, error) {
	opts := cfg.Options
	opts.AdditionalArgs = append(append([]string{}, opts.AdditionalArgs...),
		"-IDEBuildLocationStyle=Custom",
		"-IDECustomBuildLocationType=Absolute",
		"-IDECustomBuildProductsPath="+cfg.PackagePath,
	)
	opts.Actions = []xcodebuild.BuildAction{xcodebuild.ActionClean, xcodebuild.ActionBuildForTesting}

	result, err := r.runXcodebuild(cfg, opts)
	if err != nil {
		return result, err
	}
	if result.Xcodebuild.ExitCode != 0 {
		return result, ErrBuildFailed
	}

	if _, err := findXCTestRun(cfg.PackagePath); err != nil {
		return result, err
	}

	// Static libraries are only needed for linking.
	removed, err := r.fileRemover.RemoveMatching(cfg.PackagePath, "*.a")
	if err != nil {
		return result, fmt.Errorf("failed to remove static libraries from the test package: %w", err)
	}
	r.logger.Debugf("Removed %d static libraries from the test package", len(removed))

	result.TestPackagePath = cfg.PackagePath
	r.logger.Donef("Build test package completed successfully")
	return result, nil
}

func (r XcodebuildRunner) runTestPackage(cfg Config) (Result, error) {
	xctestrunPath, err := findXCTestRun(cfg.PackagePath)
	if err != nil {
		return Result{}, err
	}

	r.shutdownSimulators()

	opts := xcodebuild.Options{
		XCTestRun:        xctestrunPath,
		Destination:      cfg.Options.Destination,
		DerivedDataPath:  cfg.Options.DerivedDataPath,
		OtherFlags:       cfg.Options.OtherFlags,
		ResultBundlePath: cfg.ResultBundlePath,
		Actions:          []xcodebuild.BuildAction{xcodebuild.ActionTestWithoutBuilding},
	}

	result, err := r.runXcodebuild(cfg, opts)
	if err != nil {
		return result, err
	}
	result.BundleName = strings.TrimSuffix(filepath.Base(xctestrunPath), filepath.Ext(xctestrunPath))

	if err := r.collectTestResults(cfg, &result); err != nil {
		return result, err
	}
	if len(result.FailedTestCases) > 0 || result.Xcodebuild.ExitCode != 0 {
		return result, ErrTestsFailed
	}

	r.logger.Donef("Testing completed successfully")
	return result, nil
}

func (r XcodebuildRunner) analyze(cfg Config) (Result, error) {
	if err := r.fileRemover.RemoveAll(cfg.AnalyzerOutputDir); err != nil {
		return Result{}, fmt.Errorf("failed to remove previous static analyzer reports: %w", err)
	}

	opts := cfg.Options
	opts.ResultBundlePath = cfg.ResultBundlePath
	opts.AdditionalArgs = append(append([]string{}, opts.AdditionalArgs...),
		"CLANG_ANALYZER_OUTPUT=html",
		"CLANG_ANALYZER_OUTPUT_DIR="+cfg.AnalyzerOutputDir,
	)
	opts.Actions = []xcodebuild.BuildAction{xcodebuild.ActionClean, xcodebuild.ActionAnalyze}

	result, err := r.runXcodebuild(cfg, opts)
	if err != nil {
		return result, err
	}
	if result.Xcodebuild.ExitCode != 0 {
		return result, ErrBuildFailed
	}

	r.logger.Donef("Static analysis completed, reports are available in %s", cfg.AnalyzerOutputDir)
	return result, nil
}

func (r XcodebuildRunner) runXcodebuild(cfg Config, opts xcodebuild.Options) (Result, error) {
	cmd, err := xcodebuild.Command(opts, cfg.LogFormatter, cfg.RawLogPath)
	if err != nil {
		return Result{}, fmt.Errorf("invalid xcodebuild options: %w", err)
	}

	invocationResult, err := r.xcodebuild.Run(xcodebuild.Invocation{
		Command:          cmd,
		ResultBundlePath: opts.ResultBundlePath,
		RawLogPath:       cfg.RawLogPath,
		MaxAttempts:      cfg.MaxAttempts,
	})
	result := Result{
		Xcodebuild:       invocationResult,
		RawLogPath:       cfg.RawLogPath,
		ResultBundlePath: opts.ResultBundlePath,
	}
	if err != nil {
		return result, err
	}

	r.metricsRecorder.RecordInvocation(cfg.Action, invocationResult.Attempts, invocationResult.ExitCode, invocationResult.TransientErrors)

	if invocationResult.ExitCode != 0 {
		printLastLinesOfRawXcodebuildLog(r.logger, cfg.RawLogPath)
	}

	return result, nil
}

func (r XcodebuildRunner) collectTestResults(cfg Config, result *Result) error {
	r.logger.Println()
	r.logger.Infof("Converting result bundle to JUnit report")

	if _, err := resultbundle.WriteJUnit(cfg.ResultBundlePath, cfg.JUnitReportPath); err != nil {
		return fmt.Errorf("failed to convert result bundle: %w", err)
	}
	result.TestsRun = true
	result.JUnitReportPath = cfg.JUnitReportPath

	r.logger.Printf("Parsing test results")
	summary, err := testreport.Parse(cfg.JUnitReportPath)
	if err != nil {
		return err
	}
	result.FailedTestCases = summary.FailedTestCases

	r.metricsRecorder.RecordTestReport(cfg.Action, summary.Tests, len(summary.FailedTestCases))
	r.logger.Printf("%d test cases, %d failed", summary.Tests, len(summary.FailedTestCases))

	if len(summary.FailedTestCases) > 0 {
		r.logger.Errorf("Failed test cases:")
		r.logger.Printf("%s", failedTestCasesTable(summary.FailedTestCases))
	}

	if cfg.ExportAttachments {
		attachmentDirs, err := resultbundle.RenameAttachments(cfg.ResultBundlePath)
		if err != nil {
			r.logger.Warnf("Failed to rename test attachments: %s", err)
		}
		result.AttachmentDirs = attachmentDirs
	}

	return nil
}

func (r XcodebuildRunner) shutdownSimulators() {
	r.logger.Println()
	r.logger.Infof("Shutting down simulators")
	if err := r.simulatorManager.ShutdownAll(); err != nil {
		r.logger.Warnf("Failed to shut down simulators: %s", err)
	}
}

// Export exports the outputs of a run, including failed ones.
func (r XcodebuildRunner) Export(cfg Config, result Result) error {
	if result.TestsRun {
		r.outputExporter.ExportTestRunResult(len(result.FailedTestCases) > 0 || result.Xcodebuild.ExitCode != 0)
	}

	if cfg.DeployDir == "" {
		r.logger.Warnf("No deploy directory set, skipping file exports")
	} else {
		if result.RawLogPath != "" && result.Xcodebuild.Attempts > 0 {
			if err := r.outputExporter.ExportRawLog(cfg.DeployDir, result.RawLogPath); err != nil {
				r.logger.Warnf("Failed to export raw xcodebuild log: %s", err)
			}
		}

		if result.ResultBundlePath != "" && result.Xcodebuild.Attempts > 0 {
			if err := r.outputExporter.ExportResultBundle(cfg.DeployDir, result.ResultBundlePath); err != nil {
				r.logger.Warnf("Failed to export result bundle: %s", err)
			}
		}

		if len(result.AttachmentDirs) > 0 {
			if err := r.outputExporter.ExportAttachments(cfg.DeployDir, result.AttachmentDirs, result.BundleName); err != nil {
				r.logger.Warnf("Failed to export test attachments: %s", err)
			}
		}

		if result.JUnitReportPath != "" {
			if err := r.outputExporter.ExportJUnitReport(cfg.DeployDir, result.JUnitReportPath, result.BundleName); err != nil {
				return fmt.Errorf("failed to export JUnit report: %w", err)
			}
		}
	}

	if cfg.MetricsTextfilePath != "" {
		if err := r.metricsRecorder.WriteTextfile(cfg.MetricsTextfilePath); err != nil {
			return err
		}
		r.logger.Printf("Metrics written to %s", cfg.MetricsTextfilePath)
	}

	return nil
}

func findXCTestRun(packagePath string) (string, error) {
	xctestrunPaths, err := filepath.Glob(filepath.Join(packagePath, "*.xctestrun"))
	if err != nil {
		return "", fmt.Errorf("failed to search xctestrun files: %w", err)
	}
	if len(xctestrunPaths) != 1 {
		return "", fmt.Errorf("expected a single xctestrun file in the test package (%s), got: %v", packagePath, xctestrunPaths)
	}
	return xctestrunPaths[0], nil
}
