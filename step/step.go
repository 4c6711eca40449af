package step

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-xcode/v2/xcodeversion"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/xcconfig"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/xcodebuild"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/xcodecommand"
)

// Actions ...
const (
	ActionBuild            = "build"
	ActionBuildAndTest     = "build_and_test"
	ActionBuildTestPackage = "build_test_package"
	ActionRunTestPackage   = "run_test_package"
	ActionAnalyze          = "analyze"
)

const (
	defaultConfiguration     = "Debug"
	defaultRawLogPath        = "output/logs/xcodebuild.log"
	defaultResultBundlePath  = "output/tests/result"
	defaultJUnitReportPath   = "output/tests/junit.xml"
	defaultPackagePath       = "output/test_package"
	defaultAnalyzerOutputDir = "build/static_analysis"
	maxAttemptsLimit         = 10

	// Starting with Xcode 11 the result bundle keeps its data in a database instead of plist files.
	minXcodeMajorVersionWithoutTestSummaries = 11
)

// Input ...
type Input struct {
	Action    string `env:"action,opt[build,build_and_test,build_test_package,run_test_package,analyze]"`
	WithTests bool   `env:"with_tests,opt[yes,no]"`

	// Project Parameters
	ProjectPath   string `env:"project_path"`
	Scheme        string `env:"scheme"`
	Configuration string `env:"configuration"`
	Destination   string `env:"destination"`
	SDK           string `env:"sdk"`
	Arch          string `env:"arch"`

	// Build Configs
	DerivedDataPath                  string `env:"derived_data_path"`
	OtherFlags                       string `env:"other_flags"`
	XCConfigContent                  string `env:"xcconfig_content"`
	TreatWarningsAsErrors            string `env:"treat_warnings_as_errors"`
	EnableThreadSanitizer            string `env:"enable_thread_sanitizer"`
	EnableAddressSanitizer           string `env:"enable_address_sanitizer"`
	EnableUndefinedBehaviorSanitizer bool   `env:"enable_undefined_behavior_sanitizer,opt[yes,no]"`
	MaxAttempts                      int    `env:"max_attempts"`

	// Outputs
	ResultBundlePath  string `env:"result_bundle_path"`
	RawLogPath        string `env:"raw_logfile_path"`
	JUnitReportPath   string `env:"junit_report_path"`
	PackagePath       string `env:"package_path"`
	ExportAttachments bool   `env:"export_attachments,opt[yes,no]"`

	// Debug
	LogFormatter string `env:"log_formatter,opt[xcpretty,xcodebuild]"`
	Verbose      bool   `env:"verbose,opt[yes,no]"`

	DeployDir           string `env:"BITRISE_DEPLOY_DIR"`
	MetricsTextfilePath string `env:"metrics_textfile_path"`
}

// Config ...
type Config struct {
	Action    string
	WithTests bool

	// Options are shared by every xcodebuild run of the action, the build actions are set per run.
	Options xcodebuild.Options

	ResultBundlePath  string
	RawLogPath        string
	JUnitReportPath   string
	PackagePath       string
	AnalyzerOutputDir string
	ExportAttachments bool

	LogFormatter string
	MaxAttempts  int

	DeployDir           string
	MetricsTextfilePath string
}

// PathModifier ...
type PathModifier interface {
	AbsPath(pth string) (string, error)
}

// XcodebuildConfigParser ...
type XcodebuildConfigParser struct {
	inputParser      stepconf.InputParser
	logger           log.Logger
	xcodeVersion     xcodeversion.Version
	formatterChecker xcodecommand.FormatterChecker
	xcconfigWriter   xcconfig.Writer
	pathModifier     PathModifier
}

// NewXcodebuildConfigParser ...
func NewXcodebuildConfigParser(inputParser stepconf.InputParser, logger log.Logger, xcodeVersion xcodeversion.Version, formatterChecker xcodecommand.FormatterChecker, xcconfigWriter xcconfig.Writer, pathModifier PathModifier) XcodebuildConfigParser {
	return XcodebuildConfigParser{
		inputParser:      inputParser,
		logger:           logger,
		xcodeVersion:     xcodeVersion,
		formatterChecker: formatterChecker,
		xcconfigWriter:   xcconfigWriter,
		pathModifier:     pathModifier,
	}
}

// ProcessConfig ...
func (p XcodebuildConfigParser) ProcessConfig() (Config, error) {
	var input Input
	if err := p.inputParser.Parse(&input); err != nil {
		return Config{}, err
	}

	stepconf.Print(input)
	p.logger.Println()

	p.logger.EnableDebugLog(input.Verbose)

	p.logger.Printf("- xcodebuildVersion: %s (%s)", p.xcodeVersion.Version, p.xcodeVersion.BuildVersion)
	if isTestAction(input.Action) && p.xcodeVersion.Major >= minXcodeMajorVersionWithoutTestSummaries {
		p.logger.Warnf("Xcode version >= %d stores test results without action_TestSummaries.plist files, the JUnit report might be empty.", minXcodeMajorVersionWithoutTestSummaries)
	}

	opts := xcodebuild.Options{
		Scheme:          input.Scheme,
		Configuration:   input.Configuration,
		Destination:     input.Destination,
		SDK:             input.SDK,
		Arch:            strings.Fields(input.Arch),
		DerivedDataPath: input.DerivedDataPath,
		OtherFlags:      input.OtherFlags,
	}

	if input.Action != ActionRunTestPackage {
		if err := p.setProject(&opts, input.ProjectPath); err != nil {
			return Config{}, err
		}
		if input.Scheme == "" {
			return Config{}, fmt.Errorf("scheme is required for the %s action", input.Action)
		}
		if opts.Configuration == "" {
			opts.Configuration = defaultConfiguration
		}
	}

	var err error
	if opts.TreatWarningsAsErrors, err = parseOptionalBool("treat_warnings_as_errors", input.TreatWarningsAsErrors); err != nil {
		return Config{}, err
	}
	if opts.EnableThreadSanitizer, err = parseOptionalBool("enable_thread_sanitizer", input.EnableThreadSanitizer); err != nil {
		return Config{}, err
	}
	if opts.EnableAddressSanitizer, err = parseOptionalBool("enable_address_sanitizer", input.EnableAddressSanitizer); err != nil {
		return Config{}, err
	}
	if input.EnableUndefinedBehaviorSanitizer {
		enabled := true
		opts.EnableUndefinedBehaviorSanitizer = &enabled
	}

	packagePath := ""
	if input.Action == ActionBuildTestPackage || input.Action == ActionRunTestPackage {
		packagePath, err = p.pathModifier.AbsPath(valueOrDefault(input.PackagePath, defaultPackagePath))
		if err != nil {
			return Config{}, fmt.Errorf("failed to get absolute test package path: %w", err)
		}
	}

	analyzerOutputDir := ""
	if input.Action == ActionAnalyze {
		analyzerOutputDir, err = p.pathModifier.AbsPath(defaultAnalyzerOutputDir)
		if err != nil {
			return Config{}, fmt.Errorf("failed to get absolute static analyzer output path: %w", err)
		}
	}

	if strings.TrimSpace(input.XCConfigContent) != "" {
		xcconfigPath, err := p.xcconfigWriter.Write(input.XCConfigContent)
		if err != nil {
			return Config{}, fmt.Errorf("failed to write xcconfig: %w", err)
		}
		opts.XCConfigPath = xcconfigPath
	}

	maxAttempts := input.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = xcodebuild.DefaultMaxAttempts
	} else if maxAttempts < 0 || maxAttempts > maxAttemptsLimit {
		return Config{}, fmt.Errorf("invalid max_attempts: %d, should be between 1 and %d", maxAttempts, maxAttemptsLimit)
	}

	logFormatter := xcodecommand.SelectFormatter(p.logger, p.formatterChecker, valueOrDefault(input.LogFormatter, xcodecommand.XcprettyFormatter))
	p.logger.Println()

	return Config{
		Action:    input.Action,
		WithTests: input.WithTests,

		Options: opts,

		ResultBundlePath:  valueOrDefault(input.ResultBundlePath, defaultResultBundlePath),
		RawLogPath:        valueOrDefault(input.RawLogPath, defaultRawLogPath),
		JUnitReportPath:   valueOrDefault(input.JUnitReportPath, defaultJUnitReportPath),
		PackagePath:       packagePath,
		AnalyzerOutputDir: analyzerOutputDir,
		ExportAttachments: input.ExportAttachments,

		LogFormatter: logFormatter,
		MaxAttempts:  maxAttempts,

		DeployDir:           input.DeployDir,
		MetricsTextfilePath: input.MetricsTextfilePath,
	}, nil
}

func (p XcodebuildConfigParser) setProject(opts *xcodebuild.Options, projectPath string) error {
	if projectPath == "" {
		return fmt.Errorf("project_path is required")
	}

	absProjectPath, err := p.pathModifier.AbsPath(projectPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute project path: %w", err)
	}

	switch filepath.Ext(absProjectPath) {
	case ".xcodeproj":
		opts.Project = absProjectPath
	case ".xcworkspace":
		opts.Workspace = absProjectPath
	default:
		return fmt.Errorf("invalid project file (%s), extension should be (.xcodeproj/.xcworkspace)", absProjectPath)
	}
	return nil
}

func isTestAction(action string) bool {
	return action == ActionBuildAndTest || action == ActionRunTestPackage
}

func parseOptionalBool(name, value string) (*bool, error) {
	switch value {
	case "":
		return nil, nil
	case "yes":
		enabled := true
		return &enabled, nil
	case "no":
		enabled := false
		return &enabled, nil
	default:
		return nil, fmt.Errorf("invalid value for %s: %s, should be one of: yes, no or empty", name, value)
	}
}

func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
