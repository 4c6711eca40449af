package step

import (
	"errors"
	"testing"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-xcode/v2/xcodeversion"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/step/mocks"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/xcodecommand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type configParserMocks struct {
	formatterChecker *mocks.FormatterChecker
	xcconfigWriter   *mocks.XcconfigWriter
	pathModifier     *mocks.PathModifier
}

func Test_GivenWorkspace_WhenConfigProcessed_ThenDefaultsAreApplied(t *testing.T) {
	// Given
	configParser, mocks := createConfigParser(t, defaultEnvValues(), newVersion(10))
	mocks.pathModifier.On("AbsPath", "./LTKit.xcworkspace").Return("/work/LTKit.xcworkspace", nil)

	// When
	cfg, err := configParser.ProcessConfig()

	// Then
	require.NoError(t, err)
	assert.Equal(t, ActionBuildAndTest, cfg.Action)
	assert.Equal(t, "/work/LTKit.xcworkspace", cfg.Options.Workspace)
	assert.Empty(t, cfg.Options.Project)
	assert.Equal(t, "LTKit", cfg.Options.Scheme)
	assert.Equal(t, "Debug", cfg.Options.Configuration)
	assert.Equal(t, []string{"arm64", "x86_64"}, cfg.Options.Arch)
	assert.Equal(t, "output/tests/result", cfg.ResultBundlePath)
	assert.Equal(t, "output/logs/xcodebuild.log", cfg.RawLogPath)
	assert.Equal(t, "output/tests/junit.xml", cfg.JUnitReportPath)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, xcodecommand.XcodebuildFormatter, cfg.LogFormatter)
	require.NotNil(t, cfg.Options.TreatWarningsAsErrors)
	assert.True(t, *cfg.Options.TreatWarningsAsErrors)
	assert.Nil(t, cfg.Options.EnableThreadSanitizer)
	assert.Nil(t, cfg.Options.EnableUndefinedBehaviorSanitizer)
}

func Test_GivenXcodeWithoutTestSummaries_WhenConfigProcessed_ThenTestActionIsStillAccepted(t *testing.T) {
	// Given
	xcodeVersion := newVersion(15)
	configParser, mocks := createConfigParser(t, defaultEnvValues(), xcodeVersion)
	mocks.pathModifier.On("AbsPath", "./LTKit.xcworkspace").Return("/work/LTKit.xcworkspace", nil)

	// When
	cfg, err := configParser.ProcessConfig()

	// Then
	require.NoError(t, err)
	assert.Equal(t, ActionBuildAndTest, cfg.Action)
	assert.True(t, xcodeVersion.Major >= minXcodeMajorVersionWithoutTestSummaries)
}

func Test_GivenProjectWithUnknownExtension_WhenConfigProcessed_ThenFails(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	envValues["project_path"] = "./LTKit.xcproj"
	configParser, mocks := createConfigParser(t, envValues, newVersion(10))
	mocks.pathModifier.On("AbsPath", "./LTKit.xcproj").Return("/work/LTKit.xcproj", nil)

	// When
	_, err := configParser.ProcessConfig()

	// Then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid project file")
}

func Test_GivenMissingScheme_WhenConfigProcessed_ThenFails(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	envValues["scheme"] = ""
	configParser, mocks := createConfigParser(t, envValues, newVersion(10))
	mocks.pathModifier.On("AbsPath", mock.Anything).Return("/work/LTKit.xcworkspace", nil)

	// When
	_, err := configParser.ProcessConfig()

	// Then
	require.Error(t, err)
}

func Test_GivenInvalidTriStateFlag_WhenConfigProcessed_ThenFails(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	envValues["enable_thread_sanitizer"] = "maybe"
	configParser, mocks := createConfigParser(t, envValues, newVersion(10))
	mocks.pathModifier.On("AbsPath", mock.Anything).Return("/work/LTKit.xcworkspace", nil)

	// When
	_, err := configParser.ProcessConfig()

	// Then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enable_thread_sanitizer")
}

func Test_GivenTooManyAttempts_WhenConfigProcessed_ThenFails(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	envValues["max_attempts"] = "11"
	configParser, mocks := createConfigParser(t, envValues, newVersion(10))
	mocks.pathModifier.On("AbsPath", mock.Anything).Return("/work/LTKit.xcworkspace", nil)

	// When
	_, err := configParser.ProcessConfig()

	// Then
	require.Error(t, err)
}

func Test_GivenRunTestPackage_WhenConfigProcessed_ThenProjectIsNotRequired(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	envValues["action"] = ActionRunTestPackage
	envValues["project_path"] = ""
	envValues["scheme"] = ""
	envValues["package_path"] = "build/package"
	configParser, mocks := createConfigParser(t, envValues, newVersion(10))
	mocks.pathModifier.On("AbsPath", "build/package").Return("/work/build/package", nil)

	// When
	cfg, err := configParser.ProcessConfig()

	// Then
	require.NoError(t, err)
	assert.Equal(t, "/work/build/package", cfg.PackagePath)
	assert.Empty(t, cfg.Options.Workspace)
	assert.Empty(t, cfg.Options.Configuration)
}

func Test_GivenXcconfigContent_WhenConfigProcessed_ThenXcconfigPathIsUsed(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	envValues["xcconfig_content"] = "COMPILER_INDEX_STORE_ENABLE = NO"
	configParser, mocks := createConfigParser(t, envValues, newVersion(10))
	mocks.pathModifier.On("AbsPath", mock.Anything).Return("/work/LTKit.xcworkspace", nil)
	mocks.xcconfigWriter.On("Write", "COMPILER_INDEX_STORE_ENABLE = NO").Return("/tmp/xcconfig/temp.xcconfig", nil)

	// When
	cfg, err := configParser.ProcessConfig()

	// Then
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xcconfig/temp.xcconfig", cfg.Options.XCConfigPath)
}

func Test_GivenXcprettyIsNotInstalled_WhenConfigProcessed_ThenFallsBackToXcodebuildFormatter(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	envValues["log_formatter"] = xcodecommand.XcprettyFormatter
	configParser, mocks := createConfigParser(t, envValues, newVersion(10))
	mocks.pathModifier.On("AbsPath", mock.Anything).Return("/work/LTKit.xcworkspace", nil)
	mocks.formatterChecker.On("CheckXcpretty").Return(nil, errors.New("xcpretty: command not found"))

	// When
	cfg, err := configParser.ProcessConfig()

	// Then
	require.NoError(t, err)
	assert.Equal(t, xcodecommand.XcodebuildFormatter, cfg.LogFormatter)
}

func Test_GivenUnknownAction_WhenConfigProcessed_ThenFails(t *testing.T) {
	// Given
	envValues := defaultEnvValues()
	envValues["action"] = "lt_distribution"
	configParser, _ := createConfigParser(t, envValues, newVersion(10))

	// When
	_, err := configParser.ProcessConfig()

	// Then
	require.Error(t, err)
}

func defaultEnvValues() map[string]string {
	return map[string]string{
		"action":                              ActionBuildAndTest,
		"with_tests":                          "no",
		"project_path":                        "./LTKit.xcworkspace",
		"scheme":                              "LTKit",
		"arch":                                "arm64 x86_64",
		"treat_warnings_as_errors":            "yes",
		"enable_undefined_behavior_sanitizer": "no",
		"export_attachments":                  "no",
		"max_attempts":                        "3",
		"log_formatter":                       xcodecommand.XcodebuildFormatter,
		"verbose":                             "no",
	}
}

func createConfigParser(t *testing.T, envValues map[string]string, xcodeVersion xcodeversion.Version) (XcodebuildConfigParser, configParserMocks) {
	envRepository := mocks.NewRepository(t)

	call := envRepository.On("Get", mock.Anything)
	call.RunFn = func(arguments mock.Arguments) {
		key := arguments[0].(string)
		call.ReturnArguments = mock.Arguments{envValues[key]}
	}

	logger := log.NewLogger()
	inputParser := stepconf.NewInputParser(envRepository)
	formatterChecker := mocks.NewFormatterChecker(t)
	xcconfigWriter := mocks.NewXcconfigWriter(t)
	pathModifier := mocks.NewPathModifier(t)

	configParser := NewXcodebuildConfigParser(inputParser, logger, xcodeVersion, formatterChecker, xcconfigWriter, pathModifier)
	return configParser, configParserMocks{
		formatterChecker: formatterChecker,
		xcconfigWriter:   xcconfigWriter,
		pathModifier:     pathModifier,
	}
}

func newVersion(major int64) xcodeversion.Version {
	return xcodeversion.Version{
		Version:      "test-version",
		BuildVersion: "test-build",
		Major:        major,
	}
}
