package xcodebuild

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bitrise-steplib/steps-xcodebuild-junit/xcodecommand"
	"github.com/kballard/go-shellquote"
)

// BuildAction ...
type BuildAction string

// Build actions ...
const (
	ActionBuild               BuildAction = "build"
	ActionBuildForTesting     BuildAction = "build-for-testing"
	ActionAnalyze             BuildAction = "analyze"
	ActionArchive             BuildAction = "archive"
	ActionTest                BuildAction = "test"
	ActionTestWithoutBuilding BuildAction = "test-without-building"
	ActionInstallSrc          BuildAction = "install-src"
	ActionInstall             BuildAction = "install"
	ActionClean               BuildAction = "clean"
)

var buildActions = []BuildAction{
	ActionBuild,
	ActionBuildForTesting,
	ActionAnalyze,
	ActionArchive,
	ActionTest,
	ActionTestWithoutBuilding,
	ActionInstallSrc,
	ActionInstall,
	ActionClean,
}

// SDKs ...
var SDKs = []string{"iphoneos", "iphonesimulator"}

// Archs ...
var Archs = []string{"arm64", "x86_64", "armv7", "armv7s", "i386"}

// ParseBuildActions parses space separated build actions, like "clean build".
func ParseBuildActions(value string) ([]BuildAction, error) {
	var actions []BuildAction
	for _, token := range strings.Fields(value) {
		action := BuildAction(token)
		if !containsAction(buildActions, action) {
			return nil, fmt.Errorf("unknown build action: %s", token)
		}
		actions = append(actions, action)
	}

	if len(actions) == 0 {
		return nil, errors.New("no build action provided")
	}
	return actions, nil
}

func containsAction(actions []BuildAction, action BuildAction) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// Options of an xcodebuild command. Empty strings and nil booleans are left out of the command.
type Options struct {
	Project         string
	Workspace       string
	XCTestRun       string
	Scheme          string
	Configuration   string
	Destination     string
	SDK             string
	Arch            []string
	DerivedDataPath string
	// ResultBundlePath must be relative and stay inside the working directory.
	ResultBundlePath string
	XCConfigPath     string

	EnableThreadSanitizer            *bool
	EnableAddressSanitizer           *bool
	EnableUndefinedBehaviorSanitizer *bool
	TreatWarningsAsErrors            *bool

	// AdditionalArgs are passed after the flags, each one quoted.
	AdditionalArgs []string
	// OtherFlags is passed to xcodebuild as is.
	OtherFlags string

	Actions []BuildAction
}

// Validate ...
func (o Options) Validate() error {
	sources := 0
	for _, source := range []string{o.Project, o.Workspace, o.XCTestRun} {
		if source != "" {
			sources++
		}
	}
	if sources != 1 {
		return errors.New("exactly one of project, workspace or xctestrun must be provided")
	}

	if o.XCTestRun != "" {
		if o.Scheme != "" {
			return errors.New("scheme can not be used with xctestrun")
		}
		if !strings.HasSuffix(o.XCTestRun, ".xctestrun") {
			return fmt.Errorf("xctestrun file must end with .xctestrun: %s", o.XCTestRun)
		}
	}

	if o.Destination != "" && (o.SDK != "" || len(o.Arch) > 0) {
		return errors.New("sdk and arch can not be used with destination")
	}
	if o.SDK != "" && !containsString(SDKs, o.SDK) {
		return fmt.Errorf("unknown SDK %s, must be one of %s", o.SDK, strings.Join(SDKs, ", "))
	}
	for _, arch := range o.Arch {
		if !containsString(Archs, arch) {
			return fmt.Errorf("unknown architecture %s, must be one of %s", arch, strings.Join(Archs, ", "))
		}
	}

	if o.ResultBundlePath != "" && (filepath.IsAbs(o.ResultBundlePath) || strings.Contains(o.ResultBundlePath, "..")) {
		return fmt.Errorf("result bundle path must be relative and not escape the current directory: %s", o.ResultBundlePath)
	}

	if o.EnableUndefinedBehaviorSanitizer != nil && *o.EnableUndefinedBehaviorSanitizer && o.OtherFlags != "" {
		return errors.New("undefined behavior sanitizer can not be used with other flags")
	}
	if o.OtherFlags != "" {
		if _, err := shellquote.Split(o.OtherFlags); err != nil {
			return fmt.Errorf("failed to parse other flags (%s): %w", o.OtherFlags, err)
		}
	}

	if len(o.Actions) == 0 {
		return errors.New("no build action provided")
	}
	for _, action := range o.Actions {
		if !containsAction(buildActions, action) {
			return fmt.Errorf("unknown build action: %s", action)
		}
	}

	return nil
}

// Args returns the xcodebuild arguments of the options, the build actions last.
// OtherFlags is not split, it is appended to the command line by Command.
func (o Options) Args() []string {
	var args []string
	appendString := func(flag, value string) {
		if value != "" {
			args = append(args, flag, value)
		}
	}
	appendBool := func(flag string, value *bool) {
		if value != nil {
			args = append(args, flag, yesNo(*value))
		}
	}

	appendString("-project", o.Project)
	appendString("-workspace", o.Workspace)
	appendString("-scheme", o.Scheme)
	appendString("-configuration", o.Configuration)
	appendString("-destination", o.Destination)
	appendString("-sdk", o.SDK)
	for _, arch := range o.Arch {
		appendString("-arch", arch)
	}
	appendString("-xctestrun", o.XCTestRun)
	appendString("-derivedDataPath", o.DerivedDataPath)
	appendString("-resultBundlePath", o.ResultBundlePath)
	appendString("-xcconfig", o.XCConfigPath)
	appendBool("-enableThreadSanitizer", o.EnableThreadSanitizer)
	appendBool("-enableAddressSanitizer", o.EnableAddressSanitizer)
	appendBool("-enableUndefinedBehaviorSanitizer", o.EnableUndefinedBehaviorSanitizer)

	if o.TreatWarningsAsErrors != nil {
		args = append(args, "TREAT_WARNINGS_AS_ERRORS="+yesNo(*o.TreatWarningsAsErrors))
	}
	if o.EnableUndefinedBehaviorSanitizer != nil && *o.EnableUndefinedBehaviorSanitizer {
		args = append(args, "OTHER_CFLAGS=${inherited} -fno-sanitize-recover=all")
	}
	args = append(args, o.AdditionalArgs...)

	for _, action := range o.Actions {
		args = append(args, string(action))
	}

	return args
}

// Command composes the shell command running xcodebuild with the options.
// The raw log is saved with tee when rawLogPath is set, and the output is piped to xcpretty if it is the formatter.
func Command(opts Options, formatter string, rawLogPath string) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	args := opts.Args()
	actionCount := len(opts.Actions)
	flags, actions := args[:len(args)-actionCount], args[len(args)-actionCount:]

	parts := []string{"set -o pipefail && xcodebuild", shellquote.Join(flags...)}
	if opts.OtherFlags != "" {
		parts = append(parts, opts.OtherFlags)
	}
	parts = append(parts, shellquote.Join(actions...))

	cmd := strings.Join(nonEmpty(parts), " ")
	if rawLogPath != "" {
		cmd += " | tee " + shellquote.Join(rawLogPath)
	}
	if formatter == xcodecommand.XcprettyFormatter {
		cmd += " | xcpretty --simple --color"
	}

	return cmd, nil
}

func nonEmpty(values []string) []string {
	var filtered []string
	for _, value := range values {
		if value != "" {
			filtered = append(filtered, value)
		}
	}
	return filtered
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "YES"
	}
	return "NO"
}
