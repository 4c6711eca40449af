package main

import (
	"errors"
	"os"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-steputils/v2/stepenv"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-io/go-xcode/v2/xcodeversion"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/fileremover"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/metrics"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/output"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/simulator"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/step"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/testaddon"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/xcconfig"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/xcodebuild"
	"github.com/bitrise-steplib/steps-xcodebuild-junit/xcodecommand"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.NewLogger()

	configParser, err := createConfigParser(logger)
	if err != nil {
		logger.Errorf("%s", err)
		return 1
	}

	config, err := configParser.ProcessConfig()
	if err != nil {
		logger.Errorf("Process config: %s", err)
		return 1
	}

	runner := createRunner(logger)
	result, runErr := runner.Run(config)

	logger.Println()
	logger.Infof("Exporting outputs")
	if err := runner.Export(config, result); err != nil {
		logger.Errorf("Export outputs: %s", err)
		return 1
	}

	return exitCode(logger, runErr)
}

func exitCode(logger log.Logger, err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, step.ErrBuildFailed) || errors.Is(err, step.ErrTestsFailed) {
		logger.Errorf("%s", err)
	} else {
		logger.Errorf("Run: %s", err)
	}
	return 1
}

func createConfigParser(logger log.Logger) (step.XcodebuildConfigParser, error) {
	envRepository := env.NewRepository()
	commandFactory := command.NewFactory(envRepository)
	inputParser := stepconf.NewInputParser(envRepository)

	xcodeVersion, err := xcodeversion.NewXcodeVersionProvider(commandFactory).GetVersion()
	if err != nil {
		return step.XcodebuildConfigParser{}, err
	}

	formatterChecker := xcodecommand.NewFormatterChecker(logger, commandFactory)
	xcconfigWriter := xcconfig.NewWriter(pathutil.NewPathProvider(), pathutil.NewPathChecker(), fileutil.NewFileManager())

	return step.NewXcodebuildConfigParser(inputParser, logger, xcodeVersion, formatterChecker, xcconfigWriter, pathutil.NewPathModifier()), nil
}

func createRunner(logger log.Logger) step.XcodebuildRunner {
	envRepository := stepenv.NewRepository(env.NewRepository())
	commandFactory := command.NewFactory(envRepository)
	fileRemover := fileremover.NewFileRemover()

	xcodeCommandRunner := xcodecommand.NewShellRunner(logger, commandFactory)
	xcodebuilder := xcodebuild.NewXcodebuild(logger, pathutil.NewPathChecker(), fileRemover, xcodeCommandRunner)
	simulatorManager := simulator.NewManager(logger, commandFactory)

	outputExporter := export.NewExporter(commandFactory, fileutil.NewFileManager())
	testAddonExporter := testaddon.NewExporter(logger, commandFactory, fileutil.NewFileManager())
	exporter := output.NewExporter(envRepository, logger, &outputExporter, testAddonExporter)

	return step.NewXcodebuildRunner(logger, xcodebuilder, simulatorManager, fileRemover, exporter, metrics.NewRecorder())
}
