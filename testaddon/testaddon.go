package testaddon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
)

const metadataFileName = "test-info.json"

// Exporter ...
type Exporter interface {
	CopyAndSaveMetadata(info AddonCopy) error
}

// AddonCopy describes a test result (a JUnit report or a whole result bundle) handed over to the test add-on.
type AddonCopy struct {
	SourceTestOutputPath  string
	TargetAddonPath       string
	TargetAddonBundleName string
}

type exporter struct {
	logger         log.Logger
	commandFactory command.Factory
	fileManager    fileutil.FileManager
}

// NewExporter ...
func NewExporter(logger log.Logger, commandFactory command.Factory, fileManager fileutil.FileManager) Exporter {
	return &exporter{
		logger:         logger,
		commandFactory: commandFactory,
		fileManager:    fileManager,
	}
}

func (e exporter) CopyAndSaveMetadata(info AddonCopy) error {
	bundleName := replaceUnsupportedFilenameCharacters(info.TargetAddonBundleName)
	addonPerStepOutputDir := filepath.Join(info.TargetAddonPath, bundleName)

	if err := e.copy(info.SourceTestOutputPath, addonPerStepOutputDir); err != nil {
		return err
	}
	return e.saveBundleMetadata(addonPerStepOutputDir, bundleName)
}

// replaceUnsupportedFilenameCharacters replaces '/' and ':', which are unsupported in file names on macOS.
func replaceUnsupportedFilenameCharacters(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

func (e exporter) copy(source string, targetDir string) error {
	if err := os.MkdirAll(targetDir, 0700); err != nil {
		return fmt.Errorf("failed to create directory (%s): %w", targetDir, err)
	}

	// the trailing `/` copies the source into the directory
	// -a keeps symlinks and attributes
	cmd := e.commandFactory.Create("cp", []string{"-a", source, targetDir + "/"}, nil)
	e.logger.Donef("$ %s", cmd.PrintableCommandArgs())
	if out, err := cmd.RunAndReturnTrimmedCombinedOutput(); err != nil {
		return fmt.Errorf("copy failed: %w, output: %s", err, out)
	}

	return nil
}

func (e exporter) saveBundleMetadata(outputDir string, bundleName string) error {
	type testBundle struct {
		BundleName string `json:"test-name"`
	}
	bytes, err := json.Marshal(testBundle{
		BundleName: bundleName,
	})
	if err != nil {
		return fmt.Errorf("could not encode metadata: %w", err)
	}

	if err := e.fileManager.Write(filepath.Join(outputDir, metadataFileName), string(bytes), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
