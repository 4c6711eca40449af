package xcodecommand

import (
	"fmt"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/log"
	version "github.com/hashicorp/go-version"
)

// Log formatters ...
const (
	XcodebuildFormatter = "xcodebuild"
	XcprettyFormatter   = "xcpretty"
)

// FormatterChecker ...
type FormatterChecker interface {
	CheckXcpretty() (*version.Version, error)
}

type formatterChecker struct {
	logger         log.Logger
	commandFactory command.Factory
}

// NewFormatterChecker ...
func NewFormatterChecker(logger log.Logger, commandFactory command.Factory) FormatterChecker {
	return &formatterChecker{
		logger:         logger,
		commandFactory: commandFactory,
	}
}

func (c *formatterChecker) CheckXcpretty() (*version.Version, error) {
	c.logger.Println()
	c.logger.Infof("Checking if output tool (xcpretty) is installed")

	cmd := c.commandFactory.Create("xcpretty", []string{"--version"}, nil)
	c.logger.TPrintf("$ %s", cmd.PrintableCommandArgs())

	out, err := cmd.RunAndReturnTrimmedCombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("failed to run xcpretty: %s: %w", out, err)
	}

	xcprettyVersion, err := version.NewVersion(out)
	if err != nil {
		return nil, fmt.Errorf("failed to parse xcpretty version (%s): %w", out, err)
	}

	return xcprettyVersion, nil
}

// SelectFormatter returns the formatter to use: xcpretty falls back to plain xcodebuild output
// when it can not be run.
func SelectFormatter(logger log.Logger, checker FormatterChecker, formatter string) string {
	if formatter != XcprettyFormatter {
		return formatter
	}

	xcprettyVersion, err := checker.CheckXcpretty()
	if err != nil {
		logger.Errorf("Checking log formatter failed: %s", err)
		logger.Infof("Falling back to xcodebuild log formatter")
		return XcodebuildFormatter
	}

	logger.Printf("- xcprettyVersion: %s", xcprettyVersion.String())
	return XcprettyFormatter
}
