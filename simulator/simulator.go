package simulator

import (
	"fmt"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/log"
)

// simctl exits with this code if the simulator is already in the requested state.
const alreadyInStateExitCode = 149

// Manager ...
type Manager interface {
	ShutdownAll() error
	Shutdown(id string) error
}

type manager struct {
	logger         log.Logger
	commandFactory command.Factory
}

// NewManager ...
func NewManager(logger log.Logger, commandFactory command.Factory) Manager {
	return &manager{
		logger:         logger,
		commandFactory: commandFactory,
	}
}

// ShutdownAll shuts down every booted simulator, so the test run starts from a clean state.
func (m manager) ShutdownAll() error {
	return m.Shutdown("all")
}

func (m manager) Shutdown(id string) error {
	cmd := m.commandFactory.Create("xcrun", []string{"simctl", "shutdown", id}, nil)

	m.logger.Donef("$ %s", cmd.PrintableCommandArgs())
	out, err := cmd.RunAndReturnTrimmedCombinedOutput()
	if err == nil {
		return nil
	}

	exitCode, isExitErr := exitCodeOf(err)
	if !isExitErr {
		return fmt.Errorf("failed to shutdown Simulator, command execution failed: %w", err)
	}
	if exitCode == alreadyInStateExitCode {
		return nil
	}

	m.logger.Warnf("Failed to shutdown Simulator, command exited with code %d: %s", exitCode, out)
	return nil
}
