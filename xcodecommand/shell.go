package xcodecommand

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/log"
	"golang.org/x/sync/errgroup"
)

var xcodeCommandEnvs = []string{"NSUnbufferedIO=YES"}

type shellRunner struct {
	logger         log.Logger
	commandFactory command.Factory

	echoMu sync.Mutex
}

// NewShellRunner returns a Runner executing the command with bash.
// Both output streams are drained concurrently and every line is echoed to the logger as it arrives.
func NewShellRunner(logger log.Logger, commandFactory command.Factory) Runner {
	return &shellRunner{
		logger:         logger,
		commandFactory: commandFactory,
	}
}

func (r *shellRunner) Run(cmdString string, workDir string) (Output, error) {
	stdoutReader, stdoutWriter := io.Pipe()
	stderrReader, stderrWriter := io.Pipe()

	cmd := r.commandFactory.Create("bash", []string{"-c", cmdString}, &command.Opts{
		Stdout: stdoutWriter,
		Stderr: stderrWriter,
		Env:    xcodeCommandEnvs,
		Dir:    workDir,
	})

	r.logger.TPrintf("$ %s", cmdString)
	r.logger.Println()

	var output Output
	var g errgroup.Group
	g.Go(func() error {
		lines, err := r.drain(stdoutReader)
		output.Stdout = lines
		return err
	})
	g.Go(func() error {
		lines, err := r.drain(stderrReader)
		output.Stderr = lines
		return err
	})

	closePipes := func() {
		_ = stdoutWriter.Close()
		_ = stderrWriter.Close()
	}

	if err := cmd.Start(); err != nil {
		closePipes()
		_ = g.Wait()
		return Output{}, fmt.Errorf("failed to start command (%s): %w", cmdString, err)
	}

	waitErr := cmd.Wait()
	closePipes()
	if err := g.Wait(); err != nil {
		return output, fmt.Errorf("failed to read command output: %w", err)
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return output, fmt.Errorf("command (%s) failed: %w", cmdString, waitErr)
		}
		output.ExitCode = exitErr.ExitCode()
	}

	return output, nil
}

// drain reads the stream until EOF, so the writing side never blocks on a full pipe.
func (r *shellRunner) drain(reader *io.PipeReader) ([]string, error) {
	var lines []string
	bufferedReader := bufio.NewReader(reader)
	for {
		line, err := bufferedReader.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			lines = append(lines, line)
			r.echo(line)
		}

		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			_, _ = io.Copy(io.Discard, reader)
			return lines, err
		}
	}
}

func (r *shellRunner) echo(line string) {
	r.echoMu.Lock()
	defer r.echoMu.Unlock()

	r.logger.Printf("%s", line)
}
