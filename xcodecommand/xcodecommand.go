package xcodecommand

// Output is the captured result of a single command run.
type Output struct {
	ExitCode int
	// Stdout and Stderr hold the lines of the streams in arrival order, without line terminators.
	Stdout []string
	Stderr []string
}

// Runner runs an already composed shell command and captures its output.
type Runner interface {
	Run(command string, workDir string) (Output, error)
}
