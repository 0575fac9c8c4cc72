package pool

import "context"

// Output holds the streams from one script execution.
type Output struct {
	// Stdout is the script's standard output.
	Stdout string
	// Stderr is the script's standard error.
	Stderr string
	// ExitCode is the PowerShell process exit code.
	ExitCode int
}

// Runner executes a PowerShell script somewhere and returns its output.
// A non-zero exit code is reported through Output, not through the error:
// the error is reserved for the channel itself (process spawn, transport).
type Runner interface {
	Run(ctx context.Context, script string) (Output, error)
	Close(ctx context.Context) error
}
