package pool

import "fmt"

// ActionError reports a lifecycle action the IIS management surface
// rejected: the script ran, but exited non-zero.
type ActionError struct {
	// Op is the lifecycle operation ("recycle", "start", "stop", "query",
	// "lookup").
	Op string
	// Pool is the application pool name the action targeted.
	Pool string
	// Host is where the action ran.
	Host string
	// ExitCode is the PowerShell process exit code.
	ExitCode int
	// Stderr is the script's error output, already trimmed.
	Stderr string
}

// Error implements error.
func (e *ActionError) Error() string {
	msg := fmt.Sprintf("pool: %s %q on %s failed (exit %d)", e.Op, e.Pool, e.Host, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}
