package pool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// LocalRunner executes scripts with powershell.exe on the executing
// machine. The zero value is ready to use.
type LocalRunner struct {
	// Shell overrides the PowerShell executable. Empty means powershell.exe
	// from PATH; pwsh works too.
	Shell string
}

// Run implements Runner. A script that exits non-zero is not an error at
// this layer; the exit code travels in Output.
func (r *LocalRunner) Run(ctx context.Context, script string) (Output, error) {
	shell := r.Shell
	if shell == "" {
		shell = "powershell.exe"
	}

	cmd := exec.CommandContext(ctx, shell,
		"-NoProfile", "-NonInteractive", "-OutputFormat", "Text",
		"-EncodedCommand", EncodeScript(script))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("run %s: %w", shell, err)
	}
	return out, nil
}

// Close implements Runner. Local execution holds no channel to release.
func (r *LocalRunner) Close(context.Context) error {
	return nil
}
