package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Always returns a Confirmer that approves everything. This is the
// scriptable override (-y) for non-interactive use.
func Always() Confirmer {
	return ConfirmFunc(func(string) (bool, error) {
		return true, nil
	})
}

// TTYConfirmer prompts the operator on the terminal. When stdin is not a
// terminal it declines: destructive actions in non-interactive runs need
// the explicit override.
type TTYConfirmer struct {
	// In is the prompt input, normally os.Stdin.
	In *os.File
	// Err receives the prompt text, normally os.Stderr.
	Err io.Writer
}

// Confirm implements Confirmer.
func (c *TTYConfirmer) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	out := c.Err
	if out == nil {
		out = os.Stderr
	}

	if !isatty.IsTerminal(in.Fd()) && !isatty.IsCygwinTerminal(in.Fd()) {
		fmt.Fprintf(out, "%s [declined: not a terminal, use -y]\n", prompt)
		return false, nil
	}

	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer := strings.TrimSpace(strings.ToLower(line))
	return answer == "y" || answer == "yes", nil
}
