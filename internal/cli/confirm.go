package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNotConfirmed is returned by commands when the user declines a prompt.
var ErrNotConfirmed = errors.New("cancelled")

// Confirm writes prompt to out and reads a yes/no answer from in.
// Only "y" and "yes" (any case) count as yes; EOF counts as no.
func Confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ConfirmStdin asks on the terminal. When stdin is not a terminal it refuses
// instead of blocking, so scripts must pass --yes.
func ConfirmStdin(prompt string) (bool, error) {
	if !IsTerminal(os.Stdin) {
		return false, fmt.Errorf("refusing to prompt on non-interactive input (use --yes)")
	}
	return Confirm(os.Stdin, os.Stdout, prompt)
}
