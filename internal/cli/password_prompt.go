package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// TerminalPasswordSource prompts twice without echo when stdin is a terminal.
// Otherwise it yields "" so a temporary password is generated.
func TerminalPasswordSource(stdin *os.File, out io.Writer) PasswordSource {
	return func() (string, error) {
		if stdin == nil || !term.IsTerminal(int(stdin.Fd())) {
			return "", nil
		}

		first, err := promptPassword(stdin, out, "New password (empty to generate): ")
		if err != nil {
			return "", err
		}
		if first == "" {
			return "", nil
		}
		second, err := promptPassword(stdin, out, "Repeat password: ")
		if err != nil {
			return "", err
		}
		if first != second {
			return "", ErrPasswordMismatch
		}
		return first, nil
	}
}

func promptPassword(stdin *os.File, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	raw, err := term.ReadPassword(int(stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
