package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ccarocean/copernicus-sync/internal/utils"
)

// promptPassword reads a password without echo when stdin is a terminal,
// and the first line of stdin otherwise so the tool stays scriptable.
func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", utils.WrapError(utils.ErrCodeInvalidArgument, "cannot read password", err)
		}
		return string(password), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", utils.WrapError(utils.ErrCodeInvalidArgument, "cannot read password from stdin", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptLine reads one line of input with the prompt shown on stderr.
func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", utils.WrapError(utils.ErrCodeInvalidArgument, "cannot read input", err)
	}
	return strings.TrimSpace(line), nil
}
