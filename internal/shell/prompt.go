package shell

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

type lineResult struct {
	line string
	err  error
}

// prompt writes text and reads one trimmed line. It gives up when the run
// context is cancelled; a read still in flight is kept for the next prompt.
func (a *App) prompt(text string) (string, error) {
	fmt.Fprint(a.out, text)
	if a.pending == nil {
		a.pending = make(chan lineResult, 1)
		go func(ch chan<- lineResult) {
			line, err := a.in.ReadString('\n')
			ch <- lineResult{line, err}
		}(a.pending)
	}
	select {
	case <-a.ctx.Done():
		return "", a.ctx.Err()
	case r := <-a.pending:
		a.pending = nil
		if r.err != nil && (r.line == "" || r.err != io.EOF) {
			return "", r.err
		}
		return strings.TrimSpace(r.line), nil
	}
}

// readPassword reads the password, masked on a terminal unless the operator
// chose to show it.
func (a *App) readPassword(text string) (string, error) {
	if a.inFd < 0 || a.login.PasswordVisible {
		return a.prompt(text)
	}
	fmt.Fprint(a.out, text)
	raw, err := term.ReadPassword(a.inFd)
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (a *App) confirm(question string) bool {
	answer, err := a.prompt(question + " [y/N] ")
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}
