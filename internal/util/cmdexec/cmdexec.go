// Package cmdexec runs external command-line tools and captures their output.
//
// The handler treats aws, kubectl and helm as opaque collaborators: only the
// argument list and the exit code matter. Runner is the seam that lets tests
// record invocations instead of spawning processes.
package cmdexec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// maxOutputLen bounds the amount of command output kept in an ExitError.
const maxOutputLen = 2048

// Command describes a single subprocess invocation.
type Command struct {
	// Name is the binary to execute, resolved through PATH.
	Name string

	// Args are passed verbatim.
	Args []string

	// Env entries (KEY=value) are appended to the parent environment.
	Env []string
}

// New returns a Command for name with the given arguments.
func New(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// WithEnv returns a copy of c with additional environment entries.
func (c Command) WithEnv(env ...string) Command {
	out := c
	out.Env = append(append([]string(nil), c.Env...), env...)
	return out
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner executes commands.
type Runner interface {
	// Run executes cmd and returns its combined output.
	// A nonzero exit status is reported as *ExitError.
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes cmd and waits for it to finish.
func (ExecRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	// #nosec G204 - binaries come from handler configuration, arguments are passed without a shell
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	output, err := c.CombinedOutput()
	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return output, &ExitError{
			Command: cmd.String(),
			Code:    code,
			Output:  TrimOutput(output),
			Err:     err,
		}
	}

	return output, nil
}

// ExitError reports a command that failed to start or exited nonzero.
type ExitError struct {
	Command string
	Code    int
	Output  string
	Err     error
}

func (e *ExitError) Error() string {
	var msg string
	if e.Code < 0 {
		msg = fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
	} else {
		msg = fmt.Sprintf("command %q exited with status %d", e.Command, e.Code)
	}
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit status carried by err, or -1 when err is not an
// *ExitError.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

// TrimOutput collapses surrounding whitespace and keeps the tail of long output,
// which is where CLIs print the actual failure.
func TrimOutput(output []byte) string {
	s := strings.TrimSpace(string(output))
	if len(s) <= maxOutputLen {
		return s
	}
	start := len(s) - maxOutputLen
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return "..." + s[start:]
}
