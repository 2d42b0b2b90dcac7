// Package runner executes the external tools driven by xcrel (git, xcodebuild,
// xcrun, the log formatter). Everything that spawns a process goes through
// the Runner interface so callers can be exercised without a toolchain.
package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/magefile/mage/sh"
)

// Command is a single external tool invocation.
type Command struct {
	Name string
	Args []string

	// Filter, when set, reads the command's stdout, as in `cmd | filter`.
	// The run fails if either side exits non-zero.
	Filter *Command
}

// Cmd is shorthand for a Command without a filter.
func Cmd(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Line renders the command and its arguments joined by single spaces, without quoting.
func (c Command) Line() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, p := range append([]string{c.Name}, c.Args...) {
		if p == "" || strings.ContainsAny(p, " \t\"'|&;$") {
			p = strconv.Quote(p)
		}
		parts = append(parts, p)
	}
	s := strings.Join(parts, " ")
	if c.Filter != nil {
		s += " | " + c.Filter.String()
	}
	return s
}

// Runner runs external commands. Run streams output to the terminal; Output
// captures stdout and returns it trimmed.
type Runner interface {
	Run(c Command) error
	Output(c Command) (string, error)
}

// ToolError reports an external command that could not be started or exited non-zero.
type ToolError struct {
	Command string
	Status  int
	Err     error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Status)
}

func (e *ToolError) Unwrap() error { return e.Err }

// ExitStatus maps err to a process exit code: 0 for nil, the tool's status for
// a ToolError, 1 otherwise.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var te *ToolError
	if errors.As(err, &te) && te.Status != 0 {
		return te.Status
	}
	return 1
}

func toolError(c Command, err error) error {
	if err == nil {
		return nil
	}
	return &ToolError{Command: c.String(), Status: sh.ExitStatus(err), Err: err}
}
