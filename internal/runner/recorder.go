package runner

import (
	"errors"
	"fmt"
	"io"
)

// Recorder is a Runner that records every command instead of running it.
// Outputs are looked up by Command.Line; Fail returns a non-zero status for
// commands that should fail.
type Recorder struct {
	Commands []Command
	Outputs  map[string]string
	Fail     func(c Command) int
}

func (r *Recorder) Run(c Command) error {
	r.Commands = append(r.Commands, c)
	return r.status(c)
}

func (r *Recorder) Output(c Command) (string, error) {
	r.Commands = append(r.Commands, c)
	if err := r.status(c); err != nil {
		return "", err
	}
	out, ok := r.Outputs[c.Line()]
	if !ok {
		return "", &ToolError{Command: c.String(), Status: 127, Err: errors.New("no recorded output")}
	}
	return out, nil
}

// Lines returns Command.Line for every recorded command, in order.
func (r *Recorder) Lines() []string {
	lines := make([]string, 0, len(r.Commands))
	for _, c := range r.Commands {
		lines = append(lines, c.Line())
	}
	return lines
}

func (r *Recorder) status(c Command) error {
	if r.Fail == nil {
		return nil
	}
	if code := r.Fail(c); code != 0 {
		return &ToolError{Command: c.String(), Status: code, Err: fmt.Errorf("exit status %d", code)}
	}
	return nil
}

// DryRun prints commands passed to Run instead of executing them. Output is
// delegated to the wrapped Runner, so read-only queries still see real state.
type DryRun struct {
	Runner Runner
	Out    io.Writer
}

func (d *DryRun) Run(c Command) error {
	_, err := fmt.Fprintf(d.Out, "+ %s\n", c)
	return err
}

func (d *DryRun) Output(c Command) (string, error) {
	return d.Runner.Output(c)
}
