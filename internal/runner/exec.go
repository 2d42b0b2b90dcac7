package runner

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Exec runs commands on the host.
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
}

// NewExec returns an Exec writing to the process stdout and stderr.
func NewExec(logger *zap.Logger) *Exec {
	return &Exec{Stdout: os.Stdout, Stderr: os.Stderr, Logger: logger}
}

func (e *Exec) Run(c Command) error {
	e.log().Debug("exec", zap.Stringer("command", c))
	if c.Filter != nil {
		return e.pipe(c, *c.Filter)
	}
	cmd := e.command(c)
	cmd.Stdin = os.Stdin
	cmd.Stdout = e.stdout()
	return toolError(c, cmd.Run())
}

// Output captures stdout. Arguments are passed as given, with no $VAR
// expansion.
func (e *Exec) Output(c Command) (string, error) {
	e.log().Debug("exec", zap.Stringer("command", c))
	var buf bytes.Buffer
	cmd := e.command(c)
	cmd.Stdout = &buf
	if err := cmd.Run(); err != nil {
		return "", toolError(c, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// pipe runs `src | dst` with pipefail semantics: the status of src wins when
// it fails, otherwise the status of dst.
func (e *Exec) pipe(src, dst Command) error {
	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	producer := e.command(src)
	producer.Stdout = w
	consumer := e.command(dst)
	consumer.Stdin = r
	consumer.Stdout = e.stdout()

	if err := consumer.Start(); err != nil {
		r.Close()
		w.Close()
		return toolError(dst, err)
	}
	r.Close()

	if err := producer.Start(); err != nil {
		w.Close()
		_ = consumer.Wait()
		return toolError(src, err)
	}
	w.Close()

	perr := producer.Wait()
	cerr := consumer.Wait()
	if perr != nil {
		return toolError(src, perr)
	}
	return toolError(dst, cerr)
}

func (e *Exec) command(c Command) *exec.Cmd {
	cmd := exec.Command(c.Name, c.Args...)
	cmd.Stderr = e.stderr()
	return cmd
}

func (e *Exec) stdout() io.Writer {
	if e.Stdout == nil {
		return os.Stdout
	}
	return e.Stdout
}

func (e *Exec) stderr() io.Writer {
	if e.Stderr == nil {
		return os.Stderr
	}
	return e.Stderr
}

func (e *Exec) log() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
