// Package command runs external programs and captures their output.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Result holds the captured output of one program run.
type Result struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
	ExitCode int
}

// Runner executes argv and returns its output. A non-zero exit is reported
// as an *ExitError alongside the captured Result.
type Runner interface {
	Run(ctx context.Context, argv []string) (*Result, error)
}

// ExitError reports a program that ran but exited non-zero.
type ExitError struct {
	Argv   []string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%q exited with status %d", strings.Join(e.Argv, " "), e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Exec is the Runner backed by os/exec. Env entries are appended to the
// current environment.
type Exec struct {
	Env []string
}

// NewExec returns an Exec that forces the C locale, since callers parse
// English program output.
func NewExec() *Exec {
	return &Exec{Env: []string{"LC_ALL=C", "LANG=C"}}
}

// Run starts argv[0] directly, without a shell, in its own process group.
func (e *Exec) Run(ctx context.Context, argv []string) (*Result, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), e.Env...)
	setProcGroup(cmd)
	cmd.Cancel = func() error { return killProcGroup(cmd) }

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctx.Err() != nil {
			return result, fmt.Errorf("running %s: %w", argv[0], ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, &ExitError{
				Argv:   argv,
				Code:   result.ExitCode,
				Stderr: strings.TrimSpace(result.Stderr),
			}
		}
		return result, fmt.Errorf("running %s: %w", argv[0], err)
	}

	return result, nil
}

// ExitCode returns the exit status carried by err, or -1 if err is not an
// *ExitError.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}
