package ctags

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/teranos/qntx-ctags/errors"
	"github.com/teranos/qntx-ctags/logger"
)

// Runner runs a child process to completion and returns its stdout split
// into lines. Stderr is discarded.
//
// A non-zero exit status is not an error: the output produced so far is still
// returned. Failing to start the process, or the context ending first, is.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]string, error)
}

// ExecRunner implements Runner with os/exec
type ExecRunner struct {
	// Dir is the child's working directory; empty means the current one
	Dir    string
	Logger *zap.SugaredLogger
}

// NewExecRunner creates a Runner that spawns real processes
func NewExecRunner(log *zap.SugaredLogger) *ExecRunner {
	if log == nil {
		log = logger.Logger
	}
	return &ExecRunner{Logger: log}
}

// Run spawns name with args and waits for it to exit.
// The process and its pipes are released on every return path.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	// cmd.Stderr left nil: the child's stderr goes to the null device

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrapf(ctxErr, "%s did not finish", name)
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, errors.Wrapf(err, "failed to run %s", name)
		}
		r.Logger.Debugw("Child exited with non-zero status",
			logger.FieldCommand, CommandLine(name, args...),
			logger.FieldExitCode, exitErr.ExitCode(),
		)
	}

	lines := SplitLines(stdout.String())
	if logger.ShouldLogTrace(logger.Verbosity) {
		for _, line := range lines {
			r.Logger.Debugw("child output", logger.FieldCommand, name, "line", line)
		}
	}
	r.Logger.Debugw("Ran child process",
		logger.FieldCommand, CommandLine(name, args...),
		logger.FieldLines, len(lines),
		logger.FieldDurationMS, elapsed.Milliseconds(),
	)
	return lines, nil
}

// SplitLines splits raw process output on newlines. A trailing newline yields
// a final empty line, which downstream parsing drops like any other noise.
func SplitLines(output string) []string {
	return strings.Split(output, "\n")
}

// CommandLine renders a command for logs and --dry-run output, quoted so it
// can be pasted into a shell.
func CommandLine(name string, args ...string) string {
	return shellquote.Join(append([]string{name}, args...)...)
}
