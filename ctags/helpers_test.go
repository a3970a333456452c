package ctags

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teranos/qntx-ctags/errors"
)

// fakeHost is a Host whose answers are fixed fields and whose diagnostics
// are recorded
type fakeHost struct {
	executables map[string]bool
	bufferName  string
	filePath    string
	workingDir  string
	options     map[string]string
	bufferErr   error

	mu       sync.Mutex
	reported []string
	echoed   []string
}

func (h *fakeHost) Executable(_ context.Context, name string) bool {
	return h.executables[name]
}

func (h *fakeHost) BufferName(context.Context) (string, error) {
	return h.bufferName, h.bufferErr
}

func (h *fakeHost) FilePath(context.Context) (string, error) {
	return h.filePath, nil
}

func (h *fakeHost) WorkingDir(context.Context) (string, error) {
	return h.workingDir, nil
}

func (h *fakeHost) Option(_ context.Context, name string) (string, error) {
	return h.options[name], nil
}

func (h *fakeHost) ReportError(_ context.Context, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reported = append(h.reported, message)
}

func (h *fakeHost) Echo(_ context.Context, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.echoed = append(h.echoed, message)
}

// fakeCall is one recorded Runner invocation
type fakeCall struct {
	name string
	args []string
}

// fakeRunner answers by the first argument: "--help" gets help, anything
// else gets output
type fakeRunner struct {
	help    []string
	helpErr error
	output  []string
	runErr  error

	// block makes tag runs wait for the context to end
	block bool

	mu    sync.Mutex
	calls []fakeCall
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, fakeCall{name: name, args: append([]string(nil), args...)})
	r.mu.Unlock()

	if len(args) == 1 && args[0] == "--help" {
		return r.help, r.helpErr
	}
	if r.block {
		<-ctx.Done()
		return nil, errors.Wrap(ctx.Err(), "blocked")
	}
	return r.output, r.runErr
}

func (r *fakeRunner) tagCalls() []fakeCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	var calls []fakeCall
	for _, c := range r.calls {
		if !(len(c.args) == 1 && c.args[0] == "--help") {
			calls = append(calls, c)
		}
	}
	return calls
}

var universalHelp = []string{
	"Universal Ctags 6.1.0(v6.1.0), Copyright (C) 2015-2023 Universal Ctags Team",
	"Universal Ctags is derived from Exuberant Ctags.",
	"Usage: ctags [options] [file(s)]",
	"  --output-format=(u-ctags|e-ctags|etags|xref|json)",
	"",
}

var exuberantHelp = []string{
	"Exuberant Ctags 5.8, Copyright (C) 1996-2009 Darren Hiebert",
	"Usage: ctags [options] [file(s)]",
}

func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// writeFile creates a file under dir and returns its path
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
