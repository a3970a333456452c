package langserver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	"go.uber.org/zap"

	"github.com/teranos/qntx-ctags/ctags"
)

var universalHelp = []string{
	"Universal Ctags 6.1.0(v6.1.0), Copyright (C) 2015-2023 Universal Ctags Team",
	"  --output-format=(u-ctags|e-ctags|etags|xref|json)",
}

var tagOutput = []string{
	`{"_type": "tag", "name": "Greeter", "kind": "class"}`,
	`{"_type": "tag", "name": "hello", "kind": "member", "scope": "Greeter", "scopeKind": "class"}`,
	"",
}

// stubRunner answers --help with help and every other run with output
type stubRunner struct {
	help   []string
	output []string

	mu   sync.Mutex
	runs int
}

func (r *stubRunner) Run(_ context.Context, _ string, args ...string) ([]string, error) {
	if len(args) == 1 && args[0] == "--help" {
		return r.help, nil
	}
	r.mu.Lock()
	r.runs++
	r.mu.Unlock()
	return r.output, nil
}

func (r *stubRunner) tagRuns() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

// notification is one recorded server-to-client notification
type notification struct {
	method string
	params any
}

type notifyRecorder struct {
	mu   sync.Mutex
	sent []notification
}

func (n *notifyRecorder) notify(method string, params any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{method: method, params: params})
}

func (n *notifyRecorder) context() *glsp.Context {
	return &glsp.Context{Notify: n.notify}
}

func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func newTestSource(t *testing.T, runner ctags.Runner) *ctags.Source {
	t.Helper()
	src, err := ctags.NewSource(ctags.Options{Runner: runner, Logger: nopLogger()})
	require.NoError(t, err)
	return src
}

func alwaysExecutable(string) bool { return true }

func neverExecutable(string) bool { return false }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func fileURI(path string) string {
	return "file://" + filepath.ToSlash(path)
}
