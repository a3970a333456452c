package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/teranos/qntx-ctags/ctags"
)

// cliHost answers ctags.Host queries for one command invocation on a file
// named on the command line
type cliHost struct {
	file       string
	workingDir string
	suffixes   string
	errOut     io.Writer

	reported []string
}

var _ ctags.Host = (*cliHost)(nil)

func (h *cliHost) Executable(_ context.Context, name string) bool {
	return isOnPath(name)
}

func (h *cliHost) BufferName(context.Context) (string, error) {
	if h.file == "" {
		return "", nil
	}
	return filepath.Base(h.file), nil
}

func (h *cliHost) FilePath(context.Context) (string, error) {
	return h.file, nil
}

func (h *cliHost) WorkingDir(context.Context) (string, error) {
	return h.workingDir, nil
}

func (h *cliHost) Option(_ context.Context, name string) (string, error) {
	if name == ctags.SuffixOption {
		return h.suffixes, nil
	}
	return "", nil
}

func (h *cliHost) ReportError(_ context.Context, message string) {
	h.reported = append(h.reported, message)
	fmt.Fprintln(h.errOut, pterm.Error.Sprint(message))
}

func (h *cliHost) Echo(_ context.Context, message string) {
	fmt.Fprintln(h.errOut, pterm.Info.Sprint(message))
}
