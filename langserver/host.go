package langserver

import (
	"context"
	"net/url"
	"path/filepath"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/qntx-ctags/ctags"
)

const (
	methodShowMessage = "window/showMessage"
	methodLogMessage  = "window/logMessage"
)

// lspHost answers ctags.Host queries for a single LSP request
type lspHost struct {
	uri        string
	rootDir    string
	suffixes   string
	executable func(name string) bool
	notify     glsp.NotifyFunc
}

var _ ctags.Host = (*lspHost)(nil)

func (h *lspHost) Executable(_ context.Context, name string) bool {
	return h.executable(name)
}

// BufferName is the base name of a file URI. Other schemes (untitled:,
// git:) are unnamed buffers.
func (h *lspHost) BufferName(context.Context) (string, error) {
	path := uriToPath(h.uri)
	if path == "" {
		return "", nil
	}
	return filepath.Base(path), nil
}

func (h *lspHost) FilePath(context.Context) (string, error) {
	return uriToPath(h.uri), nil
}

// WorkingDir is the workspace root, or the document's directory when the
// client opened no workspace
func (h *lspHost) WorkingDir(context.Context) (string, error) {
	if h.rootDir != "" {
		return h.rootDir, nil
	}
	if path := uriToPath(h.uri); path != "" {
		return filepath.Dir(path), nil
	}
	return "", nil
}

func (h *lspHost) Option(_ context.Context, name string) (string, error) {
	if name == ctags.SuffixOption {
		return h.suffixes, nil
	}
	return "", nil
}

func (h *lspHost) ReportError(_ context.Context, message string) {
	if h.notify == nil {
		return
	}
	h.notify(methodShowMessage, protocol.ShowMessageParams{
		Type:    protocol.MessageTypeError,
		Message: message,
	})
}

func (h *lspHost) Echo(_ context.Context, message string) {
	if h.notify == nil {
		return
	}
	h.notify(methodLogMessage, protocol.LogMessageParams{
		Type:    protocol.MessageTypeInfo,
		Message: message,
	})
}

// uriToPath converts a file:// URI to a local path; "" for anything else
func uriToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return ""
	}
	return filepath.FromSlash(u.Path)
}
