package langserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/qntx-ctags/ctags"
)

func completionParams(uri string) *protocol.CompletionParams {
	return &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		},
	}
}

func initialize(t *testing.T, h *Handler, rec *notifyRecorder, params *protocol.InitializeParams) {
	t.Helper()
	_, err := h.Initialize(rec.context(), params)
	require.NoError(t, err)
	require.NoError(t, h.Initialized(rec.context(), &protocol.InitializedParams{}))
}

func TestHandler_Initialize(t *testing.T) {
	h := NewHandler(context.Background(), newTestSource(t, &stubRunner{}), HandlerOptions{Logger: nopLogger()})
	root := t.TempDir()
	rootURI := fileURI(root)

	result, err := h.Initialize((&notifyRecorder{}).context(), &protocol.InitializeParams{
		RootURI:               &rootURI,
		InitializationOptions: map[string]any{"suffixesadd": ".py,.pyi"},
	})
	require.NoError(t, err)

	init, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.NotNil(t, init.Capabilities.CompletionProvider)
	assert.Equal(t, ServerName, init.ServerInfo.Name)

	assert.Equal(t, root, h.rootDir)
	assert.Equal(t, ".py,.pyi", h.suffixes)
}

func TestHandler_InitializedReportsProbeFailure(t *testing.T) {
	rec := &notifyRecorder{}
	src := newTestSource(t, &stubRunner{help: universalHelp})
	h := NewHandler(context.Background(), src, HandlerOptions{Executable: neverExecutable, Logger: nopLogger()})

	initialize(t, h, rec, &protocol.InitializeParams{})

	assert.False(t, src.Available())
	require.Len(t, rec.sent, 1)
	assert.Equal(t, "window/showMessage", rec.sent[0].method)
	assert.Equal(t, protocol.ShowMessageParams{Type: protocol.MessageTypeError, Message: ctags.MsgNotFound}, rec.sent[0].params)
}

func TestHandler_InitializedRejectsNonStringExecutable(t *testing.T) {
	rec := &notifyRecorder{}
	src := newTestSource(t, &stubRunner{help: universalHelp})
	h := NewHandler(context.Background(), src, HandlerOptions{Executable: alwaysExecutable, Logger: nopLogger()})

	initialize(t, h, rec, &protocol.InitializeParams{
		InitializationOptions: map[string]any{"executable": float64(3)},
	})

	assert.False(t, src.Available())
	require.Len(t, rec.sent, 1)
	assert.Equal(t, ctags.MsgNotString, rec.sent[0].params.(protocol.ShowMessageParams).Message)
}

func TestHandler_InitializedUsesDefaultExecutable(t *testing.T) {
	const configured = "/opt/uctags/bin/ctags"

	t.Run("no initializationOptions", func(t *testing.T) {
		var looked []string
		src := newTestSource(t, &stubRunner{help: universalHelp})
		h := NewHandler(context.Background(), src, HandlerOptions{
			DefaultExecutable: configured,
			Executable: func(name string) bool {
				looked = append(looked, name)
				return true
			},
			Logger: nopLogger(),
		})

		initialize(t, h, &notifyRecorder{}, &protocol.InitializeParams{})

		assert.True(t, src.Available())
		assert.Equal(t, configured, src.Params().Executable)
		assert.Equal(t, []string{configured}, looked)
	})

	t.Run("client executable wins", func(t *testing.T) {
		src := newTestSource(t, &stubRunner{help: universalHelp})
		h := NewHandler(context.Background(), src, HandlerOptions{
			DefaultExecutable: configured,
			Executable:        alwaysExecutable,
			Logger:            nopLogger(),
		})

		initialize(t, h, &notifyRecorder{}, &protocol.InitializeParams{
			InitializationOptions: map[string]any{"executable": "uctags"},
		})
		assert.Equal(t, "uctags", src.Params().Executable)
	})

	t.Run("non-string client executable still rejected", func(t *testing.T) {
		rec := &notifyRecorder{}
		src := newTestSource(t, &stubRunner{help: universalHelp})
		h := NewHandler(context.Background(), src, HandlerOptions{
			DefaultExecutable: configured,
			Executable:        alwaysExecutable,
			Logger:            nopLogger(),
		})

		initialize(t, h, rec, &protocol.InitializeParams{
			InitializationOptions: map[string]any{"executable": true},
		})

		assert.False(t, src.Available())
		require.Len(t, rec.sent, 1)
		assert.Equal(t, ctags.MsgNotString, rec.sent[0].params.(protocol.ShowMessageParams).Message)
	})

	t.Run("initialized without initialize", func(t *testing.T) {
		src := newTestSource(t, &stubRunner{help: universalHelp})
		h := NewHandler(context.Background(), src, HandlerOptions{
			DefaultExecutable: configured,
			Executable:        alwaysExecutable,
			Logger:            nopLogger(),
		})

		require.NoError(t, h.Initialized((&notifyRecorder{}).context(), &protocol.InitializedParams{}))
		assert.Equal(t, configured, src.Params().Executable)
	})
}

func TestHandler_Completion(t *testing.T) {
	file := writeFile(t, t.TempDir(), "greeter.py", "class Greeter: pass\n")
	runner := &stubRunner{help: universalHelp, output: tagOutput}
	rec := &notifyRecorder{}
	h := NewHandler(context.Background(), newTestSource(t, runner), HandlerOptions{Executable: alwaysExecutable, Logger: nopLogger()})
	initialize(t, h, rec, &protocol.InitializeParams{})
	assert.Empty(t, rec.sent)

	result, err := h.TextDocumentCompletion(rec.context(), completionParams(fileURI(file)))
	require.NoError(t, err)

	items, ok := result.([]protocol.CompletionItem)
	require.True(t, ok)
	require.Len(t, items, 2)

	assert.Equal(t, "Greeter", items[0].Label)
	assert.Equal(t, protocol.CompletionItemKindClass, *items[0].Kind)
	assert.Nil(t, items[0].Detail)

	assert.Equal(t, "hello", items[1].Label)
	assert.Equal(t, protocol.CompletionItemKindMethod, *items[1].Kind)
	require.NotNil(t, items[1].Detail)
	assert.Equal(t, "Greeter [class]", *items[1].Detail)
}

func TestHandler_CompletionWhenUnavailable(t *testing.T) {
	file := writeFile(t, t.TempDir(), "greeter.py", "")
	runner := &stubRunner{help: []string{"Exuberant Ctags 5.8"}, output: tagOutput}
	rec := &notifyRecorder{}
	h := NewHandler(context.Background(), newTestSource(t, runner), HandlerOptions{Executable: alwaysExecutable, Logger: nopLogger()})
	initialize(t, h, rec, &protocol.InitializeParams{})

	result, err := h.TextDocumentCompletion(rec.context(), completionParams(fileURI(file)))
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Equal(t, 0, runner.tagRuns())
}

func TestHandler_CompletionUntitledDocument(t *testing.T) {
	runner := &stubRunner{help: universalHelp, output: tagOutput}
	rec := &notifyRecorder{}
	h := NewHandler(context.Background(), newTestSource(t, runner), HandlerOptions{Executable: alwaysExecutable, Logger: nopLogger()})
	initialize(t, h, rec, &protocol.InitializeParams{})

	result, err := h.TextDocumentCompletion(rec.context(), completionParams("untitled:Untitled-1"))
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Equal(t, 0, runner.tagRuns())
}

func TestHandler_CompletionRateLimited(t *testing.T) {
	file := writeFile(t, t.TempDir(), "greeter.py", "")
	runner := &stubRunner{help: universalHelp, output: tagOutput}
	rec := &notifyRecorder{}
	h := NewHandler(context.Background(), newTestSource(t, runner), HandlerOptions{
		Executable:          alwaysExecutable,
		MaxGathersPerMinute: 1,
		Logger:              nopLogger(),
	})
	initialize(t, h, rec, &protocol.InitializeParams{})

	first, err := h.TextDocumentCompletion(rec.context(), completionParams(fileURI(file)))
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := h.TextDocumentCompletion(rec.context(), completionParams(fileURI(file)))
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, 1, runner.tagRuns())
}

func TestHandler_DocumentTracking(t *testing.T) {
	h := NewHandler(context.Background(), newTestSource(t, &stubRunner{}), HandlerOptions{Logger: nopLogger()})
	ctx := (&notifyRecorder{}).context()

	require.NoError(t, h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///a.py"},
	}))
	require.NoError(t, h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///b.py"},
	}))
	assert.Equal(t, "file:///b.py", h.ActiveDocument())

	require.NoError(t, h.TextDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///a.py"},
	}))
	assert.Equal(t, "file:///b.py", h.ActiveDocument())

	require.NoError(t, h.TextDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///b.py"},
	}))
	assert.Empty(t, h.ActiveDocument())
	assert.Empty(t, h.documents)
}

func TestWorkspaceRoot(t *testing.T) {
	rootURI := "file:///home/lain/project"
	rootPath := "/home/lain/other"

	assert.Equal(t, "/home/lain/project", workspaceRoot(&protocol.InitializeParams{RootURI: &rootURI, RootPath: &rootPath}))
	assert.Equal(t, "/home/lain/other", workspaceRoot(&protocol.InitializeParams{RootPath: &rootPath}))
	assert.Equal(t, "/ws", workspaceRoot(&protocol.InitializeParams{
		WorkspaceFolders: []protocol.WorkspaceFolder{{URI: "file:///ws", Name: "ws"}},
	}))
	assert.Empty(t, workspaceRoot(&protocol.InitializeParams{}))
}
