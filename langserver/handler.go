package langserver

import (
	"context"
	"os/exec"
	"sync"

	"github.com/google/uuid"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/qntx-ctags/ctags"
	"github.com/teranos/qntx-ctags/internal/util"
	"github.com/teranos/qntx-ctags/logger"
	"github.com/teranos/qntx-ctags/version"
)

// ServerName is reported to clients in InitializeResult
const ServerName = "qntx-ctags"

// HandlerOptions configures a Handler
type HandlerOptions struct {
	// DefaultExecutable is probed when initializationOptions name no
	// executable, normally ctags.executable from the config
	DefaultExecutable string
	// Executable reports whether a program is on the search path; defaults to exec.LookPath
	Executable func(name string) bool
	// MaxGathersPerMinute caps ctags runs per connection; 0 = unlimited
	MaxGathersPerMinute int
	Logger              *zap.SugaredLogger
}

// Handler implements the LSP requests the ctags source needs.
// One Handler serves one client connection.
type Handler struct {
	source            *ctags.Source
	defaultExecutable string
	executable        func(name string) bool
	limiter           *rate.Limiter
	logger            *zap.SugaredLogger
	ctx               context.Context

	mu        sync.RWMutex
	rawParams map[string]any
	rootDir   string
	suffixes  string
	documents map[string]struct{}
	active    string
}

// NewHandler creates a handler around an uninitialised source. ctx bounds
// every ctags run started by the handler.
func NewHandler(ctx context.Context, source *ctags.Source, opts HandlerOptions) *Handler {
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("lsp")
	}
	executable := opts.Executable
	if executable == nil {
		executable = func(name string) bool {
			_, err := exec.LookPath(name)
			return err == nil
		}
	}

	h := &Handler{
		source:            source,
		defaultExecutable: opts.DefaultExecutable,
		executable:        executable,
		logger:            log,
		ctx:               ctx,
		documents:         make(map[string]struct{}),
	}
	if opts.MaxGathersPerMinute > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(float64(opts.MaxGathersPerMinute)/60.0), 1)
	}
	return h
}

// ProtocolHandler wires the handler methods into a glsp protocol handler
func (h *Handler) ProtocolHandler() *protocol.Handler {
	return &protocol.Handler{
		Initialize:             h.Initialize,
		Initialized:            h.Initialized,
		Shutdown:               h.Shutdown,
		TextDocumentDidOpen:    h.TextDocumentDidOpen,
		TextDocumentDidClose:   h.TextDocumentDidClose,
		TextDocumentCompletion: h.TextDocumentCompletion,
	}
}

// Initialize records the client's initializationOptions and workspace root.
// The executable is probed later, in Initialized, so diagnostics can reach
// the client.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	options, _ := params.InitializationOptions.(map[string]any)
	suffixes, _ := options[ctags.SuffixOption].(string)
	root := workspaceRoot(params)

	h.mu.Lock()
	h.rawParams = h.sourceParams(options)
	h.rootDir = root
	h.suffixes = suffixes
	h.mu.Unlock()

	var client string
	if params.ClientInfo != nil {
		client = params.ClientInfo.Name
	}
	h.logger.Infow("LSP client initializing",
		"client", client,
		logger.FieldDir, root,
	)

	syncKind := protocol.TextDocumentSyncKindNone
	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			CompletionProvider: &protocol.CompletionOptions{},
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: util.Ptr(true),
				Change:    &syncKind,
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: util.Ptr(version.Get().ServerVersion()),
		},
	}, nil
}

// Initialized probes the executable once; a failed probe is shown to the user
// and every later completion answers with an empty list
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	h.mu.RLock()
	raw := h.rawParams
	host := h.host("", ctx.Notify)
	h.mu.RUnlock()
	if raw == nil {
		raw = h.sourceParams(nil)
	}

	available := h.source.Init(h.ctx, host, raw)
	h.logger.Infow("LSP client initialized", logger.FieldAvailable, available)
	return nil
}

// Shutdown handles LSP shutdown request
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	h.logger.Infow("LSP client shutting down")
	return nil
}

// TextDocumentDidOpen makes uri the active document
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	h.mu.Lock()
	h.documents[uri] = struct{}{}
	h.active = uri
	h.mu.Unlock()

	h.logger.Debugw("Document opened", logger.FieldURI, uri)
	return nil
}

// TextDocumentDidClose forgets uri
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	h.mu.Lock()
	delete(h.documents, uri)
	if h.active == uri {
		h.active = ""
	}
	h.mu.Unlock()

	h.logger.Debugw("Document closed", logger.FieldURI, uri)
	return nil
}

// ActiveDocument returns the most recently opened document still open
func (h *Handler) ActiveDocument() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.active
}

// TextDocumentCompletion runs ctags over the requested document
func (h *Handler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (result any, err error) {
	// Panic recovery: return an empty list instead of dropping the connection
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorw("Panic in completion handler",
				"panic", r,
				logger.FieldURI, params.TextDocument.URI,
			)
			result = []protocol.CompletionItem{}
			err = nil
		}
	}()

	uri := string(params.TextDocument.URI)
	reqCtx := logger.WithRequestID(h.ctx, uuid.NewString())
	log := h.logger.With(logger.FieldsFromContext(reqCtx)...)

	if h.limiter != nil && !h.limiter.Allow() {
		log.Debugw("Completion rate limited", logger.FieldURI, uri)
		return []protocol.CompletionItem{}, nil
	}

	h.mu.RLock()
	host := h.host(uri, ctx.Notify)
	h.mu.RUnlock()

	candidates, gatherErr := h.source.Gather(reqCtx, host)
	if gatherErr != nil {
		log.Warnw("Completion gather failed", logger.FieldURI, uri, logger.FieldError, gatherErr)
	}

	items := toCompletionItems(candidates)
	log.Debugw("LSP completion result",
		logger.FieldURI, uri,
		logger.FieldCandidates, len(items),
	)
	return items, nil
}

// sourceParams seeds the configured executable under the client's
// initializationOptions; client values are copied untouched so a non-string
// executable is still rejected by the source
func (h *Handler) sourceParams(options map[string]any) map[string]any {
	raw := make(map[string]any, len(options)+1)
	if h.defaultExecutable != "" {
		raw["executable"] = h.defaultExecutable
	}
	for key, value := range options {
		raw[key] = value
	}
	return raw
}

// host must be called with h.mu held
func (h *Handler) host(uri string, notify glsp.NotifyFunc) *lspHost {
	return &lspHost{
		uri:        uri,
		rootDir:    h.rootDir,
		suffixes:   h.suffixes,
		executable: h.executable,
		notify:     notify,
	}
}

func toCompletionItems(candidates []ctags.Candidate) []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, len(candidates))
	for i, c := range candidates {
		items[i] = protocol.CompletionItem{
			Label:  c.Word,
			Kind:   mapCompletionKind(c.Kind),
			Detail: util.PtrOrNil(c.Menu),
		}
	}
	return items
}

// workspaceRoot picks rootUri, then rootPath, then the first workspace folder
func workspaceRoot(params *protocol.InitializeParams) string {
	if params.RootURI != nil {
		if path := uriToPath(string(*params.RootURI)); path != "" {
			return path
		}
	}
	if params.RootPath != nil && *params.RootPath != "" {
		return *params.RootPath
	}
	for _, folder := range params.WorkspaceFolders {
		if path := uriToPath(string(folder.URI)); path != "" {
			return path
		}
	}
	return ""
}
