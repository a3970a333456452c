package langserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	glspserver "github.com/tliron/glsp/server"
	"go.uber.org/zap"

	"github.com/teranos/qntx-ctags/ctags"
	"github.com/teranos/qntx-ctags/errors"
	"github.com/teranos/qntx-ctags/logger"
)

// WebSocketPath is where ListenAndServe accepts LSP connections
const WebSocketPath = "/lsp"

// SourceFactory builds a fresh, uninitialised source for one connection
type SourceFactory func() (*ctags.Source, error)

// Server serves the ctags completion source over LSP. Every connection gets
// its own source, so each client probes once.
type Server struct {
	newSource SourceFactory
	opts      HandlerOptions
	logger    *zap.SugaredLogger
	upgrader  websocket.Upgrader
}

// NewServer creates a server; opts apply to every connection's handler
func NewServer(newSource SourceFactory, opts HandlerOptions) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("lsp")
		opts.Logger = log
	}
	return &Server{
		newSource: newSource,
		opts:      opts,
		logger:    log,
		upgrader:  websocket.Upgrader{CheckOrigin: checkOrigin},
	}
}

// RunStdio serves a single client over stdin/stdout until it disconnects
func (s *Server) RunStdio(ctx context.Context) error {
	source, err := s.newSource()
	if err != nil {
		return errors.Wrap(err, "failed to create ctags source")
	}
	handler := NewHandler(ctx, source, s.opts)

	s.logger.Infow("Serving LSP over stdio")
	return glspserver.NewServer(handler.ProtocolHandler(), ServerName, false).RunStdio()
}

// ServeHTTP upgrades the request to a WebSocket and serves LSP on it until
// the connection closes
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Infow("LSP WebSocket connection request", "remote", r.RemoteAddr)

	source, err := s.newSource()
	if err != nil {
		s.logger.Errorw("Failed to create ctags source", logger.FieldError, err)
		http.Error(w, "ctags source not available", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("Failed to upgrade WebSocket", logger.FieldError, err)
		return
	}

	handler := NewHandler(r.Context(), source, s.opts)
	glspServer := glspserver.NewServer(handler.ProtocolHandler(), ServerName, false)

	// Blocks until the connection closes
	glspServer.ServeWebSocket(conn)

	s.logger.Infow("LSP WebSocket connection closed", "remote", r.RemoteAddr)
}

// ListenAndServe accepts WebSocket clients on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(WebSocketPath, s)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("Serving LSP over WebSocket", "addr", addr, "path", WebSocketPath)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrapf(err, "failed to listen on %s", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "failed to shut down LSP server")
		}
		return nil
	}
}

// checkOrigin accepts clients without an Origin header (editors) and pages
// served from localhost
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range []string{"http://localhost", "https://localhost", "http://127.0.0.1", "https://127.0.0.1"} {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	return false
}
