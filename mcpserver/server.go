// Package mcpserver exposes the ctags completion source as Model Context
// Protocol tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/teranos/qntx-ctags/ctags"
	"github.com/teranos/qntx-ctags/errors"
	"github.com/teranos/qntx-ctags/logger"
	"github.com/teranos/qntx-ctags/version"
)

// Tool names
const (
	ToolProbe      = "ctags_probe"
	ToolCandidates = "ctags_candidates"
)

// SourceFactory builds a fresh source for one tool call
type SourceFactory func() (*ctags.Source, error)

// Options configures the MCP server
type Options struct {
	// WorkspaceRoot resolves relative file arguments and roots file discovery
	WorkspaceRoot string
	// Suffixes is the discovery suffix list, comma separated
	Suffixes string
	// DefaultExecutable is probed when a tool call names no executable,
	// normally ctags.executable from the config
	DefaultExecutable string
	// Executable reports whether a program is on the search path; defaults to exec.LookPath
	Executable func(name string) bool
	Logger     *zap.SugaredLogger
}

// MCPServer serves the ctags tools. Each call probes afresh, so a ctags
// installed mid-session is picked up on the next call.
type MCPServer struct {
	newSource SourceFactory
	opts      Options
	logger    *zap.SugaredLogger
	server    *server.MCPServer
}

// ProbeOutput is the JSON body of a ctags_probe result
type ProbeOutput struct {
	Executable string `json:"executable"`
	Available  bool   `json:"available"`
	Banner     string `json:"banner,omitempty"`
	Version    string `json:"version,omitempty"`
	Error      string `json:"error,omitempty"`
}

// NewMCPServer creates the server and registers its tools
func NewMCPServer(newSource SourceFactory, opts Options) *MCPServer {
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("mcp")
	}
	if opts.Executable == nil {
		opts.Executable = func(name string) bool {
			_, err := exec.LookPath(name)
			return err == nil
		}
	}

	s := &MCPServer{
		newSource: newSource,
		opts:      opts,
		logger:    log,
	}
	s.server = server.NewMCPServer(
		"qntx-ctags",
		version.Get().ServerVersion(),
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

func (s *MCPServer) registerTools() {
	probeTool := mcp.NewTool(ToolProbe,
		mcp.WithDescription("Check whether a JSON-capable Universal Ctags is installed"),
		mcp.WithString("executable",
			mcp.Description("Program name or path (default: the configured ctags.executable)"),
		),
	)
	s.server.AddTool(probeTool, s.handleProbe)

	candidatesTool := mcp.NewTool(ToolCandidates,
		mcp.WithDescription("List completion candidates (symbol, kind, scope) for a source file using ctags"),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("File path, absolute or relative to the workspace root"),
		),
		mcp.WithString("executable",
			mcp.Description("Program name or path (default: the configured ctags.executable)"),
		),
	)
	s.server.AddTool(candidatesTool, s.handleCandidates)
}

// handleProbe handles ctags_probe tool calls
func (s *MCPServer) handleProbe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = logger.WithRequestID(ctx, uuid.NewString())
	host := s.host("")

	src, err := s.newSource()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create ctags source: %v", err)), nil
	}
	src.Init(ctx, host, s.rawParams(request))

	result := src.ProbeResult()
	out := ProbeOutput{
		Executable: src.Params().Executable,
		Available:  result.Available,
		Banner:     result.Banner,
	}
	if result.Version != nil {
		out.Version = result.Version.String()
	}
	if len(host.reported) > 0 {
		out.Error = strings.Join(host.reported, "; ")
	}

	s.logger.With(logger.FieldsFromContext(ctx)...).Infow("MCP probe",
		logger.FieldExecutable, out.Executable,
		logger.FieldAvailable, out.Available,
	)
	return jsonResult(out)
}

// handleCandidates handles ctags_candidates tool calls
func (s *MCPServer) handleCandidates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := request.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ctx = logger.WithRequestID(ctx, uuid.NewString())
	host := s.host(s.resolve(file))

	src, err := s.newSource()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create ctags source: %v", err)), nil
	}
	if !src.Init(ctx, host, s.rawParams(request)) {
		return mcp.NewToolResultError(strings.Join(host.reported, "; ")), nil
	}

	if !ctags.IsReadableFile(host.file) {
		return mcp.NewToolResultError(fmt.Sprintf("%s is not a readable file", file)), nil
	}

	candidates, err := src.Gather(ctx, host)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to gather candidates: %v", err)), nil
	}

	s.logger.With(logger.FieldsFromContext(ctx)...).Infow("MCP candidates",
		logger.FieldFile, host.file,
		logger.FieldCandidates, len(candidates),
	)
	return jsonResult(candidates)
}

// Serve starts the MCP server using stdio transport
func (s *MCPServer) Serve() error {
	return server.ServeStdio(s.server)
}

// resolve makes file absolute against the workspace root
func (s *MCPServer) resolve(file string) string {
	if filepath.IsAbs(file) || s.opts.WorkspaceRoot == "" {
		return filepath.Clean(file)
	}
	return filepath.Join(s.opts.WorkspaceRoot, file)
}

func (s *MCPServer) host(file string) *toolHost {
	return &toolHost{
		file:       file,
		rootDir:    s.opts.WorkspaceRoot,
		suffixes:   s.opts.Suffixes,
		executable: s.opts.Executable,
	}
}

// rawParams starts from the configured executable and overlays the tool
// argument untouched, so a non-string value is still rejected by the source
func (s *MCPServer) rawParams(request mcp.CallToolRequest) map[string]any {
	raw := map[string]any{}
	if s.opts.DefaultExecutable != "" {
		raw["executable"] = s.opts.DefaultExecutable
	}
	if value, ok := request.GetArguments()["executable"]; ok {
		raw["executable"] = value
	}
	return raw
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode tool result")
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolHost answers ctags.Host queries for one tool call and collects the
// diagnostics the source reports
type toolHost struct {
	file       string
	rootDir    string
	suffixes   string
	executable func(name string) bool

	mu       sync.Mutex
	reported []string
}

var _ ctags.Host = (*toolHost)(nil)

func (h *toolHost) Executable(_ context.Context, name string) bool {
	return h.executable(name)
}

func (h *toolHost) BufferName(context.Context) (string, error) {
	if h.file == "" {
		return "", nil
	}
	return filepath.Base(h.file), nil
}

func (h *toolHost) FilePath(context.Context) (string, error) {
	return h.file, nil
}

func (h *toolHost) WorkingDir(context.Context) (string, error) {
	if h.rootDir != "" {
		return h.rootDir, nil
	}
	if h.file != "" {
		return filepath.Dir(h.file), nil
	}
	return "", nil
}

func (h *toolHost) Option(_ context.Context, name string) (string, error) {
	if name == ctags.SuffixOption {
		return h.suffixes, nil
	}
	return "", nil
}

func (h *toolHost) ReportError(_ context.Context, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reported = append(h.reported, message)
}

// Echo is dropped: tool calls have no status line
func (h *toolHost) Echo(context.Context, string) {}
