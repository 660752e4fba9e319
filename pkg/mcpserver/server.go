// Package mcpserver exposes the dispatcher over the Model Context Protocol
// stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"sort"

	"github.com/harun/buffettcode-mcp/internal/tracing"
	"github.com/harun/buffettcode-mcp/pkg/dispatcher"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// DefaultName is the server identity reported during initialize.
const DefaultName = "buffetcode-mcp-server"

// TransportStdio tags trace contexts for calls arriving over stdio.
const TransportStdio = "stdio"

// Server binds a Dispatcher to an MCP server.
type Server struct {
	dispatcher *dispatcher.Dispatcher
	mcp        *server.MCPServer
	logger     zerolog.Logger
	// rank is each tool's catalog position.
	rank map[string]int
}

// Config holds server identity
type Config struct {
	Name    string
	Version string
	Logger  zerolog.Logger
}

// New registers every catalog tool with an MCP server.
func New(d *dispatcher.Dispatcher, cfg Config) (*Server, error) {
	if d == nil {
		return nil, errors.New("dispatcher cannot be nil")
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	s := &Server{
		dispatcher: d,
		logger:     cfg.Logger.With().Str("component", "mcpserver").Logger(),
		rank:       make(map[string]int),
	}

	hooks := &server.Hooks{}
	hooks.AddOnRequestInitialization(s.checkToolName)

	s.mcp = server.NewMCPServer(cfg.Name, cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolFilter(s.inCatalogOrder),
		server.WithHooks(hooks),
	)

	for i, info := range d.List() {
		s.rank[info.Name] = i
		raw, err := json.Marshal(info.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("marshal schema for %s: %w", info.Name, err)
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(info.Name, info.Description, raw), s.handle)
	}

	s.logger.Debug().Int("tools", len(d.List())).Msg("Registered tools")
	return s, nil
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// inCatalogOrder restores catalog order; the protocol server sorts tools
// by name before filtering.
func (s *Server) inCatalogOrder(_ context.Context, tools []mcp.Tool) []mcp.Tool {
	ordered := make([]mcp.Tool, len(tools))
	copy(ordered, tools)
	sort.SliceStable(ordered, func(i, j int) bool {
		return s.rank[ordered[i].Name] < s.rank[ordered[j].Name]
	})
	return ordered
}

// checkToolName answers tools/call for unregistered names with the
// dispatcher's own error instead of the protocol server's.
func (s *Server) checkToolName(ctx context.Context, _ any, message any) error {
	raw, err := json.Marshal(message)
	if err != nil {
		return nil
	}
	var req struct {
		Method string `json:"method"`
		Params struct {
			Name string `json:"name"`
		} `json:"params"`
	}
	if err := json.Unmarshal(raw, &req); err != nil || req.Method != string(mcp.MethodToolsCall) {
		return nil
	}
	if _, ok := s.rank[req.Params.Name]; ok {
		return nil
	}

	ctx = tracing.WithTransport(tracing.NewRequestContext(ctx), TransportStdio)
	_, err = s.dispatcher.Call(ctx, req.Params.Name, nil)
	return err
}

// handle forwards one tools/call. Failures become protocol errors carrying
// the dispatcher's message.
func (s *Server) handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = tracing.WithTransport(tracing.NewRequestContext(ctx), TransportStdio)

	res, err := s.dispatcher.Call(ctx, req.Params.Name, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(res.Text()), nil
}

// Serve reads newline-delimited JSON-RPC frames from in and writes replies
// to out until ctx is done or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(stdlog.New(errorWriter{logger: s.logger}, "", 0))

	s.logger.Info().Msg("Serving MCP over stdio")
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

// errorWriter adapts the stdio server's error log to zerolog.
type errorWriter struct {
	logger zerolog.Logger
}

func (w errorWriter) Write(p []byte) (int, error) {
	msg := string(p)
	if n := len(msg); n > 0 && msg[n-1] == '\n' {
		msg = msg[:n-1]
	}
	w.logger.Error().Msg(msg)
	return len(p), nil
}
