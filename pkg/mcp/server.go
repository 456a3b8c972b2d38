// Package mcp exposes the import sorter as MCP tools over stdio.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/importsorter/pkg/extractor"
	"github.com/gnana997/importsorter/pkg/mcplog"
	"github.com/gnana997/importsorter/pkg/runner"
)

const serverName = "importsorter"

// Version is reported to MCP clients during initialization.
var Version = "0.1.0-dev"

// Processor sorts the imports of one source text.
type Processor interface {
	Process(path string, source []byte) (*runner.Outcome, error)
}

// Parser extracts the imports of one source text.
type Parser interface {
	Extract(path string, source []byte) (*extractor.Result, error)
}

// Server implements the MCP server.
type Server struct {
	mcpServer *server.MCPServer
	processor Processor
	parser    Parser
	calls     *mcplog.Logger
	logger    *slog.Logger
}

// NewServer registers the sort_imports and parse_imports tools. calls may be
// nil to disable the JSONL call log.
func NewServer(p Processor, parser Parser, calls *mcplog.Logger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{processor: p, parser: parser, calls: calls, logger: logger}

	s.mcpServer = server.NewMCPServer(
		serverName,
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(s.callMiddleware()),
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: sortImportsTool(), Handler: s.handleSortImports},
		server.ServerTool{Tool: parseImportsTool(), Handler: s.handleParseImports},
	)

	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves on stdin/stdout until stdin is closed.
func (s *Server) ServeStdio() error {
	s.logger.Info("mcp server listening on stdio", "version", Version)
	return server.ServeStdio(s.mcpServer)
}
