package mcpserver

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/semindex/pkg/batch"
	"github.com/gnana997/semindex/pkg/parser"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for the semantic indexer, exposing
// index_file and index_workspace tools.
type Server struct {
	mcpServer *server.MCPServer
	pm        *parser.ParserManager
	logger    *Logger       // may be nil if logging is disabled
	slog      *slog.Logger
}

// NewServer creates an MCP server backed by a shared ParserManager. Pass nil
// for logger to disable JSONL tool-call logging.
func NewServer(pm *parser.ParserManager, logger *Logger, sl *slog.Logger) *Server {
	s := &Server{pm: pm, logger: logger, slog: sl}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("semindex", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: indexFileTool(), Handler: s.handleIndexFile},
		server.ServerTool{Tool: indexWorkspaceTool(), Handler: s.handleIndexWorkspace},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Close shuts down the logger if one is active. Should be deferred after NewServer.
func (s *Server) Close() error {
	if s.logger != nil {
		return s.logger.Close()
	}
	return nil
}

// newStore builds a fresh batch.Store for one index_workspace call.
func (s *Server) newStore() *batch.Store {
	return batch.NewStore(batch.DefaultStoreConfig(), s.slog)
}
