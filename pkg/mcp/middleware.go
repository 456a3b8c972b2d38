package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/importsorter/pkg/mcplog"
	"github.com/gnana997/importsorter/pkg/metrics"
)

// callMiddleware counts every tool call and appends it to the call log.
func (s *Server) callMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)
			elapsed := time.Since(start)

			entry := mcplog.Entry{
				Time:          start.UTC(),
				Tool:          req.Params.Name,
				Params:        mcplog.Redact(req.GetArguments()),
				DurationMs:    elapsed.Milliseconds(),
				ResponseBytes: mcplog.ResultBytes(result),
				Status:        "ok",
			}
			switch {
			case err != nil:
				entry.Status = "error"
				entry.Error = err.Error()
			case result != nil && result.IsError:
				entry.Status = "error"
				entry.Error = resultText(result)
			}

			metrics.ToolCallsTotal.WithLabelValues(entry.Tool, entry.Status).Inc()
			if lerr := s.calls.Record(entry); lerr != nil {
				s.logger.Warn("failed to write call log", "tool", entry.Tool, "error", lerr)
			}
			s.logger.Debug("tool call", "tool", entry.Tool, "status", entry.Status, "duration_ms", entry.DurationMs)

			return result, err
		}
	}
}

func resultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
