package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/importsorter/pkg/extractor"
)

// sortResponse is the sort_imports payload.
type sortResponse struct {
	Path        string                 `json:"path"`
	Text        string                 `json:"text"`
	ImportText  string                 `json:"import_text"`
	Changed     bool                   `json:"changed"`
	Skipped     bool                   `json:"skipped,omitempty"`
	Imports     int                    `json:"imports"`
	Duplicates  int                    `json:"duplicates"`
	Diagnostics []extractor.Diagnostic `json:"diagnostics,omitempty"`
}

func sourceArgs(req mcp.CallToolRequest) (path, source string, err error) {
	source, err = req.RequireString("source")
	if err != nil {
		return "", "", err
	}
	return req.GetString("path", defaultPath), source, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleSortImports(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, source, err := sourceArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := s.processor.Process(path, []byte(source))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to sort imports", err), nil
	}

	imports := 0
	for _, g := range out.Groups {
		imports += len(g.Elements)
	}
	return jsonResult(sortResponse{
		Path:        out.Path,
		Text:        out.Text,
		ImportText:  out.ImportText,
		Changed:     out.Changed,
		Skipped:     out.Skipped,
		Imports:     imports,
		Duplicates:  len(out.Duplicates),
		Diagnostics: out.Diagnostics,
	})
}

func (s *Server) handleParseImports(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, source, err := sourceArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.parser.Extract(path, []byte(source))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse imports", err), nil
	}
	return jsonResult(res)
}
