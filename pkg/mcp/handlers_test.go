package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/importsorter/pkg/config"
	"github.com/gnana997/importsorter/pkg/extractor"
	"github.com/gnana997/importsorter/pkg/mcplog"
	"github.com/gnana997/importsorter/pkg/metrics"
	"github.com/gnana997/importsorter/pkg/parser"
	"github.com/gnana997/importsorter/pkg/runner"
	"github.com/gnana997/importsorter/pkg/util"
)

// --- helpers ---

func testServer(t *testing.T, calls *mcplog.Logger) *Server {
	t.Helper()
	pm := parser.NewParserManager(util.NopLogger())
	t.Cleanup(func() { pm.Close() })

	r, err := runner.Build(config.Defaults(), pm, util.NopLogger())
	require.NoError(t, err)
	return NewServer(r, extractor.New(pm, util.NopLogger()), calls, util.NopLogger())
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	switch req.Params.Name {
	case toolSortImports:
		handler = s.handleSortImports
	case toolParseImports:
		handler = s.handleParseImports
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := s.callMiddleware()(handler)(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

type failingProcessor struct{}

func (failingProcessor) Process(string, []byte) (*runner.Outcome, error) {
	return nil, errors.New("exploded")
}

// --- sort_imports ---

func TestHandleSortImports(t *testing.T) {
	tests := []struct {
		name       string
		args       map[string]any
		wantText   string
		changed    bool
		imports    int
		duplicates int
	}{
		{
			name:     "reorders",
			args:     map[string]any{"source": "import b from 'b';\nimport a from 'a';\n"},
			wantText: "import a from 'a';\nimport b from 'b';\n",
			changed:  true,
			imports:  2,
		},
		{
			name:       "joins duplicates",
			args:       map[string]any{"source": "import { a } from 'x';\nimport { b } from 'x';\n"},
			wantText:   "import { a, b } from 'x';\n",
			changed:    true,
			imports:    1,
			duplicates: 1,
		},
		{
			name:     "already sorted",
			args:     map[string]any{"source": "import a from 'a';\n", "path": "view.tsx"},
			wantText: "import a from 'a';\n",
			imports:  1,
		},
		{
			name:     "no imports",
			args:     map[string]any{"source": "const x = 1;\n", "path": "a.js"},
			wantText: "const x = 1;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testServer(t, nil)
			result := callTool(t, s, makeRequest(toolSortImports, tt.args))
			assert.False(t, result.IsError)

			var resp sortResponse
			require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &resp))
			assert.Equal(t, tt.wantText, resp.Text)
			assert.Equal(t, tt.changed, resp.Changed)
			assert.Equal(t, tt.imports, resp.Imports)
			assert.Equal(t, tt.duplicates, resp.Duplicates)
		})
	}
}

func TestHandleSortImports_DefaultPath(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest(toolSortImports, map[string]any{"source": "import a from 'a';\n"}))

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &resp))
	assert.Equal(t, defaultPath, resp["path"])
	assert.Equal(t, "import a from 'a';\n", resp["import_text"])
}

func TestHandleSortImports_Diagnostics(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest(toolSortImports, map[string]any{
		"source": "import fs = require('fs');\nimport a from 'a';\n",
	}))
	assert.False(t, result.IsError)

	var resp sortResponse
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &resp))
	assert.Len(t, resp.Diagnostics, 1)
}

func TestHandleSortImports_MissingSource(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest(toolSortImports, nil))
	assert.True(t, result.IsError)
}

func TestHandleSortImports_ProcessorError(t *testing.T) {
	s := NewServer(failingProcessor{}, nil, nil, util.NopLogger())
	result := callTool(t, s, makeRequest(toolSortImports, map[string]any{"source": "import a from 'a';"}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "exploded")
}

// --- parse_imports ---

func TestHandleParseImports(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest(toolParseImports, map[string]any{
		"source": "// about react\nimport React, { useState as useS } from 'react';\nimport './styles.css';\n\nuseS(React);\n",
		"path":   "app.tsx",
	}))
	assert.False(t, result.IsError)

	var res extractor.Result
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &res))
	assert.Equal(t, "app.tsx", res.Path)
	require.Len(t, res.ImportElements, 2)

	react := res.ImportElements[0]
	assert.Equal(t, "react", react.ModuleSpecifierName)
	assert.Equal(t, "React", react.DefaultImportName)
	require.Len(t, react.NamedBindings, 1)
	assert.Equal(t, "useState", react.NamedBindings[0].Name)
	assert.Equal(t, "useS", react.NamedBindings[0].AliasName)
	require.Len(t, react.ImportComment.LeadingComments, 1)

	assert.Equal(t, "./styles.css", res.ImportElements[1].ModuleSpecifierName)
	assert.False(t, res.ImportElements[1].HasFromKeyword)

	assert.Contains(t, res.UsedIdentifiers, "useS")
	require.NotNil(t, res.FirstImportLine)
}

func TestHandleParseImports_MissingSource(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest(toolParseImports, map[string]any{"path": "a.ts"}))
	assert.True(t, result.IsError)
}

// --- middleware ---

func TestCallMiddleware_LogsAndCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	calls, err := mcplog.Open(path)
	require.NoError(t, err)

	okBefore := testutil.ToFloat64(metrics.ToolCallsTotal.WithLabelValues(toolSortImports, "ok"))
	errBefore := testutil.ToFloat64(metrics.ToolCallsTotal.WithLabelValues(toolSortImports, "error"))

	s := testServer(t, calls)
	long := "import b from 'b';\nimport a from 'a';\n// padding padding padding padding padding padding padding\n"
	callTool(t, s, makeRequest(toolSortImports, map[string]any{"source": long, "path": "x.ts"}))
	callTool(t, s, makeRequest(toolSortImports, nil))
	require.NoError(t, calls.Close())

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.ToolCallsTotal.WithLabelValues(toolSortImports, "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(metrics.ToolCallsTotal.WithLabelValues(toolSortImports, "error")))

	data, err := readLines(path)
	require.NoError(t, err)
	require.Len(t, data, 2)

	var first, second mcplog.Entry
	require.NoError(t, json.Unmarshal(data[0], &first))
	require.NoError(t, json.Unmarshal(data[1], &second))

	assert.Equal(t, toolSortImports, first.Tool)
	assert.Equal(t, "ok", first.Status)
	assert.Equal(t, "x.ts", first.Params["path"])
	assert.Equal(t, float64(len(long)), first.Params["source_bytes"])
	assert.NotContains(t, first.Params, "source")
	assert.Positive(t, first.ResponseBytes)

	assert.Equal(t, "error", second.Status)
	assert.NotEmpty(t, second.Error)
}

func readLines(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return bytes.Split(bytes.TrimRight(data, "\n"), []byte("\n")), nil
}

// --- tool definitions ---

func TestToolDefinitions(t *testing.T) {
	for _, tool := range []mcp.Tool{sortImportsTool(), parseImportsTool()} {
		t.Run(tool.Name, func(t *testing.T) {
			assert.NotEmpty(t, tool.Description)
			assert.Equal(t, []string{"source"}, tool.InputSchema.Required)
			assert.Contains(t, tool.InputSchema.Properties, "source")
			assert.Contains(t, tool.InputSchema.Properties, "path")
		})
	}
}
