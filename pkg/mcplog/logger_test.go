package mcplog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if sc.Text() == "" {
			continue
		}
		var e Entry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e), "torn line %q", sc.Text())
		entries = append(entries, e)
	}
	require.NoError(t, sc.Err())
	return entries
}

func TestRedact(t *testing.T) {
	long := strings.Repeat("x", maxInlineString+1)

	tests := []struct {
		name  string
		input map[string]any
		want  map[string]any
	}{
		{"nil", nil, map[string]any{}},
		{"short string kept", map[string]any{"path": "a.ts"}, map[string]any{"path": "a.ts"}},
		{"long string replaced", map[string]any{"source": long}, map[string]any{"source_bytes": len(long)}},
		{"limit is inclusive", map[string]any{"source": long[1:]}, map[string]any{"source": long[1:]}},
		{"other types kept", map[string]any{"write": true, "n": 3.0, "x": nil}, map[string]any{"write": true, "n": 3.0, "x": nil}},
		{
			"mixed",
			map[string]any{"path": "b.tsx", "source": long},
			map[string]any{"path": "b.tsx", "source_bytes": len(long)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Redact(tt.input))
		})
	}
}

func TestResultBytes(t *testing.T) {
	assert.Zero(t, ResultBytes(nil))

	result := mcp.NewToolResultText("hello")
	b, err := json.Marshal(result.Content)
	require.NoError(t, err)
	assert.Equal(t, len(b), ResultBytes(result))
}

func TestLogger_RecordAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	l, err := Open(path)
	require.NoError(t, err)

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Time: ts, Tool: "sort_imports", Params: map[string]any{"source_bytes": 1200.0}, DurationMs: 4, ResponseBytes: 900, Status: "ok"},
		{Time: ts, Tool: "parse_imports", Params: map[string]any{"path": "a.ts"}, DurationMs: 2, Status: "error", Error: "boom"},
	}
	for _, e := range entries {
		require.NoError(t, l.Record(e))
	}
	require.NoError(t, l.Close())

	got := readEntries(t, path)
	assert.Equal(t, entries, got)
}

func TestLogger_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	for i := 0; i < 2; i++ {
		l, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, l.Record(Entry{Tool: "sort_imports", Status: "ok"}))
		require.NoError(t, l.Close())
	}
	assert.Len(t, readEntries(t, path), 2)
}

func TestLogger_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	l, err := Open(path)
	require.NoError(t, err)

	const goroutines, each = 40, 10
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				_ = l.Record(Entry{Time: Now(), Tool: "sort_imports", Status: "ok"})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, l.Close())

	assert.Len(t, readEntries(t, path), goroutines*each)
}

func TestOpen_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "calls.jsonl")
	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	assert.FileExists(t, path)
}

func TestOpen_EmptyPathDisables(t *testing.T) {
	l, err := Open("")
	require.NoError(t, err)
	assert.Nil(t, l)

	assert.NoError(t, l.Record(Entry{Tool: "sort_imports"}))
	assert.NoError(t, l.Close())
}
