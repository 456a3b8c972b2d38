// Package mcplog writes one JSON line per MCP tool call.
package mcplog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// maxInlineString is the longest string argument copied into an entry.
const maxInlineString = 80

// Entry is one logged tool call.
type Entry struct {
	Time          time.Time      `json:"time"`
	Tool          string         `json:"tool"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	Status        string         `json:"status"`
	Error         string         `json:"error,omitempty"`
}

// Logger appends entries to a writer. A nil *Logger discards everything, so
// callers never need to check whether call logging is enabled.
type Logger struct {
	mu  sync.Mutex
	w   io.WriteCloser
	enc *json.Encoder
}

// Open appends to the file at path, creating it and its parent directories.
// An empty path returns a nil Logger.
func Open(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create call log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open call log: %w", err)
	}
	return New(f), nil
}

// New wraps w.
func New(w io.WriteCloser) *Logger {
	return &Logger{w: w, enc: json.NewEncoder(w)}
}

// Record writes e as a single line.
func (l *Logger) Record(e Entry) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(e)
}

func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Close()
}

// Redact copies args for logging. Long strings, such as whole source files,
// are replaced by a "<key>_bytes" entry holding their length.
func Redact(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		s, ok := v.(string)
		if ok && len(s) > maxInlineString {
			out[k+"_bytes"] = len(s)
			continue
		}
		out[k] = v
	}
	return out
}

// ResultBytes is the encoded size of the result content, 0 for nil.
func ResultBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// Now is the clock used for entry timestamps.
var Now = time.Now
