// Package metrics holds the prometheus collectors recorded by the runner,
// the workspace watcher and the MCP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels for FilesProcessedTotal.
const (
	ResultChanged   = "changed"
	ResultUnchanged = "unchanged"
	ResultSkipped   = "skipped"
	ResultFailed    = "failed"
)

var (
	FilesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "importsorter_files_processed_total",
		Help: "Files run through the import sorter, by result.",
	}, []string{"result"})

	ProcessDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "importsorter_process_seconds",
		Help:    "Time spent extracting, sorting and rendering one file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	ImportsExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "importsorter_imports_extracted_total",
		Help: "Import declarations extracted from source files.",
	})

	DuplicatesJoinedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "importsorter_duplicates_joined_total",
		Help: "Import declarations merged into another declaration of the same module.",
	})

	DiagnosticsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "importsorter_diagnostics_total",
		Help: "Import declarations skipped because their shape is not supported.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "importsorter_watcher_events_total",
		Help: "File system events received by the watcher.",
	})

	ToolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "importsorter_mcp_tool_calls_total",
		Help: "MCP tool invocations, by tool and status.",
	}, []string{"tool", "status"})
)
