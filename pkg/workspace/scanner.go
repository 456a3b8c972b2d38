package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// matcher applies include and exclude patterns to paths under root.
type matcher struct {
	root    string
	include []string
	exclude []string
}

func newMatcher(root string, include, exclude []string) (*matcher, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	return &matcher{root: root, include: include, exclude: exclude}, nil
}

func (m *matcher) rel(path string) string {
	rel, err := filepath.Rel(m.root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func (m *matcher) excluded(rel string) bool {
	for _, pattern := range m.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// skipDir reports whether the directory at path is excluded.
func (m *matcher) skipDir(path string) bool {
	rel := m.rel(path)
	if rel == "." {
		return false
	}
	return m.excluded(rel)
}

// matchFile reports whether the file at path is included and not excluded.
func (m *matcher) matchFile(path string) bool {
	rel := m.rel(path)
	if m.excluded(rel) {
		return false
	}
	for _, pattern := range m.include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Scanner discovers source files and sorts them in parallel.
//
//	sc := workspace.NewScanner(runner, logger)
//	stats, err := sc.SortDirectory(ctx, "./src", workspace.DefaultOptions(), nil)
type Scanner struct {
	processor Processor
	logger    *slog.Logger
}

func NewScanner(p Processor, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{processor: p, logger: logger}
}

// Discover walks root and returns the matching files in lexical order.
// Unreadable entries are logged and skipped.
func (sc *Scanner) Discover(root string, opts Options) ([]string, error) {
	m, err := newMatcher(root, opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			sc.logger.Warn("walk error", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if m.skipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if m.matchFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// SortDirectory discovers files under root and processes them with a worker
// pool. Per-file failures are collected in Stats.Errors; the returned error
// is reserved for discovery failures and cancellation.
func (sc *Scanner) SortDirectory(ctx context.Context, root string, opts Options, progress ProgressCallback) (*Stats, error) {
	started := time.Now()
	stats := &Stats{ChangedFiles: []string{}}

	files, err := sc.Discover(root, opts)
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	stats.Discovered = len(files)
	sc.logger.Info("file discovery complete", "root", root, "files", len(files))

	if len(files) == 0 {
		stats.Duration = time.Since(started)
		return stats, nil
	}

	pool := NewWorkerPool(ctx, opts.Workers, sc.processor, opts.Write, sc.logger)
	pool.Start()

	done := make(chan struct{})
	record := func(path string, fn func()) {
		fn()
		n := stats.Changed + stats.Unchanged + stats.Skipped + stats.Failed
		if progress != nil {
			progress(n, len(files), path)
		}
	}

	// the collector must run before jobs are submitted, or a full results
	// channel blocks the submit loop
	go func() {
		defer close(done)
		results, errs := pool.Results(), pool.Errors()
		for results != nil || errs != nil {
			select {
			case res, ok := <-results:
				if !ok {
					results = nil
					continue
				}
				record(res.Path, func() {
					switch {
					case res.Outcome.Skipped:
						stats.Skipped++
					case res.Outcome.Changed:
						stats.Changed++
						stats.ChangedFiles = append(stats.ChangedFiles, res.Path)
					default:
						stats.Unchanged++
					}
				})
			case fe, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				sc.logger.Warn("file processing failed", "file", fe.Path, "error", fe.Err)
				record(fe.Path, func() {
					stats.Failed++
					stats.Errors = append(stats.Errors, fe)
				})
			}
		}
	}()

	var submitErr error
	for i, file := range files {
		if err := pool.Submit(FileJob{Path: file, ID: i}); err != nil {
			submitErr = err
			break
		}
	}
	pool.Stop()
	<-done

	sort.Strings(stats.ChangedFiles)
	stats.Duration = time.Since(started)

	if ctx.Err() != nil {
		stats.Cancelled = true
		return stats, fmt.Errorf("directory sort cancelled: %w", ctx.Err())
	}
	if submitErr != nil {
		return stats, submitErr
	}

	sc.logger.Info("directory sort complete",
		"files", stats.Discovered,
		"changed", stats.Changed,
		"failed", stats.Failed,
		"duration_ms", stats.Duration.Milliseconds())
	return stats, nil
}
