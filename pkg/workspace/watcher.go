package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/importsorter/pkg/metrics"
	"github.com/gnana997/importsorter/pkg/runner"
	"github.com/gnana997/importsorter/pkg/util"
)

// WatchOptions configures a Watcher.
type WatchOptions struct {
	Include []string
	Exclude []string

	// Debounce groups bursts of events for one file. Default 200ms.
	Debounce time.Duration

	// CacheSize bounds the number of remembered file digests. Default 1024.
	CacheSize int

	// OnSorted is called after every processed file, from the debounce goroutine.
	OnSorted func(*runner.Outcome)
}

// DefaultWatchOptions returns options for TypeScript sources.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Include:   append([]string(nil), DefaultInclude...),
		Exclude:   append([]string(nil), DefaultExclude...),
		Debounce:  200 * time.Millisecond,
		CacheSize: 1024,
	}
}

// Watcher sorts files as they are written.
//
// Every digest of content the watcher has seen sorted is kept in an LRU
// cache, so the write events caused by its own rewrites are ignored.
//
//	w, err := workspace.NewWatcher(runner, workspace.DefaultWatchOptions(), logger)
//	if err := w.Start("./src"); err != nil { ... }
//	defer w.Stop()
type Watcher struct {
	fsw       *fsnotify.Watcher
	processor Processor
	options   WatchOptions
	logger    *slog.Logger
	matcher   *matcher
	sorted    *lru.Cache[string, uint64]

	timers   map[string]*time.Timer
	timersMu sync.Mutex
	inflight sync.WaitGroup

	stopChan chan struct{}
	loopDone chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates an fsnotify watcher. Nothing is watched until Start.
func NewWatcher(p Processor, options WatchOptions, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if options.Debounce <= 0 {
		options.Debounce = 200 * time.Millisecond
	}
	if options.CacheSize <= 0 {
		options.CacheSize = 1024
	}

	cache, err := lru.New[string, uint64](options.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest cache: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		fsw:       fsw,
		processor: p,
		options:   options,
		logger:    logger,
		sorted:    cache,
		timers:    make(map[string]*time.Timer),
		stopChan:  make(chan struct{}),
		loopDone:  make(chan struct{}),
	}, nil
}

// Start watches root and every non-excluded directory below it.
func (w *Watcher) Start(root string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return errors.New("watcher already stopped")
	}
	if w.started {
		return errors.New("watcher already started")
	}

	m, err := newMatcher(root, w.options.Include, w.options.Exclude)
	if err != nil {
		return err
	}
	w.matcher = m

	if err := w.addTree(root); err != nil {
		return err
	}

	w.started = true
	go w.eventLoop()
	w.logger.Info("file watcher started", "root", root)
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to watch %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.matcher.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			if path == root {
				return fmt.Errorf("failed to watch %s: %w", root, err)
			}
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop cancels pending re-sorts, waits for running ones and closes the
// fsnotify watcher. It is idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	started := w.started
	close(w.stopChan)
	w.mu.Unlock()

	if started {
		<-w.loopDone
	}

	w.timersMu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.timersMu.Unlock()
	w.inflight.Wait()

	err := w.fsw.Close()
	w.logger.Info("file watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	defer close(w.loopDone)
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	metrics.WatcherEventsTotal.Inc()
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.matcher.skipDir(path) {
				if err := w.addTree(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	if !w.matcher.matchFile(path) {
		return
	}
	w.logger.Debug("file event", "op", event.Op.String(), "file", path)

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.schedule(path)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.sorted.Remove(path)
	}
}

// schedule re-sorts path once no event arrived for it during Debounce.
func (w *Watcher) schedule(path string) {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.options.Debounce, func() {
		w.timersMu.Lock()
		select {
		case <-w.stopChan:
			w.timersMu.Unlock()
			return
		default:
		}
		// registered under timersMu so Stop cannot miss it
		w.inflight.Add(1)
		delete(w.timers, path)
		w.timersMu.Unlock()

		defer w.inflight.Done()
		w.sortFile(path)
	})
}

func (w *Watcher) sortFile(path string) {
	select {
	case <-w.stopChan:
		return
	default:
	}

	source, err := util.ReadSource(path)
	if err != nil {
		w.logger.Warn("failed to read file for sorting", "file", path, "error", err)
		return
	}
	digest := util.ContentHash(source)
	if prev, ok := w.sorted.Get(path); ok && prev == digest {
		w.logger.Debug("content already sorted", "file", path)
		return
	}

	out, err := w.processor.Process(path, source)
	if err != nil {
		w.logger.Warn("failed to sort imports", "file", path, "error", err)
		return
	}

	if out.Changed && !out.Skipped {
		sortedText := []byte(out.Text)
		// remember before writing so the resulting event is recognized
		w.sorted.Add(path, util.ContentHash(sortedText))
		if err := util.WriteSource(path, sortedText); err != nil {
			w.sorted.Remove(path)
			w.logger.Warn("failed to write sorted file", "file", path, "error", err)
			return
		}
		w.logger.Info("imports sorted", "file", path)
	} else {
		w.sorted.Add(path, digest)
	}

	if w.options.OnSorted != nil {
		w.options.OnSorted(out)
	}
}

// GetStats returns watcher statistics.
func (w *Watcher) GetStats() WatcherStats {
	w.timersMu.Lock()
	pending := len(w.timers)
	w.timersMu.Unlock()

	w.mu.Lock()
	running := w.started && !w.stopped
	w.mu.Unlock()

	return WatcherStats{
		PendingSorts:  pending,
		CachedDigests: w.sorted.Len(),
		IsRunning:     running,
	}
}

// WatcherStats holds Watcher statistics.
type WatcherStats struct {
	PendingSorts  int
	CachedDigests int
	IsRunning     bool
}
