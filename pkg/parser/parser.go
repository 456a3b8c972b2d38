// Package parser owns the tree-sitter grammars and pools of parsers used to
// read TypeScript and JavaScript sources.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

var (
	// ErrUnsupportedLanguage is returned for LanguageUnknown.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrClosed is returned by Parse after Close.
	ErrClosed = errors.New("parser manager is closed")
)

// grammarKey identifies one pool: TypeScript and TSX are distinct grammars.
type grammarKey struct {
	lang  Language
	isTSX bool
}

func (k grammarKey) String() string {
	if k.lang == LanguageTypeScript && k.isTSX {
		return "tsx"
	}
	return k.lang.String()
}

// ParserManager lazily creates one parser pool per grammar and lends
// parsers to concurrent callers.
//
// Callers own the returned trees and must Close them. The manager itself
// must be closed once no more parses are expected.
//
//	pm := parser.NewParserManager(logger)
//	defer pm.Close()
//
//	tree, err := pm.ParseFile(src, "src/app.tsx")
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	mu     sync.RWMutex
	pools  map[grammarKey]*parserPool
	closed bool

	poolSize int
	logger   *slog.Logger

	parses int
}

// Option configures a ParserManager.
type Option func(*ParserManager)

// WithPoolSize caps the number of parsers per grammar. Zero keeps the CPU
// based default.
func WithPoolSize(n int) Option {
	return func(pm *ParserManager) {
		pm.poolSize = poolSize(n)
	}
}

// NewParserManager returns a manager with no pools created yet.
func NewParserManager(logger *slog.Logger, opts ...Option) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}

	pm := &ParserManager{
		pools:    make(map[grammarKey]*parserPool),
		poolSize: poolSize(0),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(pm)
	}
	return pm
}

// Parse parses source with the given grammar. isTSX only matters for
// TypeScript. Trees with syntax errors are still returned; the extractor
// works on partial trees.
func (pm *ParserManager) Parse(source []byte, lang Language, isTSX bool) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, ErrUnsupportedLanguage
	}
	if lang != LanguageTypeScript {
		isTSX = false
	}

	pool, err := pm.pool(grammarKey{lang: lang, isTSX: isTSX})
	if err != nil {
		return nil, err
	}

	p, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s parser: %w", pool.key, err)
	}
	tree := p.Parse(source, nil)
	pool.release(p)

	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s source", pool.key)
	}

	pm.mu.Lock()
	pm.parses++
	pm.mu.Unlock()

	return tree, nil
}

// ParseFile picks the grammar from the file extension. Unknown extensions
// fall back to TypeScript, which is a superset of the import syntax of both
// languages.
func (pm *ParserManager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	lang, isTSX := ResolveLanguage(filePath)
	return pm.Parse(source, lang, isTSX)
}

// pool returns the pool for key, creating it on first use.
func (pm *ParserManager) pool(key grammarKey) (*parserPool, error) {
	pm.mu.RLock()
	pool, ok := pm.pools[key]
	closed := pm.closed
	pm.mu.RUnlock()

	if closed {
		return nil, ErrClosed
	}
	if ok {
		return pool, nil
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.closed {
		return nil, ErrClosed
	}
	if pool, ok = pm.pools[key]; ok {
		return pool, nil
	}

	langPtr, err := languagePointer(key)
	if err != nil {
		return nil, err
	}
	pool = newParserPool(key, langPtr, pm.poolSize, pm.logger)
	pm.pools[key] = pool

	pm.logger.Debug("created parser pool", "grammar", key.String(), "max_size", pm.poolSize)
	return pool, nil
}

func languagePointer(key grammarKey) (unsafe.Pointer, error) {
	switch key.lang {
	case LanguageTypeScript:
		if key.isTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, key.lang)
	}
}

// Close frees every pooled parser. Later Parse calls return ErrClosed.
func (pm *ParserManager) Close() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.closed {
		return nil
	}
	pm.closed = true

	freed := 0
	for _, pool := range pm.pools {
		freed += pool.close()
	}
	pm.logger.Debug("closed parser manager", "parses", pm.parses, "parsers_freed", freed)
	return nil
}

// Stats is a snapshot of parser usage.
type Stats struct {
	Pools          int
	ParsersCreated int
	Parses         int
}

// GetStats returns a snapshot of parser usage.
func (pm *ParserManager) GetStats() Stats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	stats := Stats{Pools: len(pm.pools), Parses: pm.parses}
	for _, pool := range pm.pools {
		stats.ParsersCreated += pool.createdCount()
	}
	return stats
}
