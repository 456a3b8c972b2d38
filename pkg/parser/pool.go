package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool hands out parsers bound to one grammar.
//
// Parsers are created lazily up to maxSize; once the limit is reached
// acquire blocks until another goroutine releases one.
type parserPool struct {
	key     grammarKey
	langPtr unsafe.Pointer
	idle    chan *ts.Parser
	maxSize int

	mu      sync.Mutex
	created int
	closed  bool

	logger *slog.Logger
}

func newParserPool(key grammarKey, langPtr unsafe.Pointer, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		key:     key,
		langPtr: langPtr,
		idle:    make(chan *ts.Parser, maxSize),
		maxSize: maxSize,
		logger:  logger,
	}
}

func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser, ok := <-p.idle:
		if !ok {
			return nil, ErrClosed
		}
		return parser, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	if p.created >= p.maxSize {
		p.mu.Unlock()
		parser, ok := <-p.idle
		if !ok {
			return nil, ErrClosed
		}
		return parser, nil
	}
	defer p.mu.Unlock()

	parser := ts.NewParser()
	if parser == nil {
		return nil, fmt.Errorf("failed to create parser")
	}
	if err := parser.SetLanguage(ts.NewLanguage(p.langPtr)); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to set language %s: %w", p.key, err)
	}
	p.created++

	p.logger.Debug("created parser",
		"grammar", p.key.String(),
		"pool_size", p.created)

	return parser, nil
}

func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		parser.Close()
		return
	}
	select {
	case p.idle <- parser:
	default:
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser", "grammar", p.key.String())
	}
}

// close frees the idle parsers. Parsers still checked out are closed when
// they come back through release.
func (p *parserPool) close() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0
	}
	p.closed = true
	close(p.idle)

	n := 0
	for parser := range p.idle {
		parser.Close()
		n++
	}
	return n
}

func (p *parserPool) createdCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}
