// Package renderer turns sorted import groups back into source text.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gnana997/importsorter/pkg/config"
	"github.com/gnana997/importsorter/pkg/model"
)

// ErrNotInitialized is returned by Render before Initialize succeeded.
var ErrNotInitialized = errors.New("import string configuration has not been initialized")

// Renderer formats import groups with an ImportStringConfig. Render may be
// called concurrently; Initialize swaps the configuration atomically.
type Renderer struct {
	mu     sync.RWMutex
	style  *style
	logger *slog.Logger
}

// New returns an uninitialized Renderer.
func New(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

// NewWithConfig is New followed by Initialize.
func NewWithConfig(cfg config.ImportStringConfig, logger *slog.Logger) (*Renderer, error) {
	r := New(logger)
	if err := r.Initialize(cfg); err != nil {
		return nil, err
	}
	return r, nil
}

// Initialize validates cfg and makes it the active configuration.
func (r *Renderer) Initialize(cfg config.ImportStringConfig) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid import string configuration: %w", err)
	}

	s := newStyle(cfg)
	r.mu.Lock()
	r.style = s
	r.mu.Unlock()

	r.logger.Debug("renderer initialized",
		"limit", cfg.MaximumNumberOfImportExpressionsPerLine.Count,
		"limitType", string(cfg.MaximumNumberOfImportExpressionsPerLine.Type),
		"trailingComma", string(cfg.TrailingComma))
	return nil
}

// Render formats every non-empty group. Statements of a group are separated
// by a newline, groups by their NumberOfEmptyLinesAfterGroup blank lines, and
// the result ends with NumberOfEmptyLinesAfterAllImports newlines.
func (r *Renderer) Render(groups []model.ImportElementGroup) (string, error) {
	r.mu.RLock()
	s := r.style
	r.mu.RUnlock()
	if s == nil {
		return "", ErrNotInitialized
	}

	var rendered []model.ImportElementGroup
	for _, g := range groups {
		if len(g.Elements) > 0 {
			rendered = append(rendered, g)
		}
	}
	if len(rendered) == 0 {
		return "", nil
	}

	var b strings.Builder
	for gi, g := range rendered {
		for ei := range g.Elements {
			if ei > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(s.statement(&g.Elements[ei]))
		}
		if gi < len(rendered)-1 {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat("\n", max(g.NumberOfEmptyLinesAfterGroup, 0)))
		}
	}
	b.WriteString(strings.Repeat("\n", s.emptyLinesAfterAll))
	return b.String(), nil
}

// RenderElement formats a single element without group spacing.
func (r *Renderer) RenderElement(e model.ImportElement) (string, error) {
	r.mu.RLock()
	s := r.style
	r.mu.RUnlock()
	if s == nil {
		return "", ErrNotInitialized
	}
	return s.statement(&e), nil
}
