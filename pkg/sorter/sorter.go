// Package sorter normalizes, joins, orders and groups import elements.
package sorter

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gnana997/importsorter/pkg/config"
	"github.com/gnana997/importsorter/pkg/model"
)

// ErrNotInitialized is returned by Sort before Initialize succeeded.
var ErrNotInitialized = errors.New("sort configuration has not been initialized")

// Result is the grouped output plus the elements absorbed by joining.
type Result struct {
	Groups     []model.ImportElementGroup `json:"groups"`
	Duplicates []model.ImportElement      `json:"duplicates"`
}

// Elements flattens the groups in output order.
func (r *Result) Elements() []model.ImportElement {
	var out []model.ImportElement
	for _, g := range r.Groups {
		out = append(out, g.Elements...)
	}
	return out
}

type settings struct {
	members  ordering
	paths    ordering
	join     bool
	grouping grouping
}

// Sorter applies a SortConfig to import elements. Sort may be called from
// several goroutines; Initialize waits for running sorts.
type Sorter struct {
	mu     sync.RWMutex
	cfg    *settings
	logger *slog.Logger
}

// New returns an uninitialized Sorter.
func New(logger *slog.Logger) *Sorter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sorter{logger: logger}
}

// NewWithConfig is New followed by Initialize.
func NewWithConfig(cfg config.SortConfig, logger *slog.Logger) (*Sorter, error) {
	s := New(logger)
	if err := s.Initialize(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Initialize validates cfg and resolves its policies and rule regexes.
// On error the previous configuration stays in effect.
func (s *Sorter) Initialize(cfg config.SortConfig) error {
	cfg.Normalize()

	members, err := newOrdering(cfg.ImportMembers, false)
	if err != nil {
		return fmt.Errorf("invalid importMembers: %w", err)
	}
	paths, err := newOrdering(cfg.ImportPaths, true)
	if err != nil {
		return fmt.Errorf("invalid importPaths: %w", err)
	}
	g, err := newGrouping(cfg.CustomOrderingRules)
	if err != nil {
		return fmt.Errorf("invalid customOrderingRules: %w", err)
	}

	s.mu.Lock()
	s.cfg = &settings{members: members, paths: paths, join: cfg.JoinImportPaths, grouping: g}
	s.mu.Unlock()

	s.logger.Debug("sorter initialized",
		"join", cfg.JoinImportPaths,
		"members", string(cfg.ImportMembers.Order),
		"paths", string(cfg.ImportPaths.Order),
		"rules", len(g.rules))
	return nil
}

// Sort runs normalize, join, binding sort, grouping and path sort over a
// copy of elems. The input is never modified.
func (s *Sorter) Sort(elems []model.ImportElement) (*Result, error) {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()
	if cfg == nil {
		return nil, ErrNotInitialized
	}

	if len(elems) == 0 {
		return &Result{Groups: []model.ImportElementGroup{}, Duplicates: []model.ImportElement{}}, nil
	}

	normalized := normalize(elems)

	var joined, duplicates []model.ImportElement
	if cfg.join {
		joined, duplicates = join(normalized)
	} else {
		joined, duplicates = dedupeEach(normalized), []model.ImportElement{}
	}

	withSortedBindings := sortBindings(joined, cfg.members)
	groups := cfg.grouping.group(withSortedBindings)
	groups = sortPaths(groups, cfg.paths)

	return &Result{Groups: groups, Duplicates: duplicates}, nil
}

func sortBindings(elems []model.ImportElement, o ordering) []model.ImportElement {
	out := model.CloneElements(elems)
	for i := range out {
		bs := out[i].NamedBindings
		if len(bs) < 2 {
			continue
		}
		o.sortStable(len(bs),
			func(j int) string { return bs[j].Name },
			func(a, b int) { bs[a], bs[b] = bs[b], bs[a] })
	}
	return out
}

func sortPaths(groups []model.ImportElementGroup, o ordering) []model.ImportElementGroup {
	out := make([]model.ImportElementGroup, len(groups))
	for i, g := range groups {
		g.Elements = model.CloneElements(g.Elements)
		if !g.DisableSort {
			es := g.Elements
			o.sortStable(len(es),
				func(j int) string { return es[j].ModuleSpecifierName },
				func(a, b int) { es[a], es[b] = es[b], es[a] })
		}
		out[i] = g
	}
	return out
}
