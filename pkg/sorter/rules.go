package sorter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gnana997/importsorter/pkg/config"
	"github.com/gnana997/importsorter/pkg/model"
)

// rule is a CustomOrderRule with its regex compiled and spacing resolved.
type rule struct {
	source  config.CustomOrderRule
	re      *regexp.Regexp
	binding bool
	spacing int
}

func (r *rule) matches(e *model.ImportElement) bool {
	if !r.binding {
		return r.re.MatchString(e.ModuleSpecifierName)
	}
	if strings.TrimSpace(e.DefaultImportName) != "" {
		return r.re.MatchString(e.DefaultImportName)
	}
	if len(e.NamedBindings) == 0 {
		return r.re.MatchString("")
	}
	for _, b := range e.NamedBindings {
		if r.re.MatchString(b.Name) {
			return true
		}
	}
	return false
}

// grouping holds the resolved custom ordering rules, or none.
type grouping struct {
	rules []*rule

	hasRules       bool // CustomOrderingRules present
	defaultLevel   int
	defaultSpacing int
	defaultNoSort  bool
}

func newGrouping(c *config.CustomOrderingRules) (grouping, error) {
	if c == nil {
		return grouping{}, nil
	}
	g := grouping{
		hasRules:       true,
		defaultLevel:   c.DefaultOrderLevel,
		defaultSpacing: c.DefaultNumberOfEmptyLinesAfterGroup,
		defaultNoSort:  c.DisableDefaultOrderSort,
	}
	for i, cr := range c.Rules {
		re, err := regexp.Compile(cr.Regex)
		if err != nil {
			return grouping{}, fmt.Errorf("failed to compile rule %d regex %q: %w", i, cr.Regex, err)
		}
		spacing := g.defaultSpacing
		if cr.NumberOfEmptyLinesAfterGroup != nil {
			spacing = *cr.NumberOfEmptyLinesAfterGroup
		}
		g.rules = append(g.rules, &rule{
			source:  cr,
			re:      re,
			binding: cr.IsBindingNameRule(),
			spacing: spacing,
		})
	}
	return g, nil
}

// group partitions elems into output groups ordered by ascending level.
func (g grouping) group(elems []model.ImportElement) []model.ImportElementGroup {
	if len(elems) == 0 {
		return []model.ImportElementGroup{}
	}
	if len(g.rules) == 0 {
		return []model.ImportElementGroup{{
			Elements:                     elems,
			NumberOfEmptyLinesAfterGroup: g.defaultSpacing,
			OrderLevel:                   g.defaultLevel,
			DisableSort:                  g.hasRules && g.defaultNoSort,
		}}
	}

	buckets := make(map[int]*model.ImportElementGroup)
	for i := range elems {
		e := elems[i]
		var matched *rule
		for _, r := range g.rules {
			if r.matches(&e) {
				matched = r
				break
			}
		}

		var (
			level   = g.defaultLevel
			spacing = g.defaultSpacing
			noSort  = g.defaultNoSort
			src     *config.CustomOrderRule
		)
		if matched != nil {
			level, spacing, noSort = matched.source.OrderLevel, matched.spacing, matched.source.DisableSort
			ruleCopy := matched.source
			src = &ruleCopy
		}

		b, ok := buckets[level]
		if !ok {
			b = &model.ImportElementGroup{
				NumberOfEmptyLinesAfterGroup: spacing,
				OrderLevel:                   level,
				DisableSort:                  noSort,
				CustomOrderRule:              src,
			}
			buckets[level] = b
		}
		b.Elements = append(b.Elements, e)
	}

	levels := make([]int, 0, len(buckets))
	for level := range buckets {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	out := make([]model.ImportElementGroup, 0, len(levels))
	for _, level := range levels {
		out = append(out, *buckets[level])
	}
	return out
}
