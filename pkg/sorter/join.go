package sorter

import (
	"strings"

	"github.com/gnana997/importsorter/pkg/model"
)

// joinKey identifies elements that may share one statement. Type-only
// imports only merge with other type-only imports.
func joinKey(e *model.ImportElement) string {
	if e.IsTypeOnly {
		return e.ModuleSpecifierName + "\x00type"
	}
	return e.ModuleSpecifierName
}

// slot collects the elements merged into one output statement.
type slot struct {
	idx   []int
	ns    string // namespace alias bound by the slot, if any
	named bool   // the slot has a named binding list
}

// accepts reports whether e can join the slot and still be written as a
// single declaration. A namespace import cannot share a statement with a
// named list or with a different namespace alias.
func (s *slot) accepts(e *model.ImportElement) bool {
	switch {
	case e.IsNamespace():
		return !s.named && (s.ns == "" || s.ns == e.NamespaceAlias())
	case len(e.NamedBindings) > 0:
		return s.ns == ""
	default:
		return true
	}
}

func (s *slot) add(i int, e *model.ImportElement) {
	s.idx = append(s.idx, i)
	if e.IsNamespace() {
		s.ns = e.NamespaceAlias()
	} else if len(e.NamedBindings) > 0 {
		s.named = true
	}
}

// join merges elements of the same module into the first element that can
// take them. It returns the merged elements in first-occurrence order and
// the absorbed elements as duplicates. Comments of absorbed elements move
// to the element they were merged into.
func join(elems []model.ImportElement) (joined, duplicates []model.ImportElement) {
	var slots []*slot
	byKey := make(map[string][]*slot)
	for i := range elems {
		e := &elems[i]
		k := joinKey(e)
		var target *slot
		for _, s := range byKey[k] {
			if s.accepts(e) {
				target = s
				break
			}
		}
		if target == nil {
			target = &slot{}
			slots = append(slots, target)
			byKey[k] = append(byKey[k], target)
		}
		target.add(i, e)
	}

	joined = make([]model.ImportElement, 0, len(slots))
	duplicates = []model.ImportElement{}
	for _, s := range slots {
		idx := s.idx
		merged := elems[idx[0]].Clone()

		var bindings []model.NamedBinding
		for _, i := range idx {
			bindings = append(bindings, elems[i].NamedBindings...)
		}
		merged.NamedBindings = dedupeBindings(bindings)

		if len(idx) > 1 {
			merged.DefaultImportName = ""
			for _, i := range idx {
				if name := elems[i].DefaultImportName; strings.TrimSpace(name) != "" {
					merged.DefaultImportName = name
					break
				}
			}
			merged.HasFromKeyword = merged.DefaultImportName != "" || len(merged.NamedBindings) > 0 || anyHasFrom(elems, idx)
			for _, i := range idx[1:] {
				dup := elems[i].Clone()
				merged.ImportComment.LeadingComments = append(merged.ImportComment.LeadingComments, dup.ImportComment.LeadingComments...)
				merged.ImportComment.TrailingComments = append(merged.ImportComment.TrailingComments, dup.ImportComment.TrailingComments...)
				duplicates = append(duplicates, dup)
			}
		}
		joined = append(joined, merged)
	}
	return joined, duplicates
}

func anyHasFrom(elems []model.ImportElement, idx []int) bool {
	for _, i := range idx {
		if elems[i].HasFromKeyword {
			return true
		}
	}
	return false
}

// dedupeBindings keeps the first binding for every name, in order.
func dedupeBindings(in []model.NamedBinding) []model.NamedBinding {
	out := make([]model.NamedBinding, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, b := range in {
		if seen[b.Name] {
			continue
		}
		seen[b.Name] = true
		out = append(out, b)
	}
	return out
}

// dedupeEach removes repeated binding names inside every element.
func dedupeEach(elems []model.ImportElement) []model.ImportElement {
	out := model.CloneElements(elems)
	for i := range out {
		out[i].NamedBindings = dedupeBindings(out[i].NamedBindings)
	}
	return out
}
