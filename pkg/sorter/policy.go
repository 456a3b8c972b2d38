package sorter

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/gnana997/importsorter/pkg/config"
)

// periodSentinel replaces a leading '.' in path keys so that relative paths
// sort after every ASCII-led specifier.
const periodSentinel = "\u0080"

// keyFunc maps a name or path onto its comparison key.
type keyFunc func(string) string

// ordering is a resolved SortOrder: a key function plus a direction.
type ordering struct {
	key  keyFunc
	desc bool
}

// newOrdering resolves a policy once. Path orderings apply the period remap.
func newOrdering(o config.SortOrder, forPaths bool) (ordering, error) {
	var key keyFunc
	switch o.Order {
	case config.OrderCaseInsensitive:
		key = strings.ToLower
	case config.OrderLowercaseLast:
		key = func(s string) string { return s }
	case config.OrderLowercaseFirst:
		key = swapCase
	case config.OrderUnsorted:
		key = func(string) string { return "" }
	default:
		return ordering{}, fmt.Errorf("unknown sort order %q", o.Order)
	}

	if forPaths && o.Order != config.OrderUnsorted {
		base := key
		key = func(s string) string { return remapPeriod(base(s)) }
	}

	switch o.Direction {
	case config.DirectionAsc:
		return ordering{key: key}, nil
	case config.DirectionDesc:
		return ordering{key: key, desc: true}, nil
	default:
		return ordering{}, fmt.Errorf("unknown sort direction %q", o.Direction)
	}
}

// sortStable orders n items by the key of get(i). Ties keep input order in
// both directions.
func (o ordering) sortStable(n int, get func(int) string, swap func(i, j int)) {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = o.key(get(i))
	}
	sort.Stable(keyedSlice{keys: keys, desc: o.desc, swap: swap})
}

type keyedSlice struct {
	keys []string
	desc bool
	swap func(i, j int)
}

func (k keyedSlice) Len() int { return len(k.keys) }

func (k keyedSlice) Less(i, j int) bool {
	if k.desc {
		return k.keys[i] > k.keys[j]
	}
	return k.keys[i] < k.keys[j]
}

func (k keyedSlice) Swap(i, j int) {
	k.keys[i], k.keys[j] = k.keys[j], k.keys[i]
	k.swap(i, j)
}

func remapPeriod(s string) string {
	if strings.HasPrefix(s, ".") {
		return periodSentinel + s[1:]
	}
	return s
}

// swapCase inverts the case of every letter.
func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		if u := unicode.ToUpper(r); u != r {
			return u
		}
		return unicode.ToLower(r)
	}, s)
}
