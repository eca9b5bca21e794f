package corpus

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cognicore/cooccur/pkg/cooccur/internalerr"
)

// Group is the subset of a corpus sharing one metadata value.
type Group struct {
	Key  string
	Docs []Document
}

// Corpus returns the group's documents as a Corpus.
func (g Group) Corpus() Corpus {
	return Corpus{Docs: g.Docs}
}

// Partition splits the corpus into disjoint groups by the value of the named
// attribute. Groups are sorted by key; documents keep their corpus order
// within a group. Every document must carry the attribute, otherwise the
// partition would not cover the corpus and an input error is returned.
func (c Corpus) Partition(key string) ([]Group, error) {
	if key == "" {
		return nil, internalerr.Input("empty group attribute")
	}

	index := make(map[string]int)
	var groups []Group
	for _, d := range c.Docs {
		v, ok := d.Attr(key)
		if !ok {
			return nil, internalerr.Input("document %q has no attribute %q", d.ID, key)
		}
		i, ok := index[v]
		if !ok {
			i = len(groups)
			index[v] = i
			groups = append(groups, Group{Key: v})
		}
		groups[i].Docs = append(groups[i].Docs, d)
	}

	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	less := KeyLess(keys)
	sort.Slice(groups, func(i, j int) bool {
		return less(groups[i].Key, groups[j].Key)
	})
	return groups, nil
}

// KeyLess returns the ordering used for a set of group keys. When every key
// parses as a number the keys are compared numerically, so "9" sorts before
// "10"; otherwise, or between numerically equal keys, they compare as
// strings.
func KeyLess(keys []string) func(a, b string) bool {
	nums := make(map[string]float64, len(keys))
	for _, k := range keys {
		f, err := strconv.ParseFloat(strings.TrimSpace(k), 64)
		if err != nil || math.IsNaN(f) {
			return func(a, b string) bool { return a < b }
		}
		nums[k] = f
	}
	return func(a, b string) bool {
		if nums[a] != nums[b] {
			return nums[a] < nums[b]
		}
		return a < b
	}
}

// SortKeys sorts group keys in place using KeyLess.
func SortKeys(keys []string) {
	less := KeyLess(keys)
	sort.Slice(keys, func(i, j int) bool {
		return less(keys[i], keys[j])
	})
}
