package catalog

import (
	"slices"
	"sort"
	"strings"
)

// OptionSet is the identity of a variant: the set of option value ids
// attached to it. NewOptionSet returns it sorted and duplicate-free, but
// Equal, Contains and Key hold for any order.
type OptionSet []string

func NewOptionSet(ids ...string) OptionSet {
	set := make(OptionSet, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		set = append(set, id)
	}
	sort.Strings(set)
	return slices.Compact(set)
}

func (s OptionSet) normalized() OptionSet {
	return NewOptionSet(s...)
}

func (s OptionSet) Equal(other OptionSet) bool {
	return slices.Equal(s.normalized(), other.normalized())
}

func (s OptionSet) Contains(id string) bool {
	return id != "" && slices.Contains(s, id)
}

// Key is a canonical string form of the set, usable as a map key.
func (s OptionSet) Key() string {
	return strings.Join(s.normalized(), ",")
}
