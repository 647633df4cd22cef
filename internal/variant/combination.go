package variant

import (
	"fmt"
	"strings"
)

// OptionInput is an option type as defined by an operator: its id (or a
// client-side key before it is persisted) and its ordered value names.
type OptionInput struct {
	ID     string
	Values []string
}

type Pair struct {
	OptionTypeID string `json:"option_type_id"`
	Value        string `json:"value"`
}

// Combination holds one pair per option type, in option type order.
type Combination []Pair

// Values returns the value names of c in order.
func (c Combination) Values() []string {
	out := make([]string, len(c))
	for i, p := range c {
		out[i] = p.Value
	}
	return out
}

// Combinations is either the single implicit combination of a product without
// option types, or the cartesian product of its option values.
type Combinations struct {
	single bool
	items  []Combination
}

// Single reports whether the product defines no option types and therefore
// has exactly one variant with no distinguishing options.
func (c Combinations) Single() bool {
	return c.single
}

// Items returns every combination. For a single-variant product it is one
// empty combination.
func (c Combinations) Items() []Combination {
	if c.single {
		return []Combination{{}}
	}
	return c.items
}

func (c Combinations) Len() int {
	return len(c.Items())
}

// GenerateCombinations returns the cartesian product of the option values,
// first option type varying slowest. Blank values are dropped and repeated
// values collapse to their first occurrence. An option type left without
// values is reported as ErrEmptyOptionType.
func GenerateCombinations(types []OptionInput) (Combinations, error) {
	if len(types) == 0 {
		return Combinations{single: true}, nil
	}

	values := make([][]string, len(types))
	total := 1
	for i, t := range types {
		values[i] = CleanValues(t.Values)
		if len(values[i]) == 0 {
			return Combinations{}, fmt.Errorf("%w: %q", ErrEmptyOptionType, t.ID)
		}
		total *= len(values[i])
	}

	items := make([]Combination, 0, total)
	idx := make([]int, len(types))

	for {
		combo := make(Combination, len(types))
		for i, t := range types {
			combo[i] = Pair{OptionTypeID: t.ID, Value: values[i][idx[i]]}
		}
		items = append(items, combo)

		// odometer: advance the last wheel, carry leftwards
		pos := len(idx) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(values[pos]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}

	return Combinations{items: items}, nil
}

// CleanValues trims value names, dropping blanks and repeats.
func CleanValues(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
