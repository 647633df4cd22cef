package variant

import (
	"fmt"

	"multitoko-be/internal/catalog"
)

// Selection maps option type id to the chosen option value id. An empty
// value id means the type is not selected.
type Selection map[string]string

type Status string

const (
	StatusResolved           Status = "RESOLVED"
	StatusIncomplete         Status = "INCOMPLETE"
	StatusInvalidCombination Status = "INVALID_COMBINATION"
)

type ValueState string

const (
	// ValueAvailable: an in-stock variant exists for this value under the
	// other current selections.
	ValueAvailable ValueState = "AVAILABLE"
	// ValueReachable: an in-stock variant exists for this value, but only if
	// other selections change.
	ValueReachable ValueState = "REACHABLE"
	// ValueDisabled: no in-stock variant carries this value at all.
	ValueDisabled ValueState = "DISABLED"
)

type ValueOption struct {
	ValueID string     `json:"value_id"`
	Name    string     `json:"name"`
	State   ValueState `json:"state"`
}

type OptionView struct {
	OptionTypeID    string        `json:"option_type_id"`
	Name            string        `json:"name"`
	SelectedValueID string        `json:"selected_value_id,omitempty"`
	Values          []ValueOption `json:"values"`
}

type Resolution struct {
	Status Status `json:"status"`
	// Variant is set when Status is StatusResolved, including out-of-stock variants.
	Variant     *catalog.Variant `json:"variant,omitempty"`
	Purchasable bool             `json:"purchasable"`
	// CanComplete reports whether some completion of the selection reaches an
	// in-stock variant.
	CanComplete bool         `json:"can_complete"`
	Options     []OptionView `json:"options"`
	// Available lists, for each option type not yet selected, the value ids
	// that still lead to an in-stock variant.
	Available map[string][]string `json:"available"`
}

func (r *Resolution) AvailableValues(optionTypeID string) []string {
	return r.Available[optionTypeID]
}

// Resolve matches sel against the variants of p. It never clears or rewrites
// selections; an incompatible selection simply yields no available values.
// Selections naming unknown option types, or values of another type, fail
// with a validation error.
func Resolve(p *catalog.Product, sel Selection) (*Resolution, error) {
	sel, err := normalize(p, sel)
	if err != nil {
		return nil, err
	}

	if len(p.OptionTypes) == 0 {
		return resolveSingle(p), nil
	}

	idx := valueIndex(p)
	byType := make([]map[string]string, len(p.Variants))
	for i, v := range p.Variants {
		m := make(map[string]string, len(v.Options))
		for _, valueID := range v.Options {
			m[idx[valueID]] = valueID
		}
		byType[i] = m
	}

	res := &Resolution{
		Options:   make([]OptionView, 0, len(p.OptionTypes)),
		Available: make(map[string][]string),
	}

	for i, v := range p.Variants {
		if v.InStock() && compatible(byType[i], sel, "") {
			res.CanComplete = true
			break
		}
	}

	for _, ot := range p.OptionTypes {
		view := OptionView{
			OptionTypeID:    ot.ID,
			Name:            ot.Name,
			SelectedValueID: sel[ot.ID],
			Values:          make([]ValueOption, 0, len(ot.Values)),
		}

		_, selected := sel[ot.ID]
		if !selected {
			res.Available[ot.ID] = []string{}
		}

		for _, ov := range ot.Values {
			state := ValueDisabled
			for i, v := range p.Variants {
				if !v.InStock() || byType[i][ot.ID] != ov.ID {
					continue
				}
				if compatible(byType[i], sel, ot.ID) {
					state = ValueAvailable
					break
				}
				state = ValueReachable
			}

			view.Values = append(view.Values, ValueOption{ValueID: ov.ID, Name: ov.Name, State: state})
			if !selected && state == ValueAvailable {
				res.Available[ot.ID] = append(res.Available[ot.ID], ov.ID)
			}
		}

		res.Options = append(res.Options, view)
	}

	if len(sel) < len(p.OptionTypes) {
		res.Status = StatusIncomplete
		return res, nil
	}

	want := make([]string, 0, len(sel))
	for _, valueID := range sel {
		want = append(want, valueID)
	}
	identity := catalog.NewOptionSet(want...)

	for _, v := range p.Variants {
		if v.Options.Equal(identity) {
			res.Status = StatusResolved
			res.Variant = v
			res.Purchasable = v.InStock()
			return res, nil
		}
	}

	res.Status = StatusInvalidCombination
	return res, nil
}

// resolveSingle handles products without option types: the sole variant
// always matches the empty selection.
func resolveSingle(p *catalog.Product) *Resolution {
	res := &Resolution{
		Options:   []OptionView{},
		Available: map[string][]string{},
	}

	for _, v := range p.Variants {
		if len(v.Options) == 0 {
			res.Status = StatusResolved
			res.Variant = v
			res.Purchasable = v.InStock()
			res.CanComplete = v.InStock()
			return res
		}
	}

	res.Status = StatusInvalidCombination
	return res
}

// compatible reports whether variant values agree with every selection
// except the one for skipType.
func compatible(values map[string]string, sel Selection, skipType string) bool {
	for typeID, valueID := range sel {
		if typeID == skipType {
			continue
		}
		if values[typeID] != valueID {
			return false
		}
	}
	return true
}

func normalize(p *catalog.Product, sel Selection) (Selection, error) {
	types := make(map[string]*catalog.OptionType, len(p.OptionTypes))
	for _, ot := range p.OptionTypes {
		types[ot.ID] = ot
	}

	out := make(Selection, len(sel))
	for typeID, valueID := range sel {
		if valueID == "" {
			continue
		}
		ot, ok := types[typeID]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOptionType, typeID)
		}
		if !hasValue(ot, valueID) {
			return nil, fmt.Errorf("%w: %q is not a value of %q", ErrForeignOptionValue, valueID, typeID)
		}
		out[typeID] = valueID
	}
	return out, nil
}

func hasValue(ot *catalog.OptionType, valueID string) bool {
	for _, ov := range ot.Values {
		if ov.ID == valueID {
			return true
		}
	}
	return false
}
