package variant

import (
	"fmt"

	"multitoko-be/internal/catalog"
)

// valueIndex maps option value id to its option type id.
func valueIndex(p *catalog.Product) map[string]string {
	idx := make(map[string]string)
	for _, ot := range p.OptionTypes {
		for _, ov := range ot.Values {
			idx[ov.ID] = ot.ID
		}
	}
	return idx
}

// CheckVariant verifies that every option value of v belongs to an option
// type of p and that no option type appears twice.
func CheckVariant(p *catalog.Product, v *catalog.Variant) error {
	idx := valueIndex(p)
	seen := make(map[string]string, len(v.Options))

	for _, valueID := range v.Options {
		typeID, ok := idx[valueID]
		if !ok {
			return fmt.Errorf("%w: value %q on variant %q", ErrForeignOptionValue, valueID, v.ID)
		}
		if prev, dup := seen[typeID]; dup {
			return fmt.Errorf("%w: %q and %q on variant %q", ErrDuplicateType, prev, valueID, v.ID)
		}
		seen[typeID] = valueID
	}
	return nil
}

// CheckVariants runs CheckVariant on every variant of p and rejects two
// variants with the same option set.
func CheckVariants(p *catalog.Product) error {
	identities := make(map[string]string, len(p.Variants))
	for _, v := range p.Variants {
		if err := CheckVariant(p, v); err != nil {
			return err
		}
		key := v.Options.Key()
		if other, dup := identities[key]; dup {
			return fmt.Errorf("%w: %q and %q", ErrDuplicateIdentity, other, v.ID)
		}
		identities[key] = v.ID
	}
	return nil
}

// SelectionOf returns the selection that picks exactly v's option values.
func SelectionOf(p *catalog.Product, v *catalog.Variant) Selection {
	idx := valueIndex(p)
	sel := make(Selection, len(v.Options))
	for _, valueID := range v.Options {
		if typeID, ok := idx[valueID]; ok {
			sel[typeID] = valueID
		}
	}
	return sel
}
