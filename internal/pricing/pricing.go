// Package pricing resolves a variant's unit price from its product base price
// and the variant's price overrides.
package pricing

import (
	"fmt"

	"multitoko-be/internal/apperror"
	"multitoko-be/internal/catalog"
)

var ErrVariantMismatch = fmt.Errorf("%w: variant does not belong to product", apperror.ErrValidation)

type Source string

const (
	SourceBase     Source = "BASE"
	SourceAbsolute Source = "ABSOLUTE"
	SourceDelta    Source = "DELTA"
)

type UnitPrice struct {
	Amount int64  `json:"amount"`
	Source Source `json:"source"`
	// Clamped is set when base price plus delta went below zero. The amount
	// is then zero and the variant data should be fixed.
	Clamped bool `json:"clamped,omitempty"`
}

// ResolveUnitPrice applies the override precedence: absolute price wins
// outright, else base price plus delta, else base price.
func ResolveUnitPrice(p *catalog.Product, v *catalog.Variant) (UnitPrice, error) {
	if p == nil || v == nil {
		return UnitPrice{}, apperror.Validation("product and variant are required")
	}
	if v.ProductID != p.ID {
		return UnitPrice{}, fmt.Errorf("%w: variant %q, product %q", ErrVariantMismatch, v.ID, p.ID)
	}

	switch {
	case v.PriceAbsolute != nil:
		return UnitPrice{Amount: *v.PriceAbsolute, Source: SourceAbsolute}, nil
	case v.PriceDelta != nil:
		amount := p.BasePrice + *v.PriceDelta
		if amount < 0 {
			return UnitPrice{Amount: 0, Source: SourceDelta, Clamped: true}, nil
		}
		return UnitPrice{Amount: amount, Source: SourceDelta}, nil
	default:
		return UnitPrice{Amount: p.BasePrice, Source: SourceBase}, nil
	}
}
