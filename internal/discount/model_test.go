package discount

import (
	"testing"

	"multitoko-be/internal/apperror"

	"github.com/stretchr/testify/assert"
)

func TestDiscount_Validate(t *testing.T) {
	valid := func(scope Scope) *Discount {
		return newDiscount("d", scope, TypePercent, 10, 1, false)
	}

	t.Run("valid scopes", func(t *testing.T) {
		for _, s := range []Scope{ScopeGlobal, ScopeStore, ScopeProduct} {
			assert.NoError(t, valid(s).Validate(), s)
		}
	})

	tests := []struct {
		name   string
		mutate func(d *Discount)
		scope  Scope
		want   error
	}{
		{"global with store", func(d *Discount) { d.StoreID = strPtr("s-1") }, ScopeGlobal, ErrInvalidTarget},
		{"store without store id", func(d *Discount) { d.StoreID = nil }, ScopeStore, ErrInvalidTarget},
		{"store with product id", func(d *Discount) { d.ProductID = strPtr("p-1") }, ScopeStore, ErrInvalidTarget},
		{"product with empty id", func(d *Discount) { d.ProductID = strPtr("") }, ScopeProduct, ErrInvalidTarget},
		{"unknown scope", func(d *Discount) { d.Scope = "CATEGORY" }, ScopeGlobal, ErrInvalidScope},
		{"unknown type", func(d *Discount) { d.Type = "BOGO" }, ScopeGlobal, ErrInvalidType},
		{"percent above 100", func(d *Discount) { d.Value = 101 }, ScopeGlobal, ErrInvalidValue},
		{"negative percent", func(d *Discount) { d.Value = -1 }, ScopeGlobal, ErrInvalidValue},
		{"negative fixed", func(d *Discount) { d.Type = TypeFixed; d.Value = -5 }, ScopeGlobal, ErrInvalidValue},
		{"empty window", func(d *Discount) { d.EndAt = d.StartAt }, ScopeGlobal, ErrInvalidWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid(tt.scope)
			tt.mutate(d)
			err := d.Validate()
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}

	t.Run("fixed above 100 is fine", func(t *testing.T) {
		d := valid(ScopeGlobal)
		d.Type = TypeFixed
		d.Value = 250000
		assert.NoError(t, d.Validate())
	})
}
