package discount

import (
	"fmt"
	"time"
)

type Scope string

const (
	ScopeGlobal  Scope = "GLOBAL"
	ScopeStore   Scope = "STORE"
	ScopeProduct Scope = "PRODUCT"
)

// specificity ranks scopes for priority ties; higher is more specific.
func (s Scope) specificity() int {
	switch s {
	case ScopeProduct:
		return 2
	case ScopeStore:
		return 1
	default:
		return 0
	}
}

type Type string

const (
	TypePercent Type = "PERCENT"
	TypeFixed   Type = "FIXED"
)

type Discount struct {
	ID        string    `json:"id"`
	Scope     Scope     `json:"scope"`
	Type      Type      `json:"type"`
	Value     int64     `json:"value"`
	Priority  int       `json:"priority"`
	Stackable bool      `json:"stackable"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	StoreID   *string   `json:"store_id,omitempty"`
	ProductID *string   `json:"product_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Target is what a price is being computed for.
type Target struct {
	ProductID string
	StoreID   string
}

// Validate enforces one scope, one target: GLOBAL has no reference, STORE
// only a store id, PRODUCT only a product id.
func (d *Discount) Validate() error {
	hasStore := d.StoreID != nil && *d.StoreID != ""
	hasProduct := d.ProductID != nil && *d.ProductID != ""

	switch d.Scope {
	case ScopeGlobal:
		if hasStore || hasProduct {
			return fmt.Errorf("%w: GLOBAL takes no store or product", ErrInvalidTarget)
		}
	case ScopeStore:
		if !hasStore || hasProduct {
			return fmt.Errorf("%w: STORE takes exactly a store id", ErrInvalidTarget)
		}
	case ScopeProduct:
		if !hasProduct || hasStore {
			return fmt.Errorf("%w: PRODUCT takes exactly a product id", ErrInvalidTarget)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidScope, d.Scope)
	}

	switch d.Type {
	case TypePercent:
		if d.Value < 0 || d.Value > 100 {
			return fmt.Errorf("%w: percent must be within 0-100, got %d", ErrInvalidValue, d.Value)
		}
	case TypeFixed:
		if d.Value < 0 {
			return fmt.Errorf("%w: fixed amount cannot be negative, got %d", ErrInvalidValue, d.Value)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidType, d.Type)
	}

	if !d.EndAt.After(d.StartAt) {
		return ErrInvalidWindow
	}
	return nil
}

// ActiveAt reports startAt <= now < endAt. time.Time compares instants, so
// the location of now does not matter.
func (d *Discount) ActiveAt(now time.Time) bool {
	return !now.Before(d.StartAt) && now.Before(d.EndAt)
}

func (d *Discount) AppliesTo(t Target) bool {
	switch d.Scope {
	case ScopeGlobal:
		return true
	case ScopeStore:
		return d.StoreID != nil && *d.StoreID == t.StoreID
	case ScopeProduct:
		return d.ProductID != nil && *d.ProductID == t.ProductID
	}
	return false
}

// reduce applies d to price and never returns below zero.
func (d *Discount) reduce(price int64) int64 {
	switch d.Type {
	case TypePercent:
		price -= price * d.Value / 100
	case TypeFixed:
		price -= d.Value
	}
	if price < 0 {
		return 0
	}
	return price
}
