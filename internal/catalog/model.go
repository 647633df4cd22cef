// Package catalog holds the product graph shared by the variant, pricing,
// discount, product and cart packages.
package catalog

import (
	"sort"
	"time"
)

type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "DRAFT"
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusArchived ProductStatus = "ARCHIVED"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusActive, ProductStatusArchived:
		return true
	}
	return false
}

type Image struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Alt   string `json:"alt"`
	Order int    `json:"order"`
}

type OptionValue struct {
	ID           string `json:"id"`
	OptionTypeID string `json:"option_type_id"`
	Name         string `json:"name"`
}

type OptionType struct {
	ID        string         `json:"id"`
	ProductID string         `json:"product_id"`
	Name      string         `json:"name"`
	Position  int            `json:"position"`
	Values    []*OptionValue `json:"values"`
}

type Variant struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	SKU           *string   `json:"sku,omitempty"`
	Stock         int       `json:"stock"`
	PriceAbsolute *int64    `json:"price_absolute,omitempty"`
	PriceDelta    *int64    `json:"price_delta,omitempty"`
	Options       OptionSet `json:"option_value_ids"`
}

func (v *Variant) InStock() bool {
	return v.Stock > 0
}

type Product struct {
	ID          string        `json:"id"`
	StoreID     string        `json:"store_id"`
	Slug        string        `json:"slug"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	BasePrice   int64         `json:"base_price"`
	Status      ProductStatus `json:"status"`
	CategoryIDs []string      `json:"category_ids"`
	Images      []*Image      `json:"images"`
	OptionTypes []*OptionType `json:"option_types"`
	Variants    []*Variant    `json:"variants"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
}

// SortOptionTypes orders option types by position, then id.
func (p *Product) SortOptionTypes() {
	sort.SliceStable(p.OptionTypes, func(i, j int) bool {
		a, b := p.OptionTypes[i], p.OptionTypes[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.ID < b.ID
	})
}

// SortImages orders images by display order; order 0 is the primary image.
func (p *Product) SortImages() {
	sort.SliceStable(p.Images, func(i, j int) bool {
		return p.Images[i].Order < p.Images[j].Order
	})
}

func (p *Product) PrimaryImage() *Image {
	if len(p.Images) == 0 {
		return nil
	}
	primary := p.Images[0]
	for _, img := range p.Images[1:] {
		if img.Order < primary.Order {
			primary = img
		}
	}
	return primary
}

func (p *Product) VariantByID(id string) *Variant {
	for _, v := range p.Variants {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// ValueNames returns the option value names of v in option-type order.
func (p *Product) ValueNames(v *Variant) []string {
	names := make([]string, 0, len(v.Options))
	for _, ot := range p.OptionTypes {
		for _, ov := range ot.Values {
			if v.Options.Contains(ov.ID) {
				names = append(names, ov.Name)
				break
			}
		}
	}
	return names
}
