package product

import (
	"strings"

	"multitoko-be/internal/catalog"
	"multitoko-be/internal/category"
	"multitoko-be/internal/pricing"
	"multitoko-be/internal/store"
	"multitoko-be/internal/variant"
)

type ImageInput struct {
	URL   string `json:"url"`
	Alt   string `json:"alt"`
	Order int    `json:"order"`
}

type OptionTypeInput struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// VariantOverride customises the variant generated for one combination,
// named by its value names in option type order.
type VariantOverride struct {
	Values        []string `json:"values"`
	SKU           *string  `json:"sku,omitempty"`
	Stock         int      `json:"stock"`
	PriceAbsolute *int64   `json:"price_absolute,omitempty"`
	PriceDelta    *int64   `json:"price_delta,omitempty"`
}

type NewProductInput struct {
	StoreID     string                `json:"store_id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	BasePrice   int64                 `json:"base_price"`
	Status      catalog.ProductStatus `json:"status"`
	CategoryIDs []string              `json:"category_ids"`
	Images      []ImageInput          `json:"images"`
	OptionTypes []OptionTypeInput     `json:"option_types"`
	Variants    []VariantOverride     `json:"variants"`
}

// PriceChange sets a nullable price; a nil Amount clears it.
type PriceChange struct {
	Amount *int64 `json:"amount"`
}

type UpdateVariantInput struct {
	ID            string       `json:"id"`
	Stock         *int         `json:"stock,omitempty"`
	PriceAbsolute *PriceChange `json:"price_absolute,omitempty"`
	PriceDelta    *PriceChange `json:"price_delta,omitempty"`
	// SKU sets the sku; an empty string clears it.
	SKU *string `json:"sku,omitempty"`
}

func (in UpdateVariantInput) hasAnyField() bool {
	return in.Stock != nil ||
		in.PriceAbsolute != nil ||
		in.PriceDelta != nil ||
		in.SKU != nil
}

// Draft is a validated product graph ready to be inserted. Combinations refer
// to option types by Key, which the repository maps to inserted value ids.
type Draft struct {
	Product     catalog.Product
	OptionTypes []draftOptionType
	Variants    []DraftVariant
}

type draftOptionType struct {
	Key    string
	Name   string
	Values []string
}

type DraftVariant struct {
	Combination   variant.Combination
	SKU           *string
	GeneratedSKU  bool
	Stock         int
	PriceAbsolute *int64
	PriceDelta    *int64
}

func (d *Draft) userSKUs() []string {
	var out []string
	for _, v := range d.Variants {
		if v.SKU != nil && !v.GeneratedSKU {
			out = append(out, *v.SKU)
		}
	}
	return out
}

// Detail is the storefront view of a product for one option selection.
type Detail struct {
	Product    *catalog.Product     `json:"product"`
	Store      *store.Store         `json:"store"`
	Categories []*category.Category `json:"categories"`
	Resolution *variant.Resolution  `json:"resolution"`
	// Quote is set when the selection resolves to a variant.
	Quote *pricing.Quote `json:"quote,omitempty"`
}

func overrideKey(values []string) string {
	return strings.Join(values, "\x1f")
}
