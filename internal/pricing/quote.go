package pricing

import (
	"context"
	"time"

	"multitoko-be/internal/catalog"
	"multitoko-be/internal/discount"
	"multitoko-be/internal/logger"

	"go.uber.org/zap"
)

type DiscountApplier interface {
	Apply(ctx context.Context, t discount.Target, unitPrice int64, now time.Time) (discount.Result, error)
}

type Quote struct {
	ProductID  string    `json:"product_id"`
	VariantID  string    `json:"variant_id"`
	UnitPrice  UnitPrice `json:"unit_price"`
	FinalPrice int64     `json:"final_price"`
	Applied    []string  `json:"applied_discounts"`
}

// Quoter prices a variant end to end: unit price, then discounts active now.
type Quoter struct {
	discounts DiscountApplier
	now       func() time.Time
}

func NewQuoter(discounts DiscountApplier) *Quoter {
	return &Quoter{discounts: discounts, now: time.Now}
}

func (q *Quoter) Quote(ctx context.Context, p *catalog.Product, v *catalog.Variant) (*Quote, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "pricing"),
		zap.String("method", "Quote"),
		zap.String("product_id", p.ID),
		zap.String("variant_id", v.ID),
	)

	unit, err := ResolveUnitPrice(p, v)
	if err != nil {
		return nil, err
	}
	if unit.Clamped {
		log.Warn("variant price below zero, clamped",
			zap.Int64("base_price", p.BasePrice),
			zap.Int64p("price_delta", v.PriceDelta),
		)
	}

	res, err := q.discounts.Apply(ctx,
		discount.Target{ProductID: p.ID, StoreID: p.StoreID},
		unit.Amount,
		q.now().UTC(),
	)
	if err != nil {
		log.Error("failed to apply discounts", zap.Error(err))
		return nil, err
	}

	return &Quote{
		ProductID:  p.ID,
		VariantID:  v.ID,
		UnitPrice:  unit,
		FinalPrice: res.FinalPrice,
		Applied:    res.Applied,
	}, nil
}
