package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"multitoko-be/internal/apperror"
	"multitoko-be/internal/catalog"
	"multitoko-be/internal/logger"
	"multitoko-be/internal/pricing"
	"multitoko-be/internal/store"
	"multitoko-be/internal/utils"
	"multitoko-be/internal/variant"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductReader interface {
	GetGraph(ctx context.Context, id string) (*catalog.Product, error)
}

type StoreReader interface {
	GetByID(ctx context.Context, id string) (*store.Store, error)
}

type Quoter interface {
	Quote(ctx context.Context, p *catalog.Product, v *catalog.Variant) (*pricing.Quote, error)
}

// Notifier receives the finalized order of one store at checkout.
type Notifier interface {
	NotifyOrder(ctx context.Context, order OrderSummary) error
}

type Service interface {
	Get(ctx context.Context, session string) (*Cart, error)
	AddItem(ctx context.Context, session string, in AddItemInput) (*Cart, error)
	SetQuantity(ctx context.Context, session, storeID, itemID string, qty int) (*Cart, error)
	RemoveItem(ctx context.Context, session, storeID, itemID string) (*Cart, error)
	ClearStore(ctx context.Context, session, storeID string) (*Cart, error)
	Clear(ctx context.Context, session string) error
	Checkout(ctx context.Context, session, storeID string, customer Customer) (*OrderSummary, error)
}

type service struct {
	repo     Repository
	products ProductReader
	stores   StoreReader
	quoter   Quoter
	notifier Notifier
	newID    func() string
}

func NewService(
	repo Repository,
	products ProductReader,
	stores StoreReader,
	quoter Quoter,
	notifier Notifier,
) Service {
	return &service{
		repo:     repo,
		products: products,
		stores:   stores,
		quoter:   quoter,
		notifier: notifier,
		newID:    uuid.NewString,
	}
}

func (s *service) Get(ctx context.Context, session string) (*Cart, error) {
	if session == "" {
		return nil, ErrInvalidSession
	}
	c, err := s.repo.Load(ctx, session)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// AddItem resolves the requested variant, guards its stock and adds it to the
// store's sub-cart at the price quoted right now.
func (s *service) AddItem(ctx context.Context, session string, in AddItemInput) (*Cart, error) {
	start := time.Now()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddCartItem"),
		zap.String("product_id", in.ProductID),
	)

	switch {
	case session == "":
		return nil, ErrInvalidSession
	case in.ProductID == "":
		return nil, ErrMissingProduct
	case in.Quantity <= 0:
		return nil, ErrInvalidQuantity
	}

	p, st, err := s.loadPurchasable(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	v, err := pickVariant(p, in)
	if err != nil {
		log.Info("variant not resolved", zap.Error(err))
		return nil, err
	}

	c, err := s.repo.Load(ctx, session)
	if err != nil {
		return nil, err
	}

	inCart := 0
	if sc := c.Store(st.ID); sc != nil {
		for _, it := range sc.Items {
			if it.ProductID == p.ID && it.VariantID == v.ID {
				inCart = it.Quantity
			}
		}
	}
	if v.Stock < inCart+in.Quantity {
		log.Info("insufficient stock",
			zap.String("variant_id", v.ID),
			zap.Int("stock", v.Stock),
			zap.Int("requested", inCart+in.Quantity),
		)
		return nil, ErrOutOfStock
	}

	quote, err := s.quoter.Quote(ctx, p, v)
	if err != nil {
		log.Error("failed to quote variant", zap.Error(err))
		return nil, err
	}

	line := Item{
		ID:          s.newID(),
		ProductID:   p.ID,
		VariantID:   v.ID,
		UnitPrice:   quote.FinalPrice,
		SKU:         utils.PtrString(v.SKU),
		ProductName: p.Name,
		ProductSlug: p.Slug,
		OptionNames: p.ValueNames(v),
	}
	if img := p.PrimaryImage(); img != nil {
		line.ImageURL = img.URL
	}

	next, err := AddItem(c, refOf(st), line, in.Quantity)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, session, next); err != nil {
		return nil, err
	}

	log.Info("cart item added",
		zap.String("variant_id", v.ID),
		zap.Int("quantity", in.Quantity),
		zap.Int64("unit_price", quote.FinalPrice),
		zap.Duration("duration", time.Since(start)),
	)
	return &next, nil
}

// SetQuantity replaces a line's quantity after re-checking stock. A quantity
// of zero or less removes the line.
func (s *service) SetQuantity(ctx context.Context, session, storeID, itemID string, qty int) (*Cart, error) {
	if session == "" {
		return nil, ErrInvalidSession
	}

	c, err := s.repo.Load(ctx, session)
	if err != nil {
		return nil, err
	}

	if qty > 0 {
		it := findItem(&c, storeID, itemID)
		if it == nil {
			return nil, ErrItemNotFound
		}
		v, err := s.currentVariant(ctx, it)
		if err != nil {
			return nil, err
		}
		if v.Stock < qty {
			return nil, ErrOutOfStock
		}
	}

	next, err := SetQuantity(c, storeID, itemID, qty)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, session, next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *service) RemoveItem(ctx context.Context, session, storeID, itemID string) (*Cart, error) {
	if session == "" {
		return nil, ErrInvalidSession
	}

	c, err := s.repo.Load(ctx, session)
	if err != nil {
		return nil, err
	}
	next, err := RemoveItem(c, storeID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, session, next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *service) ClearStore(ctx context.Context, session, storeID string) (*Cart, error) {
	if session == "" {
		return nil, ErrInvalidSession
	}

	c, err := s.repo.Load(ctx, session)
	if err != nil {
		return nil, err
	}
	next := ClearStore(c, storeID)
	if err := s.repo.Save(ctx, session, next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *service) Clear(ctx context.Context, session string) error {
	if session == "" {
		return ErrInvalidSession
	}
	return s.repo.Save(ctx, session, Clear())
}

// Checkout finalizes one store's sub-cart: every line is re-checked against
// the catalog, the summary is handed to the notifier and the sub-cart is
// cleared. Lines keep the price captured when they were added.
func (s *service) Checkout(ctx context.Context, session, storeID string, customer Customer) (*OrderSummary, error) {
	start := time.Now()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.String("store_id", storeID),
	)

	if session == "" {
		return nil, ErrInvalidSession
	}
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Phone = strings.TrimSpace(customer.Phone)
	if customer.Name == "" || customer.Phone == "" {
		return nil, ErrMissingCustomer
	}

	c, err := s.repo.Load(ctx, session)
	if err != nil {
		return nil, err
	}
	sc := c.Store(storeID)
	if sc == nil {
		return nil, ErrStoreNotInCart
	}

	st, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrStoreUnavailable
		}
		return nil, err
	}
	if !st.Active {
		return nil, ErrStoreUnavailable
	}

	graphs := make(map[string]*catalog.Product)
	order := OrderSummary{
		OrderNumber:   utils.GenerateOrderNumber(),
		StoreID:       st.ID,
		StoreName:     st.Name,
		StoreWhatsApp: st.WhatsApp,
		Lines:         make([]OrderLine, 0, len(sc.Items)),
		Subtotal:      sc.Subtotal,
		Customer:      customer,
	}

	for _, it := range sc.Items {
		p, ok := graphs[it.ProductID]
		if !ok {
			p, err = s.products.GetGraph(ctx, it.ProductID)
			if err != nil && !errors.Is(err, apperror.ErrNotFound) {
				return nil, err
			}
			graphs[it.ProductID] = p
		}

		var v *catalog.Variant
		if p != nil && p.Status == catalog.ProductStatusActive {
			v = p.VariantByID(it.VariantID)
		}
		if v == nil {
			log.Info("cart line no longer available", zap.String("item_id", it.ID))
			return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, lineName(it))
		}
		if v.Stock < it.Quantity {
			log.Info("cart line out of stock",
				zap.String("item_id", it.ID),
				zap.Int("stock", v.Stock),
				zap.Int("quantity", it.Quantity),
			)
			return nil, fmt.Errorf("%w: %s", ErrOutOfStock, lineName(it))
		}

		order.Lines = append(order.Lines, OrderLine{
			Name:      lineName(it),
			SKU:       it.SKU,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		})
	}

	if err := s.notifier.NotifyOrder(ctx, order); err != nil {
		log.Error("failed to hand off order", zap.Error(err))
		return nil, err
	}

	if err := s.repo.Save(ctx, session, ClearStore(c, storeID)); err != nil {
		return nil, err
	}

	log.Info("checkout completed",
		zap.String("order_number", order.OrderNumber),
		zap.Int("lines", len(order.Lines)),
		zap.Int64("subtotal", order.Subtotal),
		zap.Duration("duration", time.Since(start)),
	)
	return &order, nil
}

// loadPurchasable returns an ACTIVE product together with its active store.
func (s *service) loadPurchasable(ctx context.Context, productID string) (*catalog.Product, *store.Store, error) {
	p, err := s.products.GetGraph(ctx, productID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil, ErrProductUnavailable
		}
		return nil, nil, err
	}
	if p.Status != catalog.ProductStatusActive {
		return nil, nil, ErrProductUnavailable
	}

	st, err := s.stores.GetByID(ctx, p.StoreID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil, ErrProductUnavailable
		}
		return nil, nil, err
	}
	if !st.Active {
		return nil, nil, ErrProductUnavailable
	}
	return p, st, nil
}

func (s *service) currentVariant(ctx context.Context, it *Item) (*catalog.Variant, error) {
	p, err := s.products.GetGraph(ctx, it.ProductID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrItemUnavailable
		}
		return nil, err
	}
	v := p.VariantByID(it.VariantID)
	if v == nil || p.Status != catalog.ProductStatusActive {
		return nil, ErrItemUnavailable
	}
	return v, nil
}

func pickVariant(p *catalog.Product, in AddItemInput) (*catalog.Variant, error) {
	if in.VariantID != "" {
		v := p.VariantByID(in.VariantID)
		if v == nil {
			return nil, ErrVariantNotFound
		}
		return v, nil
	}

	res, err := variant.Resolve(p, in.Selection)
	if err != nil {
		return nil, err
	}
	switch res.Status {
	case variant.StatusIncomplete:
		return nil, ErrIncompleteSelection
	case variant.StatusInvalidCombination:
		return nil, ErrInvalidCombination
	}
	return res.Variant, nil
}

func refOf(st *store.Store) StoreRef {
	return StoreRef{ID: st.ID, Name: st.Name, Slug: st.Slug, WhatsApp: st.WhatsApp}
}

func lineName(it *Item) string {
	if len(it.OptionNames) == 0 {
		return it.ProductName
	}
	return it.ProductName + " (" + strings.Join(it.OptionNames, ", ") + ")"
}
