package product

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"multitoko-be/internal/catalog"
	"multitoko-be/internal/category"
	"multitoko-be/internal/db"
	"multitoko-be/internal/logger"
	"multitoko-be/internal/pricing"
	"multitoko-be/internal/sku"
	"multitoko-be/internal/slug"
	"multitoko-be/internal/store"
	"multitoko-be/internal/variant"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxCreateAttempts = 3

type StoreReader interface {
	GetByID(ctx context.Context, id string) (*store.Store, error)
}

type CategoryReader interface {
	GetByIDs(ctx context.Context, ids []string) ([]*category.Category, error)
}

type Quoter interface {
	Quote(ctx context.Context, p *catalog.Product, v *catalog.Variant) (*pricing.Quote, error)
}

type Service interface {
	Create(ctx context.Context, in NewProductInput) (*catalog.Product, error)
	Rename(ctx context.Context, id, name string) (*catalog.Product, error)
	UpdateVariant(ctx context.Context, in UpdateVariantInput) (*catalog.Variant, error)
	GetGraph(ctx context.Context, id string) (*catalog.Product, error)
	GetDetail(ctx context.Context, slug string, sel variant.Selection) (*Detail, error)
	Quote(ctx context.Context, slug, variantID string) (*pricing.Quote, error)
}

type service struct {
	repo       Repository
	slugs      *slug.Generator
	stores     StoreReader
	categories CategoryReader
	quoter     Quoter
	skuFor     func(productName string, values []string) string
}

func NewService(
	repo Repository,
	slugs *slug.Generator,
	stores StoreReader,
	categories CategoryReader,
	quoter Quoter,
) Service {
	return &service{
		repo:       repo,
		slugs:      slugs,
		stores:     stores,
		categories: categories,
		quoter:     quoter,
		skuFor:     sku.Generate,
	}
}

// Create validates the input, expands the option types into one variant per
// combination and inserts the whole graph. A slug or generated SKU lost to a
// concurrent insert is retried; a taken caller-supplied SKU is not.
func (s *service) Create(ctx context.Context, in NewProductInput) (*catalog.Product, error) {
	start := time.Now()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
		zap.String("store_id", in.StoreID),
	)
	log.Debug("create product started")

	draft, err := s.buildDraft(ctx, in)
	if err != nil {
		log.Info("create product rejected", zap.Error(err))
		return nil, err
	}

	counter := 0
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		if taken, err := s.repo.ExistingSKUs(ctx, draft.userSKUs()); err != nil {
			return nil, err
		} else if len(taken) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrSKUTaken, strings.Join(taken, ", "))
		}

		var n int
		draft.Product.Slug, n, err = s.slugs.GenerateFrom(ctx, draft.Product.Name, slug.EntityProduct, "", counter)
		if err != nil {
			return nil, err
		}

		created, err := s.repo.CreateGraph(ctx, draft)
		if err == nil {
			log.Info("product created",
				zap.String("product_id", created.ID),
				zap.String("slug", created.Slug),
				zap.Int("variants", len(created.Variants)),
				zap.Duration("duration", time.Since(start)),
			)
			return created, nil
		}

		constraint, ok := db.UniqueViolation(err)
		switch {
		case ok && constraint == PgProductsSlugKey:
			log.Warn("product slug taken concurrently, retrying", zap.String("slug", draft.Product.Slug))
			counter = n + 1
		case ok && constraint == PgVariantsSKUKey:
			log.Warn("sku taken concurrently, regenerating", zap.Int("attempt", attempt+1))
			s.regenerateSKUs(draft)
		default:
			log.Error("failed to create product", zap.Error(err))
			return nil, err
		}
	}

	return nil, ErrRetriesExhausted
}

func (s *service) buildDraft(ctx context.Context, in NewProductInput) (*Draft, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if in.BasePrice < 0 {
		return nil, ErrInvalidPrice
	}

	status := in.Status
	if status == "" {
		status = catalog.ProductStatusDraft
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if _, err := s.stores.GetByID(ctx, in.StoreID); err != nil {
		return nil, err
	}

	categoryIDs := dedupe(in.CategoryIDs)
	if len(categoryIDs) == 0 {
		return nil, ErrNoCategory
	}
	found, err := s.categories.GetByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}
	if len(found) != len(categoryIDs) {
		return nil, ErrUnknownCategory
	}

	images := make([]*catalog.Image, 0, len(in.Images))
	for _, img := range in.Images {
		url := strings.TrimSpace(img.URL)
		if url == "" {
			return nil, ErrInvalidImage
		}
		images = append(images, &catalog.Image{URL: url, Alt: img.Alt, Order: img.Order})
	}

	draft := &Draft{
		Product: catalog.Product{
			StoreID:     in.StoreID,
			Name:        name,
			Description: in.Description,
			BasePrice:   in.BasePrice,
			Status:      status,
			CategoryIDs: categoryIDs,
			Images:      images,
		},
	}
	draft.Product.SortImages()

	inputs := make([]variant.OptionInput, 0, len(in.OptionTypes))
	for i, ot := range in.OptionTypes {
		typeName := strings.TrimSpace(ot.Name)
		if typeName == "" {
			return nil, ErrInvalidOptionName
		}
		key := strconv.Itoa(i)
		values := variant.CleanValues(ot.Values)
		draft.OptionTypes = append(draft.OptionTypes, draftOptionType{Key: key, Name: typeName, Values: values})
		inputs = append(inputs, variant.OptionInput{ID: key, Values: values})
	}

	combos, err := variant.GenerateCombinations(inputs)
	if err != nil {
		return nil, err
	}

	overrides, err := indexOverrides(in.Variants)
	if err != nil {
		return nil, err
	}

	seenSKU := map[string]bool{}
	for _, combo := range combos.Items() {
		key := overrideKey(combo.Values())
		dv := DraftVariant{Combination: combo}

		if o, ok := overrides[key]; ok {
			delete(overrides, key)
			dv.Stock = o.Stock
			dv.PriceAbsolute = o.PriceAbsolute
			dv.PriceDelta = o.PriceDelta
			if o.SKU != nil {
				if code := strings.TrimSpace(*o.SKU); code != "" {
					if seenSKU[code] {
						return nil, ErrDuplicateSKU
					}
					seenSKU[code] = true
					dv.SKU = &code
				}
			}
		}

		if dv.SKU == nil {
			code := s.skuFor(name, combo.Values())
			dv.SKU = &code
			dv.GeneratedSKU = true
		}

		draft.Variants = append(draft.Variants, dv)
	}

	if len(overrides) > 0 {
		return nil, ErrInvalidOverride
	}

	return draft, nil
}

func indexOverrides(in []VariantOverride) (map[string]VariantOverride, error) {
	out := make(map[string]VariantOverride, len(in))
	for _, o := range in {
		if o.Stock < 0 {
			return nil, ErrInvalidStock
		}
		if o.PriceAbsolute != nil && *o.PriceAbsolute < 0 {
			return nil, ErrInvalidPrice
		}
		values := make([]string, len(o.Values))
		for i, v := range o.Values {
			values[i] = strings.TrimSpace(v)
		}
		out[overrideKey(values)] = o
	}
	return out, nil
}

func (s *service) regenerateSKUs(d *Draft) {
	for i := range d.Variants {
		if d.Variants[i].GeneratedSKU {
			code := s.skuFor(d.Product.Name, d.Variants[i].Combination.Values())
			d.Variants[i].SKU = &code
		}
	}
}

func (s *service) Rename(ctx context.Context, id, name string) (*catalog.Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RenameProduct"),
		zap.String("product_id", id),
	)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	counter := 0
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		candidate, n, err := s.slugs.GenerateFrom(ctx, name, slug.EntityProduct, id, counter)
		if err != nil {
			return nil, err
		}

		p, err := s.repo.UpdateName(ctx, id, name, candidate)
		if err == nil {
			log.Info("product renamed", zap.String("slug", p.Slug))
			return p, nil
		}

		if constraint, ok := db.UniqueViolation(err); ok && constraint == PgProductsSlugKey {
			counter = n + 1
			continue
		}
		return nil, err
	}

	return nil, ErrRetriesExhausted
}

func (s *service) UpdateVariant(ctx context.Context, in UpdateVariantInput) (*catalog.Variant, error) {
	if !in.hasAnyField() {
		return nil, ErrNoFieldsToUpdate
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, ErrInvalidStock
	}
	if in.PriceAbsolute != nil && in.PriceAbsolute.Amount != nil && *in.PriceAbsolute.Amount < 0 {
		return nil, ErrInvalidPrice
	}
	if in.SKU != nil {
		code := strings.TrimSpace(*in.SKU)
		in.SKU = &code
	}

	v, err := s.repo.UpdateVariant(ctx, in)
	if constraint, ok := db.UniqueViolation(err); ok && constraint == PgVariantsSKUKey {
		return nil, ErrSKUTaken
	}
	return v, err
}

// GetGraph loads a product with option types, variants, images and
// category ids.
func (s *service) GetGraph(ctx context.Context, id string) (*catalog.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	s.loadGraph(gctx, g, p)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return p, s.finishGraph(ctx, p)
}

// loadGraph schedules the child loads of p on g. Each load writes a distinct
// field of p.
func (s *service) loadGraph(ctx context.Context, g *errgroup.Group, p *catalog.Product) {
	g.Go(func() error {
		types, err := s.repo.ListOptionTypes(ctx, p.ID)
		p.OptionTypes = types
		return err
	})
	g.Go(func() error {
		variants, err := s.repo.ListVariants(ctx, p.ID)
		p.Variants = variants
		return err
	})
	g.Go(func() error {
		images, err := s.repo.ListImages(ctx, p.ID)
		p.Images = images
		return err
	})
	g.Go(func() error {
		ids, err := s.repo.ListCategoryIDs(ctx, p.ID)
		p.CategoryIDs = ids
		return err
	})
}

func (s *service) finishGraph(ctx context.Context, p *catalog.Product) error {
	p.SortOptionTypes()
	p.SortImages()

	if err := variant.CheckVariants(p); err != nil {
		logger.FromCtx(ctx).Error("stored variants break option identity",
			zap.String("product_id", p.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// GetDetail returns the storefront view of an active product of an active
// store. Anything else is reported as not found.
func (s *service) GetDetail(ctx context.Context, slug string, sel variant.Selection) (*Detail, error) {
	start := time.Now()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetProductDetail"),
		zap.String("slug", slug),
	)

	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p.Status != catalog.ProductStatusActive {
		return nil, ErrProductNotFound
	}

	var st *store.Store
	g, gctx := errgroup.WithContext(ctx)
	s.loadGraph(gctx, g, p)
	g.Go(func() error {
		var err error
		st, err = s.stores.GetByID(gctx, p.StoreID)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to load product detail", zap.Error(err))
		return nil, err
	}
	if !st.Active {
		return nil, ErrProductNotFound
	}
	if err := s.finishGraph(ctx, p); err != nil {
		return nil, err
	}

	categories, err := s.categories.GetByIDs(ctx, p.CategoryIDs)
	if err != nil {
		return nil, err
	}

	res, err := variant.Resolve(p, sel)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Product: p, Store: st, Categories: categories, Resolution: res}
	if res.Variant != nil {
		detail.Quote, err = s.quoter.Quote(ctx, p, res.Variant)
		if err != nil {
			return nil, err
		}
	}

	log.Info("get product detail success",
		zap.String("status", string(res.Status)),
		zap.Duration("duration", time.Since(start)),
	)
	return detail, nil
}

func (s *service) Quote(ctx context.Context, slug, variantID string) (*pricing.Quote, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p.Status != catalog.ProductStatusActive {
		return nil, ErrProductNotFound
	}

	variants, err := s.repo.ListVariants(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Variants = variants

	v := p.VariantByID(variantID)
	if v == nil {
		return nil, ErrVariantNotFound
	}
	return s.quoter.Quote(ctx, p, v)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
