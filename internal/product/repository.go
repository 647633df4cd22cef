package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"multitoko-be/internal/catalog"
	"multitoko-be/internal/db"
	"multitoko-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*catalog.Product, error)
	GetBySlug(ctx context.Context, slug string) (*catalog.Product, error)
	ListOptionTypes(ctx context.Context, productID string) ([]*catalog.OptionType, error)
	ListVariants(ctx context.Context, productID string) ([]*catalog.Variant, error)
	ListImages(ctx context.Context, productID string) ([]*catalog.Image, error)
	ListCategoryIDs(ctx context.Context, productID string) ([]string, error)
	ExistingSKUs(ctx context.Context, skus []string) ([]string, error)
	CreateGraph(ctx context.Context, d *Draft) (*catalog.Product, error)
	UpdateName(ctx context.Context, id, name, slug string) (*catalog.Product, error)
	UpdateVariant(ctx context.Context, in UpdateVariantInput) (*catalog.Variant, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
		p.id,
		p.store_id,
		p.slug,
		p.name,
		p.description,
		p.base_price,
		p.status,
		p.created_at,
		p.updated_at`

// variantColumns loads the variant row together with its option value ids.
const variantColumns = `
		v.id,
		v.product_id,
		v.sku,
		v.stock,
		v.price_absolute,
		v.price_delta,
		ARRAY(
			SELECT vov.option_value_id::text
			FROM variant_option_values vov
			WHERE vov.variant_id = v.id
		)`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(
		&p.ID,
		&p.StoreID,
		&p.Slug,
		&p.Name,
		&p.Description,
		&p.BasePrice,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanVariant(row scanner) (*catalog.Variant, error) {
	var (
		v        catalog.Variant
		sku      sql.NullString
		absolute sql.NullInt64
		delta    sql.NullInt64
		values   []string
	)

	err := row.Scan(
		&v.ID,
		&v.ProductID,
		&sku,
		&v.Stock,
		&absolute,
		&delta,
		pq.Array(&values),
	)
	if err != nil {
		return nil, err
	}

	if sku.Valid {
		v.SKU = &sku.String
	}
	if absolute.Valid {
		v.PriceAbsolute = &absolute.Int64
	}
	if delta.Valid {
		v.PriceDelta = &delta.Int64
	}
	v.Options = catalog.NewOptionSet(values...)
	return &v, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	return r.getOne(ctx, `SELECT`+productColumns+` FROM products p WHERE p.id = $1`, id)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	return r.getOne(ctx, `SELECT`+productColumns+` FROM products p WHERE p.slug = $1`, slug)
}

func (r *repository) getOne(ctx context.Context, query, arg string) (*catalog.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get product",
			zap.String("layer", "repository"),
			zap.String("key", arg),
			zap.Error(err),
		)
		return nil, err
	}
	return p, nil
}

// ListOptionTypes returns the option types of a product with their values,
// both in position order.
func (r *repository) ListOptionTypes(ctx context.Context, productID string) ([]*catalog.OptionType, error) {
	query := `
		SELECT
			ot.id,
			ot.name,
			ot.position,
			ov.id,
			ov.name
		FROM option_types ot
		JOIN option_values ov ON ov.option_type_id = ot.id
		WHERE ot.product_id = $1
		ORDER BY ot.position ASC, ot.id ASC, ov.position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list option types: %w", err)
	}
	defer rows.Close()

	var (
		types  []*catalog.OptionType
		byID   = map[string]*catalog.OptionType{}
		typeID string
	)

	for rows.Next() {
		var (
			ot catalog.OptionType
			ov catalog.OptionValue
		)
		if err := rows.Scan(&typeID, &ot.Name, &ot.Position, &ov.ID, &ov.Name); err != nil {
			return nil, fmt.Errorf("scan option type: %w", err)
		}

		existing, ok := byID[typeID]
		if !ok {
			ot.ID = typeID
			ot.ProductID = productID
			existing = &ot
			byID[typeID] = existing
			types = append(types, existing)
		}

		ov.OptionTypeID = typeID
		existing.Values = append(existing.Values, &ov)
	}

	return types, rows.Err()
}

func (r *repository) ListVariants(ctx context.Context, productID string) ([]*catalog.Variant, error) {
	query := `SELECT` + variantColumns + `
		FROM variants v
		WHERE v.product_id = $1
		ORDER BY v.position ASC, v.id ASC`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	var variants []*catalog.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

func (r *repository) ListImages(ctx context.Context, productID string) ([]*catalog.Image, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, url, alt, sort_order
		FROM product_images
		WHERE product_id = $1
		ORDER BY sort_order ASC, id ASC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var images []*catalog.Image
	for rows.Next() {
		var img catalog.Image
		if err := rows.Scan(&img.ID, &img.URL, &img.Alt, &img.Order); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, &img)
	}
	return images, rows.Err()
}

func (r *repository) ListCategoryIDs(ctx context.Context, productID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id FROM product_categories WHERE product_id = $1 ORDER BY category_id ASC`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("list product categories: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ExistingSKUs returns which of skus are already used by some variant.
func (r *repository) ExistingSKUs(ctx context.Context, skus []string) ([]string, error) {
	if len(skus) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT sku FROM variants WHERE sku = ANY($1)`, pq.Array(skus))
	if err != nil {
		return nil, fmt.Errorf("check skus: %w", err)
	}
	defer rows.Close()

	var taken []string
	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err != nil {
			return nil, err
		}
		taken = append(taken, sku)
	}
	return taken, rows.Err()
}

// CreateGraph inserts the product, its category links, images, option types
// and values, and variants with their option links in one transaction.
func (r *repository) CreateGraph(ctx context.Context, d *Draft) (*catalog.Product, error) {
	start := time.Now()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateProductGraph"),
		zap.String("slug", d.Product.Slug),
	)

	p := d.Product
	p.Images = nil
	p.OptionTypes = nil
	p.Variants = nil

	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO products (store_id, slug, name, description, base_price, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`, p.StoreID, p.Slug, p.Name, p.Description, p.BasePrice, p.Status).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return err
		}

		for _, categoryID := range p.CategoryIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2)`,
				p.ID, categoryID,
			); err != nil {
				return err
			}
		}

		for _, in := range d.Product.Images {
			img := *in
			if err := tx.QueryRowContext(ctx, `
				INSERT INTO product_images (product_id, url, alt, sort_order)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`, p.ID, img.URL, img.Alt, img.Order).Scan(&img.ID); err != nil {
				return err
			}
			p.Images = append(p.Images, &img)
		}

		// option type key -> value name -> inserted value id
		valueIDs := make(map[string]map[string]string, len(d.OptionTypes))

		for pos, dt := range d.OptionTypes {
			ot := &catalog.OptionType{ProductID: p.ID, Name: dt.Name, Position: pos}
			if err := tx.QueryRowContext(ctx, `
				INSERT INTO option_types (product_id, name, position)
				VALUES ($1, $2, $3)
				RETURNING id
			`, p.ID, dt.Name, pos).Scan(&ot.ID); err != nil {
				return err
			}

			valueIDs[dt.Key] = make(map[string]string, len(dt.Values))
			for vpos, name := range dt.Values {
				ov := &catalog.OptionValue{OptionTypeID: ot.ID, Name: name}
				if err := tx.QueryRowContext(ctx, `
					INSERT INTO option_values (option_type_id, name, position)
					VALUES ($1, $2, $3)
					RETURNING id
				`, ot.ID, name, vpos).Scan(&ov.ID); err != nil {
					return err
				}
				valueIDs[dt.Key][name] = ov.ID
				ot.Values = append(ot.Values, ov)
			}
			p.OptionTypes = append(p.OptionTypes, ot)
		}

		for pos, dv := range d.Variants {
			v := &catalog.Variant{
				ProductID:     p.ID,
				SKU:           dv.SKU,
				Stock:         dv.Stock,
				PriceAbsolute: dv.PriceAbsolute,
				PriceDelta:    dv.PriceDelta,
			}
			if err := tx.QueryRowContext(ctx, `
				INSERT INTO variants (product_id, sku, stock, price_absolute, price_delta, position)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id
			`, p.ID, dv.SKU, dv.Stock, dv.PriceAbsolute, dv.PriceDelta, pos).Scan(&v.ID); err != nil {
				return err
			}

			ids := make([]string, 0, len(dv.Combination))
			for _, pair := range dv.Combination {
				valueID, ok := valueIDs[pair.OptionTypeID][pair.Value]
				if !ok {
					return fmt.Errorf("combination value %q of option %q was not inserted", pair.Value, pair.OptionTypeID)
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO variant_option_values (variant_id, option_value_id) VALUES ($1, $2)`,
					v.ID, valueID,
				); err != nil {
					return err
				}
				ids = append(ids, valueID)
			}
			v.Options = catalog.NewOptionSet(ids...)
			p.Variants = append(p.Variants, v)
		}

		return nil
	})
	if err != nil {
		log.Error("failed to create product graph", zap.Error(err))
		return nil, err
	}

	log.Info("success create product graph",
		zap.String("product_id", p.ID),
		zap.Int("variants", len(p.Variants)),
		zap.Duration("duration", time.Since(start)),
	)
	return &p, nil
}

func (r *repository) UpdateName(ctx context.Context, id, name, slug string) (*catalog.Product, error) {
	query := `
		UPDATE products p
		SET name = $1, slug = $2, updated_at = NOW()
		WHERE p.id = $3
		RETURNING` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, name, slug, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to rename product",
			zap.String("layer", "repository"),
			zap.String("product_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return p, nil
}

func (r *repository) UpdateVariant(ctx context.Context, in UpdateVariantInput) (*catalog.Variant, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateVariant"),
		zap.String("variant_id", in.ID),
	)

	set := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if in.Stock != nil {
		add("stock", *in.Stock)
	}
	if in.PriceAbsolute != nil {
		add("price_absolute", in.PriceAbsolute.Amount)
	}
	if in.PriceDelta != nil {
		add("price_delta", in.PriceDelta.Amount)
	}
	if in.SKU != nil {
		if *in.SKU == "" {
			add("sku", nil)
		} else {
			add("sku", *in.SKU)
		}
	}

	if len(set) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	args = append(args, in.ID)
	query := `UPDATE variants v SET ` + strings.Join(set, ", ") +
		fmt.Sprintf(` WHERE v.id = $%d RETURNING`, len(args)) + variantColumns

	v, err := scanVariant(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVariantNotFound
	}
	if err != nil {
		log.Error("failed to update variant", zap.Error(err))
		return nil, err
	}

	log.Info("success update variant")
	return v, nil
}
